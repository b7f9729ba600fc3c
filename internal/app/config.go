package app

import (
	"net"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/tasktrackr/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("store_driver", cfg.Store.Driver).
		Str("http_addr", net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)).
		Strs("cors_allowed_origins", cfg.HTTP.CORSAllowedOrigins).
		Msg("read env")

	config.SetGlobal(cfg)
}
