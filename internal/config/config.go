package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

// Config is the server configuration.
type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
}

type HTTPConfig struct {
	Host               string        `env:"HTTP_HOST" env-default:""`
	Port               string        `env:"HTTP_PORT" env-default:"5000"`
	ShutdownTimeout    time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	CORSAllowedOrigins []string      `env:"HTTP_CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type StoreConfig struct {
	// Driver is one of storage.DriverMongo, storage.DriverPostgres
	// or storage.DriverSQLite.
	Driver string `env:"STORE_DRIVER" env-default:"mongo"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" env-default:"tasktrackr"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-default:"postgres"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE" env-default:"tasktrackr"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" env-default:"tasktrackr.db"`
}

// ClientConfig configures the tasktrackr terminal client.
type ClientConfig struct {
	TasksAPIURL string        `env:"TASKS_API_URL" env-default:"http://localhost:5000/api/tasks"`
	HTTPTimeout time.Duration `env:"TASKTRACKR_HTTP_TIMEOUT" env-default:"10s"`
	SessionFile string        `env:"TASKTRACKR_SESSION_FILE"`
	Firebase    FirebaseConfig
}

type FirebaseConfig struct {
	APIKey      string `env:"FIREBASE_API_KEY"`
	IdentityURL string `env:"FIREBASE_IDENTITY_URL" env-default:"https://identitytoolkit.googleapis.com/v1"`
	TokenURL    string `env:"FIREBASE_TOKEN_URL" env-default:"https://securetoken.googleapis.com/v1/token"`
}
