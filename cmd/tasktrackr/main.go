package main

import (
	"fmt"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasktrackr/internal/auth"
	"github.com/adanyl0v/tasktrackr/internal/cli"
	"github.com/adanyl0v/tasktrackr/internal/client"
	"github.com/adanyl0v/tasktrackr/internal/config"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()

	cfg, err := config.ReadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := auth.NewFirebaseProvider(logger, auth.FirebaseConfig{
		APIKey:      cfg.Firebase.APIKey,
		IdentityURL: cfg.Firebase.IdentityURL,
		TokenURL:    cfg.Firebase.TokenURL,
		HTTPClient:  httpClient,
	}, auth.NewSessionFile(cfg.SessionFile))

	root := cli.NewRootCommand(cli.Deps{
		Logger:   logger,
		Provider: provider,
		Gateway:  client.NewTaskClient(cfg.TasksAPIURL, httpClient),
	})
	err = root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", auth.Message(err))
		os.Exit(1)
	}
}
