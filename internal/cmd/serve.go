package cmd

import (
	"fmt"
	"os"

	"worklog/internal/config"
	"worklog/internal/logging"
	"worklog/internal/web"
)

// ServeCmd starts the HTTP API server
type ServeCmd struct {
	Host string `help:"Host to bind the API server to" default:"127.0.0.1"`
	Port string `help:"Port to listen on" default:""`
}

// Run starts the API server and blocks until shutdown
func (s *ServeCmd) Run(cli *CLI) error {
	// Apply settings with precedence: CLI flags > env vars > settings.json > defaults

	if cli.settings != nil {
		if s.Host == "127.0.0.1" {
			if _, hasEnv := os.LookupEnv("WORKLOG_HOST"); !hasEnv {
				if cli.settings.Host != "" {
					s.Host = cli.settings.Host
				}
			}
		}
	}

	if s.Port == "" {
		if envPort := os.Getenv("WORKLOG_PORT"); envPort != "" {
			s.Port = envPort
		} else if cli.settings != nil && cli.settings.Port != nil {
			s.Port = fmt.Sprintf("%d", *cli.settings.Port)
		} else {
			s.Port = fmt.Sprintf("%d", config.DefaultPort)
		}
	}

	logging.Logger.Info("Starting worklog server", "host", s.Host, "port", s.Port)

	server := web.NewServer(
		cli.Container.TaskService,
		cli.Container.SessionService,
		cli.Container.SummaryService,
		cli.Container.CatalogService,
	)
	return server.Start(s.Host, s.Port)
}
