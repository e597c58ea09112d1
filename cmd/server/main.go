package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"spadesk/internal/config"
	"spadesk/internal/db"
	"spadesk/internal/google"
	"spadesk/internal/logger"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "spadesk",
		Usage: "Spa booking, inquiry and chat backend.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			googleAuthCommand(),
			sheetsInitCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run migrations, then serve the HTTP API and the completion job.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return serve(c.Context, cfg, newLogger(cfg))
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the database schema and seed the default services.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			log := newLogger(cfg)

			conn, err := db.Open(c.Context, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()
			return db.Migrate(c.Context, conn, log)
		},
	}
}

func googleAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "google-auth",
		Usage: "Authorize calendar and spreadsheet access and save the token.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token-file",
				Value:   config.DefaultGoogleTokenFile,
				Usage:   "where to save the token",
				EnvVars: []string{config.EnvGoogleTokenFile},
			},
		},
		Action: func(c *cli.Context) error {
			log := logger.New(logger.Config{Level: "info"})
			log.Info("Starting Google authentication flow.")

			oauthConfig, err := google.OAuthConfig(os.Getenv(config.EnvGoogleClientID), os.Getenv(config.EnvGoogleClientSecret))
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.Exchange(c.Context, oauthConfig, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			tokenFile := c.String("token-file")
			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			log.Info("Successfully authenticated and saved token.", "file", tokenFile)
			return nil
		},
	}
}

func sheetsInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "sheets-init",
		Usage: "Create a bookings spreadsheet with the tracker header row.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Value: "Spa Bookings", Usage: "spreadsheet title"},
		},
		Action: func(c *cli.Context) error {
			log := logger.New(logger.Config{Level: "info"})

			tokenFile := os.Getenv(config.EnvGoogleTokenFile)
			if tokenFile == "" {
				tokenFile = config.DefaultGoogleTokenFile
			}
			httpClient, err := google.HTTPClient(c.Context, os.Getenv(config.EnvGoogleClientID), os.Getenv(config.EnvGoogleClientSecret), tokenFile)
			if err != nil {
				return err
			}

			sheets, err := google.NewSheetsClient(c.Context, log, "", googleOptions(httpClient)...)
			if err != nil {
				return err
			}
			id, err := sheets.CreateTracker(c.Context, c.String("title"))
			if err != nil {
				return err
			}

			fmt.Printf("Set %s=%s\n", config.EnvGoogleSheetsID, id)
			return nil
		},
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "spadesk",
	})
}
