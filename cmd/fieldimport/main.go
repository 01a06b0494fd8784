package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"fieldimport/internal/api"
	"fieldimport/internal/application"
	"fieldimport/internal/auth"
	"fieldimport/internal/config"
	"fieldimport/internal/csvfile"
	"fieldimport/internal/importer"
	"fieldimport/internal/logging"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging to terminal + per-run log file
	logPath, closeLog, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Dir)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	log := slog.Default().With("run_id", uuid.NewString())
	log.Info("configuration loaded", "config", cfg.String(), "log_file", logPath)

	// Read and validate the source file; the first invalid row aborts.
	fields, err := csvfile.Read(cfg.Source.FileName)
	if err != nil {
		log.Error("failed to read source file", "file", cfg.Source.FileName, "error", err)
		os.Exit(1)
	}
	log.Info("fields loaded", "file", cfg.Source.FileName, "count", len(fields))

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	tokens := auth.NewClient(httpClient, cfg.API.TokenURL(), cfg.API.ClientID, cfg.API.ClientSecret)

	// Pre-flight authentication: rejected credentials stop the run before
	// any submission is attempted.
	header, err := tokens.HeaderValue(context.Background())
	if err != nil {
		log.Error("authentication failed", "error", err)
		os.Exit(1)
	}
	tokenType, _, _ := strings.Cut(header, " ")
	log.Info("authenticated", "token_type", tokenType)

	submitter := api.NewClient(httpClient, cfg.API.FieldEndpoint(), cfg.API.SubmitDelay)
	pipeline := importer.New(tokens, submitter, log)

	report, runErr := application.Run(fields, pipeline, tokenType)

	log.Info("import finished",
		"succeeded", len(report.Successes),
		"failed", len(report.Failures),
		"attempted", report.Attempted(),
	)
	for _, failure := range report.Failures {
		log.Warn("field not created", "field", failure.Label, "reason", failure.Reason)
	}

	if runErr != nil {
		log.Error("run ended with error", "error", runErr)
		os.Exit(1)
	}
}
