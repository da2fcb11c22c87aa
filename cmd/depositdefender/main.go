package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vbonduro/depositdefender/internal/archive"
	"github.com/vbonduro/depositdefender/internal/archive/local"
	"github.com/vbonduro/depositdefender/internal/archive/s3"
	"github.com/vbonduro/depositdefender/internal/assess"
	"github.com/vbonduro/depositdefender/internal/assess/claude"
	"github.com/vbonduro/depositdefender/internal/assess/ollama"
	"github.com/vbonduro/depositdefender/internal/config"
	"github.com/vbonduro/depositdefender/internal/db"
	"github.com/vbonduro/depositdefender/internal/imaging"
	"github.com/vbonduro/depositdefender/internal/logging"
	"github.com/vbonduro/depositdefender/internal/service"
	"github.com/vbonduro/depositdefender/internal/share"
	"github.com/vbonduro/depositdefender/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "depositdefender",
	Short: "Document move-out inspections and share PDF reports",
	Long: `DepositDefender keeps a local record of a rental unit's condition at
move-out: properties, room-by-room checklists, timestamped photos and the
PDF report handed to the landlord.

Configuration comes from environment variables, optionally layered over a
YAML file named by DEPOSITDEFENDER_CONFIG.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, statsCmd, reportCmd, resetCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds everything a command needs. close releases it in reverse order.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *service.InspectionService
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// openApp loads configuration, takes the database lock and wires the
// service with the configured archive and assessor backends.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, closers: []func(){cleanup}}

	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	unlock, err := db.Lock(cfg.DBPath)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := unlock(); err != nil {
			logger.Error("failed to release database lock", "error", err)
		}
	})

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.closers = append(a.closers, func() { closeDB(database, logger) })

	arc, err := newArchive(ctx, cfg, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	if c, ok := arc.(io.Closer); ok {
		a.closers = append(a.closers, func() {
			if err := c.Close(); err != nil {
				logger.Error("failed to close report archive", "error", err)
			}
		})
	}
	issuer, err := share.NewIssuer([]byte(cfg.ShareSecret))
	if err != nil {
		a.close()
		return nil, err
	}
	if cfg.ShareSecret == "" {
		logger.Warn("SHARE_SECRET not set; share links stop working when the process restarts")
	}

	imageOpts := imaging.DefaultOptions()
	imageOpts.WatermarkText = cfg.WatermarkText

	opts := []service.Option{
		service.WithImageOptions(imageOpts),
		service.WithShareLimits(cfg.ShareTTL, cfg.ShareMaxAccess),
	}
	if arc != nil {
		opts = append(opts, service.WithArchive(arc))
	}
	if as := newAssessor(cfg, logger); as != nil {
		opts = append(opts, service.WithAssessor(as))
	}
	a.service = service.NewInspectionService(store.New(database), issuer, logger, opts...)
	return a, nil
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}

func newArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (archive.Archive, error) {
	switch cfg.ArchiveBackend {
	case "local":
		logger.Info("using local report archive", "path", cfg.ArchiveLocalPath)
		return local.New(cfg.ArchiveLocalPath)
	case "s3":
		logger.Info("using s3 report archive", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return s3.New(ctx, s3.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			UseSSL:          cfg.S3UseSSL,
			BucketName:      cfg.S3Bucket,
		})
	default:
		return nil, nil
	}
}

func newAssessor(cfg *config.Config, logger *slog.Logger) assess.Assessor {
	switch cfg.AssessBackend {
	case "claude":
		logger.Info("using Claude assessment backend", "model", cfg.ClaudeModel)
		return claude.NewAssessor(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama assessment backend", "model", cfg.OllamaModel)
		return ollama.NewAssessor(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil
	}
}
