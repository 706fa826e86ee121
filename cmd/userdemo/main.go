package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"user-registry/internal/config"
	"user-registry/internal/domain"
	"user-registry/internal/logger"
	"user-registry/internal/repository"
	"user-registry/internal/service"
	"user-registry/internal/validator"
)

type seedUser struct {
	name  string
	email string
	role  domain.Role
}

var sampleUsers = []seedUser{
	{"John Doe", "john@example.com", domain.RoleAdmin},
	{"Jane Smith", "jane@example.com", domain.RoleUser},
	{"Bob Wilson", "bob@example.com", domain.RoleModerator},
}

func main() {
	importPath := flag.String("import", "", "CSV or NDJSON file of users to import after the sample users")
	exportUsers := flag.Bool("export", false, "write all users to stdout in EXPORT_FORMAT")
	exportFormat := flag.String("format", "", "override EXPORT_FORMAT for -export (json, ndjson or csv)")
	dumpMetrics := flag.Bool("metrics", false, "print Prometheus metrics to stderr before exiting")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("Failed to initialize logger",
			slog.String("error", err.Error()))
	}
	if *exportFormat != "" {
		cfg.ExportFormat = *exportFormat
	}
	logger.Debug("Configuration loaded",
		slog.Int("max_users", cfg.MaxUsers),
		slog.Bool("enable_logging", cfg.EnableLogging),
		slog.String("export_format", cfg.ExportFormat))

	repo := repository.NewMemoryUserRepository()
	manager := service.NewUserManager(service.ManagerConfig{
		MaxUsers:      cfg.MaxUsers,
		EnableLogging: cfg.EnableLogging,
	}, repo, logger.Default())

	addSampleUsers(os.Stdout, manager)

	if *importPath != "" {
		if err := importFile(manager, *importPath); err != nil {
			logger.Fatal("Import failed",
				slog.String("path", *importPath),
				slog.String("error", err.Error()))
		}
	}

	admins := manager.UsersByRole(domain.RoleAdmin)
	fmt.Printf("Found %d admin users\n", len(admins))
	fmt.Printf("Total users: %d\n", manager.UserCount())

	if *exportUsers {
		if err := exportAll(context.Background(), os.Stdout, repo, cfg.ExportFormat); err != nil {
			logger.Error("Export failed",
				slog.String("format", cfg.ExportFormat),
				slog.String("error", err.Error()))
		}
	}

	if *dumpMetrics {
		if err := writeMetrics(os.Stderr, prometheus.DefaultGatherer); err != nil {
			logger.Error("Failed to write metrics",
				slog.String("error", err.Error()))
		}
	}
}

// addSampleUsers registers the fixed sample set. A rejected user is reported
// and the rest of the batch still runs.
func addSampleUsers(w io.Writer, manager *service.UserManager) {
	for _, u := range sampleUsers {
		if err := manager.AddUser(u.name, u.email, u.role); err != nil {
			fmt.Fprintf(w, "Error adding user %s: %v\n", u.name, err)
			continue
		}
		fmt.Fprintf(w, "Successfully added user: %s\n", u.name)
	}
}

func importFile(manager *service.UserManager, path string) error {
	format := domain.FormatCSV
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		format = domain.FormatNDJSON
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	importer := service.NewImportService(manager, validator.NewValidator())
	result, err := importer.ImportUsers(context.Background(), format, f)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d of %d users\n", result.SuccessCount, result.TotalRecords)
	for _, recErr := range result.Errors {
		fmt.Printf("  row %d %s: %s\n", recErr.Row, recErr.Field, recErr.Reason)
	}
	if len(result.Errors) > 0 {
		logger.Warn("Import finished with errors",
			slog.String("import_id", result.ID),
			slog.Int("errors", len(result.Errors)))
	}
	return nil
}

// exportAll writes every stored user to w in the given format.
func exportAll(ctx context.Context, w io.Writer, repo repository.UserRepository, format string) error {
	n, err := service.NewExportService(repo).ExportUsers(ctx, format, w)
	if err != nil {
		return err
	}
	logger.Info("Export written",
		slog.String("format", format),
		slog.Int("records", n))
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "user_registry_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
