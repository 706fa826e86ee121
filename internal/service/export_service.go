package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"user-registry/internal/domain"
	"user-registry/internal/logger"
	"user-registry/internal/metrics"
	"user-registry/internal/repository"
)

// ExportService writes the stored users in json, ndjson or csv.
type ExportService struct {
	userRepo repository.UserRepository
}

// NewExportService creates a new ExportService.
func NewExportService(userRepo repository.UserRepository) *ExportService {
	return &ExportService{userRepo: userRepo}
}

// ExportUsers writes every user to w in insertion order and returns how many were written.
func (s *ExportService) ExportUsers(ctx context.Context, format string, w io.Writer) (int, error) {
	if !domain.IsValidExportFormat(format) {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	timer := metrics.NewTimer()

	var (
		count int
		err   error
	)
	switch format {
	case domain.FormatJSON:
		count, err = s.exportJSON(ctx, w)
	case domain.FormatNDJSON:
		count, err = s.exportNDJSON(ctx, w)
	case domain.FormatCSV:
		count, err = s.exportCSV(ctx, w)
	}

	result := "success"
	if err != nil {
		result = "error"
	}
	timer.ObserveDuration(metrics.ExportDuration.WithLabelValues(format))
	metrics.ObserveExport(format, result, count)

	logger.WithFields(
		slog.String("format", format),
		slog.String("result", result),
		slog.Int("records", count),
	).Debug("Export finished")

	if err != nil {
		return count, fmt.Errorf("export users: %w", err)
	}
	return count, nil
}

func (s *ExportService) exportJSON(ctx context.Context, w io.Writer) (int, error) {
	users := make([]domain.User, 0)
	err := s.userRepo.StreamAll(ctx, func(user domain.User) error {
		users = append(users, user)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("stream users: %w", err)
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal users: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("write json: %w", err)
	}
	return len(users), nil
}

func (s *ExportService) exportNDJSON(ctx context.Context, w io.Writer) (int, error) {
	encoder := json.NewEncoder(w)

	var count int
	err := s.userRepo.StreamAll(ctx, func(user domain.User) error {
		if err := encoder.Encode(user); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("stream users: %w", err)
	}
	return count, nil
}

func (s *ExportService) exportCSV(ctx context.Context, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "name", "email", "role", "is_active", "created_at"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	var count int
	err := s.userRepo.StreamAll(ctx, func(user domain.User) error {
		record := []string{
			user.ID,
			user.Name,
			user.Email,
			user.Role.String(),
			strconv.FormatBool(user.IsActive),
			user.CreatedAt.Format(time.RFC3339Nano),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("stream users: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, fmt.Errorf("flush csv: %w", err)
	}
	return count, nil
}
