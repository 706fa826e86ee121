package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"user-registry/internal/domain"
	"user-registry/internal/logger"
	"user-registry/internal/metrics"
	"user-registry/internal/validator"
)

const (
	// ScannerBufferSize is the initial buffer size for NDJSON scanner
	ScannerBufferSize = 64 * 1024 // 64KB
	// ScannerMaxBufferSize is the maximum buffer size for NDJSON scanner
	ScannerMaxBufferSize = 1024 * 1024 // 1MB
)

// ErrUnsupportedFormat is returned for formats outside domain.ImportFormats
// and domain.ExportFormats.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ImportService feeds CSV or NDJSON user records into a UserRegistrar.
type ImportService struct {
	registrar UserRegistrar
	validator *validator.Validator
}

// NewImportService creates a new ImportService.
func NewImportService(registrar UserRegistrar, v *validator.Validator) *ImportService {
	if v == nil {
		v = validator.NewValidator()
	}
	return &ImportService{
		registrar: registrar,
		validator: v,
	}
}

// ImportUsers reads every record from reader and registers it.
// A record that fails validation is reported in the result and the import
// continues with the next one. The returned error is non-nil only for an
// unsupported format or a cancelled context.
func (s *ImportService) ImportUsers(ctx context.Context, format string, reader io.Reader) (domain.ImportResult, error) {
	result := domain.ImportResult{
		ID:     uuid.New().String(),
		Format: format,
	}
	if !domain.IsValidImportFormat(format) {
		return result, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	log := logger.WithImportID(result.ID)
	log.Info("Starting import", slog.String("format", format))

	var err error
	if format == domain.FormatCSV {
		err = s.importCSV(ctx, reader, &result)
	} else {
		err = s.importNDJSON(ctx, reader, &result)
	}

	status := "completed"
	switch {
	case err != nil:
		status = "cancelled"
	case result.SuccessCount == 0 && len(result.Errors) > 0:
		status = "failed"
	case result.FailureCount > 0 || len(result.Errors) > 0:
		status = "completed_with_errors"
	}
	metrics.ObserveImport(format, status, result.SuccessCount, result.FailureCount)

	log.Info("Import finished",
		slog.String("status", status),
		slog.Int("total", result.TotalRecords),
		slog.Int("success", result.SuccessCount),
		slog.Int("failed", result.FailureCount))

	if err != nil {
		return result, fmt.Errorf("import users: %w", err)
	}
	return result, nil
}

func (s *ImportService) importCSV(ctx context.Context, reader io.Reader, result *domain.ImportResult) error {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		result.Errors = append(result.Errors, domain.RecordError{
			Row:    1,
			Field:  "header",
			Reason: fmt.Sprintf("failed to read CSV header: %v", err),
		})
		return nil
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredColumns := []string{"name", "email", "role"}
	var missingColumns []string
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			missingColumns = append(missingColumns, col)
		}
	}
	if len(missingColumns) > 0 {
		result.Errors = append(result.Errors, domain.RecordError{
			Row:    1,
			Field:  "header",
			Reason: fmt.Sprintf("missing required columns: %s", strings.Join(missingColumns, ", ")),
		})
		return nil
	}

	column := func(record []string, name string) string {
		if idx := colMap[name]; idx < len(record) {
			return record[idx]
		}
		return ""
	}

	rowNum := 1 // header
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := csvReader.Read()
		if err == io.EOF {
			return nil
		}
		rowNum++
		if err != nil {
			result.TotalRecords++
			result.FailureCount++
			result.Errors = append(result.Errors, domain.RecordError{
				Row:    rowNum,
				Field:  "csv",
				Reason: err.Error(),
			})
			continue
		}

		s.register(rowNum, &validator.UserRecord{
			Name:  column(record, "name"),
			Email: column(record, "email"),
			Role:  column(record, "role"),
		}, result)
	}
}

func (s *ImportService) importNDJSON(ctx context.Context, reader io.Reader, result *domain.ImportResult) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, ScannerBufferSize), ScannerMaxBufferSize)

	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNum++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record validator.UserRecord
		if err := json.Unmarshal(line, &record); err != nil {
			result.TotalRecords++
			result.FailureCount++
			result.Errors = append(result.Errors, domain.RecordError{
				Row:    lineNum,
				Field:  "json",
				Reason: err.Error(),
			})
			continue
		}

		s.register(lineNum, &record, result)
	}

	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, domain.RecordError{
			Row:    lineNum + 1,
			Field:  "json",
			Reason: fmt.Sprintf("read error: %v", err),
		})
	}
	return nil
}

// register validates one record and hands it to the registrar.
func (s *ImportService) register(rowNum int, record *validator.UserRecord, result *domain.ImportResult) {
	result.TotalRecords++

	if err := s.validator.ValidateRecord(record); err != nil {
		validator.AppendValidationErrors(&result.Errors, rowNum, err)
		result.FailureCount++
		return
	}

	role, err := domain.ParseRole(record.Role)
	if err != nil {
		validator.AppendValidationErrors(&result.Errors, rowNum, err)
		result.FailureCount++
		return
	}

	if err := s.registrar.AddUser(record.Name, record.Email, role); err != nil {
		validator.AppendValidationErrors(&result.Errors, rowNum, err)
		result.FailureCount++
		return
	}

	result.SuccessCount++
}
