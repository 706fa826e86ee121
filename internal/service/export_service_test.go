package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"user-registry/internal/domain"
	"user-registry/internal/logger"
	"user-registry/internal/metrics"
	"user-registry/internal/repository"
	"user-registry/internal/service"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func seededRepo(t *testing.T) *repository.MemoryUserRepository {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	m := service.NewUserManager(service.DefaultManagerConfig(), repo, discardLogger())
	addSampleUsers(t, m)
	return repo
}

func TestExportService_JSON(t *testing.T) {
	svc := service.NewExportService(seededRepo(t))

	var buf bytes.Buffer
	n, err := svc.ExportUsers(context.Background(), "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, buf.String(), "\n  {")

	var users []domain.User
	require.NoError(t, json.Unmarshal(buf.Bytes(), &users))
	require.Len(t, users, 3)
	assert.Equal(t, "John Doe", users[0].Name)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.True(t, users[0].IsActive)
	assert.True(t, strings.HasPrefix(users[0].ID, "user_"))
}

func TestExportService_RecordsMetricsAndLog(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Default()
	t.Cleanup(func() { logger.SetLogger(prev) })
	logger.SetLogger(logger.New(&buf, slog.LevelDebug, "json"))

	svc := service.NewExportService(seededRepo(t))
	before := testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("ndjson", "success"))

	_, err := svc.ExportUsers(context.Background(), "ndjson", io.Discard)
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ExportsTotal.WithLabelValues("ndjson", "success")))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.ExportDuration), 1)
	assert.Contains(t, buf.String(), "Export finished")
	assert.Contains(t, buf.String(), `"records":3`)
	assert.Contains(t, buf.String(), `"format":"ndjson"`)
}

func TestExportService_JSONEmpty(t *testing.T) {
	svc := service.NewExportService(repository.NewMemoryUserRepository())

	var buf bytes.Buffer
	n, err := svc.ExportUsers(context.Background(), "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "[]\n", buf.String())
}

func TestExportService_NDJSON(t *testing.T) {
	svc := service.NewExportService(seededRepo(t))

	var buf bytes.Buffer
	n, err := svc.ExportUsers(context.Background(), "ndjson", &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], `"name":"Bob Wilson"`)
	assert.Contains(t, lines[2], `"role":"Moderator"`)
}

func TestExportService_CSV(t *testing.T) {
	svc := service.NewExportService(seededRepo(t))

	var buf bytes.Buffer
	n, err := svc.ExportUsers(context.Background(), "csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"id", "name", "email", "role", "is_active", "created_at"}, records[0])
	assert.Equal(t, "Jane Smith", records[2][1])
	assert.Equal(t, "jane@example.com", records[2][2])
	assert.Equal(t, "User", records[2][3])
	assert.Equal(t, "true", records[2][4])
}

func TestExportService_RoundTripThroughImport(t *testing.T) {
	svc := service.NewExportService(seededRepo(t))

	var buf bytes.Buffer
	_, err := svc.ExportUsers(context.Background(), "ndjson", &buf)
	require.NoError(t, err)

	m := newManager(t)
	result, err := service.NewImportService(m, nil).ImportUsers(context.Background(), "ndjson", &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Len(t, m.UsersByRole(domain.RoleAdmin), 1)
}

func TestExportService_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		svc := service.NewExportService(repository.NewMemoryUserRepository())
		_, err := svc.ExportUsers(context.Background(), "xml", &bytes.Buffer{})
		assert.ErrorIs(t, err, service.ErrUnsupportedFormat)
	})

	t.Run("write failure", func(t *testing.T) {
		svc := service.NewExportService(seededRepo(t))
		for _, format := range []string{"json", "ndjson", "csv"} {
			_, err := svc.ExportUsers(context.Background(), format, failingWriter{})
			assert.Error(t, err, format)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &mockUserRepository{}
		boom := errors.New("boom")
		repo.On("StreamAll", mock.Anything, mock.Anything).Return(boom)

		svc := service.NewExportService(repo)
		_, err := svc.ExportUsers(context.Background(), "ndjson", &bytes.Buffer{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := service.NewExportService(seededRepo(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.ExportUsers(ctx, "json", &bytes.Buffer{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
