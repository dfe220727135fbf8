package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/models"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/jobs"
	"github.com/noah-isme/college-registry/pkg/storage"
)

func seededRegistry(t *testing.T, ids ...string) *Registry {
	t.Helper()
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.RegisterCourse(models.NewCourse("CS201", "Network and Communication", 4, 30)))
	require.NoError(t, reg.RegisterCourse(models.NewCourse("CS101", "Programming Paradigms", 4, 30)))
	for _, id := range ids {
		require.NoError(t, reg.RegisterStudent(newStudent(id)))
		for _, cid := range []string{"CS201", "CS101"} {
			ok, err := reg.Enroll(id, cid)
			require.NoError(t, err)
			require.True(t, ok)
		}
	}
	return reg
}

func TestRenderStudentReport(t *testing.T) {
	reg := seededRegistry(t, "S001")
	_, err := reg.UpdateScore("S001", "CS101", 80)
	require.NoError(t, err)
	student, err := reg.Student("S001")
	require.NoError(t, err)

	text, err := RenderStudentReport(student.Snapshot())
	require.NoError(t, err)
	want := "Student Report for Student S001 (S001)\n" +
		"Grade Level: JUNIOR\n" +
		"Overall WAM: 80.0\n" +
		"Courses:\n" +
		" - CS101: 80.0\n" +
		" - CS201: No grade yet\n"
	assert.Equal(t, want, text)
}

func TestGenerateKeepsRegistrationOrder(t *testing.T) {
	reg := seededRegistry(t, "C", "A", "B")
	delays := map[string]time.Duration{"C": 30 * time.Millisecond, "A": 10 * time.Millisecond, "B": 0}
	renderer := func(view models.StudentView) (string, error) {
		time.Sleep(delays[view.ID])
		return RenderStudentReport(view)
	}
	metrics := NewMetricsService()
	pool := jobs.NewPool("reports", jobs.PoolConfig{Workers: 3})
	svc := NewReportService(reg, pool, metrics, zap.NewNop(), ReportServiceConfig{Renderer: renderer})

	batch, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Reports, 3)
	assert.Equal(t, "C", batch.Reports[0].StudentID)
	assert.Equal(t, "A", batch.Reports[1].StudentID)
	assert.Equal(t, "B", batch.Reports[2].StudentID)
	assert.True(t, strings.HasPrefix(batch.Reports[1].Text, "Student Report for Student A (A)"))
	assert.NotEmpty(t, batch.RunID)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.reportsGenerated))
}

func TestGenerateEmptyRegistry(t *testing.T) {
	reg, _ := newTestRegistry(t)
	svc := NewReportService(reg, nil, nil, nil, ReportServiceConfig{})
	batch, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batch.Reports)
}

func TestGenerateFailsWholeRun(t *testing.T) {
	reg := seededRegistry(t, "A", "B", "C", "D")
	var rendered int32
	renderer := func(view models.StudentView) (string, error) {
		if view.ID == "B" {
			return "", errors.New("template broken")
		}
		atomic.AddInt32(&rendered, 1)
		return RenderStudentReport(view)
	}
	svc := NewReportService(reg, jobs.NewPool("reports", jobs.PoolConfig{Workers: 2}), nil, zap.NewNop(), ReportServiceConfig{Renderer: renderer})

	batch, err := svc.Generate(context.Background())
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.Contains(t, err.Error(), "render report for student B")
}

func TestGenerateHonoursCancellation(t *testing.T) {
	reg := seededRegistry(t, "A", "B")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewReportService(reg, nil, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.Generate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExportServiceWritesCSVAndPDF(t *testing.T) {
	reg := seededRegistry(t, "A", "B")
	_, err := reg.UpdateScore("A", "CS101", 91.5)
	require.NoError(t, err)
	require.NoError(t, reg.RegisterStudent(newStudent("LONER")))

	batch, err := NewReportService(reg, nil, nil, zap.NewNop(), ReportServiceConfig{}).Generate(context.Background())
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "exports"))
	require.NoError(t, err)
	svc := NewExportService(store, "Chitkara University", zap.NewNop())

	csvResult, err := svc.Export(batch, "csv")
	require.NoError(t, err)
	assert.Equal(t, 5, csvResult.Rows)
	data, err := os.ReadFile(csvResult.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Student ID,Name,Grade Level,Overall WAM,Course ID,Score", lines[0])
	assert.Equal(t, "A,Student A,JUNIOR,91.5,CS101,91.5", lines[1])
	assert.Equal(t, "LONER,Student LONER,JUNIOR,0.0,,", lines[5])

	pdfResult, err := svc.Export(batch, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "pdf", pdfResult.Format)
	info, err := os.Stat(pdfResult.Path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = svc.Export(batch, "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = svc.Export(nil, "csv")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
