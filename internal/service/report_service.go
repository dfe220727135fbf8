package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/models"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/jobs"
)

type studentLister interface {
	Students() []*models.Student
}

// ReportRenderer turns a student snapshot into report text.
type ReportRenderer func(view models.StudentView) (string, error)

// StudentReport is one rendered report.
type StudentReport struct {
	StudentID string             `json:"student_id"`
	View      models.StudentView `json:"view"`
	Text      string             `json:"text"`
}

// ReportBatch is the output of one report run, in registration order.
type ReportBatch struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Duration    time.Duration   `json:"duration"`
	Reports     []StudentReport `json:"reports"`
}

// ReportServiceConfig tunes report generation.
type ReportServiceConfig struct {
	Timeout  time.Duration
	Renderer ReportRenderer
}

// ReportService renders one report per registered student on a bounded
// worker pool.
type ReportService struct {
	students studentLister
	pool     *jobs.Pool
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      ReportServiceConfig
}

// NewReportService constructs the report service.
func NewReportService(students studentLister, pool *jobs.Pool, metrics *MetricsService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pool == nil {
		pool = jobs.NewPool("reports", jobs.PoolConfig{Logger: logger})
	}
	if cfg.Renderer == nil {
		cfg.Renderer = RenderStudentReport
	}
	return &ReportService{students: students, pool: pool, metrics: metrics, logger: logger, cfg: cfg}
}

// Generate renders a report for every student registered when the run
// starts. Any failing unit fails the whole run: the first error is
// returned after all started units have stopped and no partial batch is
// produced.
func (s *ReportService) Generate(ctx context.Context) (*ReportBatch, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	students := s.students.Students()
	reports := make([]StudentReport, len(students))

	err := s.pool.Run(ctx, len(students), func(ctx context.Context, i int) error {
		view := students[i].Snapshot()
		text, err := s.cfg.Renderer(view)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, fmt.Sprintf("render report for student %s", view.ID))
		}
		reports[i] = StudentReport{StudentID: view.ID, View: view, Text: text}
		return nil
	})
	if err != nil {
		s.logger.Error("report run failed", zap.Int("students", len(students)), zap.Error(err))
		return nil, err
	}

	batch := &ReportBatch{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Duration:    time.Since(start),
		Reports:     reports,
	}
	s.metrics.ObserveReportRun(len(reports), batch.Duration)
	s.logger.Info("reports generated",
		zap.String("run_id", batch.RunID),
		zap.Int("reports", len(reports)),
		zap.Duration("duration", batch.Duration),
	)
	return batch, nil
}

// RenderStudentReport is the default report layout.
func RenderStudentReport(view models.StudentView) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Student Report for %s (%s)\n", view.Name, view.ID)
	fmt.Fprintf(&b, "Grade Level: %s\n", view.GradeLevel)
	fmt.Fprintf(&b, "Overall WAM: %.1f\n", view.OverallWAM)
	b.WriteString("Courses:\n")
	for _, slot := range view.Enrollments {
		fmt.Fprintf(&b, " - %s: %s\n", slot.CourseID, FormatScore(slot.Score))
	}
	return b.String(), nil
}

// FormatScore renders an optional score with one decimal.
func FormatScore(score *float64) string {
	if score == nil {
		return "No grade yet"
	}
	return fmt.Sprintf("%.1f", *score)
}
