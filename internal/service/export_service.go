package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/pkg/config"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/export"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
	Extension() string
}

// ExportResult captures a written export.
type ExportResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
}

// ExportService flattens report batches into tables and persists the
// rendered file.
type ExportService struct {
	storage   fileStorage
	renderers map[string]tableRenderer
	title     string
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(storage fileStorage, institution string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		storage: storage,
		renderers: map[string]tableRenderer{
			config.ExportCSV: export.NewCSVExporter(),
			config.ExportPDF: export.NewPDFExporter(institution),
		},
		title:  strings.TrimSpace(institution + " Student Reports"),
		logger: logger,
	}
}

// Export renders batch in format ("csv" or "pdf") and stores it under a
// name derived from the run id.
func (s *ExportService) Export(batch *ReportBatch, format string) (*ExportResult, error) {
	if batch == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report batch is required")
	}
	renderer, ok := s.renderers[strings.ToLower(format)]
	if !ok {
		return nil, appErrors.Clonef(appErrors.ErrValidation, "unsupported export format %q", format)
	}

	table := BuildReportTable(batch)
	table.Title = s.title
	payload, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "render export")
	}

	filename := fmt.Sprintf("reports_%s_%s.%s", batch.GeneratedAt.Format("20060102_150405"), shortRunID(batch.RunID), renderer.Extension())
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "store export")
	}
	s.logger.Info("reports exported", zap.String("path", path), zap.String("format", renderer.Extension()), zap.Int("rows", len(table.Rows)))
	return &ExportResult{Path: path, Format: renderer.Extension(), Rows: len(table.Rows)}, nil
}

// BuildReportTable flattens a batch into one row per enrollment. Students
// without enrollments get a single row with empty course cells.
func BuildReportTable(batch *ReportBatch) export.Table {
	table := export.Table{
		Columns: []string{"Student ID", "Name", "Grade Level", "Overall WAM", "Course ID", "Score"},
	}
	for _, report := range batch.Reports {
		view := report.View
		base := []string{view.ID, view.Name, view.GradeLevel.String(), strconv.FormatFloat(view.OverallWAM, 'f', 1, 64)}
		if len(view.Enrollments) == 0 {
			table.Rows = append(table.Rows, append(base, "", ""))
			continue
		}
		for _, slot := range view.Enrollments {
			row := make([]string, 0, len(table.Columns))
			row = append(row, base...)
			table.Rows = append(table.Rows, append(row, slot.CourseID, FormatScore(slot.Score)))
		}
	}
	return table
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "run"
	}
	return id
}
