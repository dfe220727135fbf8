package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/models"
)

var (
	_ models.ScoreObserver = (*LoggingObserver)(nil)
	_ models.ScoreObserver = (*MetricsObserver)(nil)
)

// LoggingObserver writes every score event to the logger at debug level.
type LoggingObserver struct {
	logger *zap.Logger
}

// NewLoggingObserver constructs LoggingObserver.
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingObserver{logger: logger}
}

// Notify implements the score observer contract.
func (o *LoggingObserver) Notify(event models.ScoreEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("student_id", event.StudentID),
		zap.String("course_id", event.CourseID),
	}
	if event.IsEnrollment() {
		o.logger.Debug("enrollment recorded", fields...)
		return nil
	}
	if event.Old != nil {
		fields = append(fields, zap.Float64("old", *event.Old))
	}
	if event.New != nil {
		fields = append(fields, zap.Float64("new", *event.New))
	}
	o.logger.Debug("score changed", fields...)
	return nil
}

// MetricsObserver feeds score events into MetricsService.
type MetricsObserver struct {
	metrics *MetricsService
}

// NewMetricsObserver constructs MetricsObserver.
func NewMetricsObserver(metrics *MetricsService) *MetricsObserver {
	return &MetricsObserver{metrics: metrics}
}

// Notify implements the score observer contract.
func (o *MetricsObserver) Notify(event models.ScoreEvent) error {
	o.metrics.ObserveScoreEvent(event)
	return nil
}
