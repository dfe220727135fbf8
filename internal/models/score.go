package models

import (
	"time"

	"github.com/google/uuid"
)

// Score bounds, inclusive.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// ScoreEvent describes a change to one enrollment slot. Old is nil when the
// slot had no grade; New is nil for the event emitted on enrollment.
type ScoreEvent struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	Old        *float64  `json:"old,omitempty"`
	New        *float64  `json:"new,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IsEnrollment reports whether the event announces a new enrollment.
func (e ScoreEvent) IsEnrollment() bool {
	return e.Old == nil && e.New == nil
}

func newScoreEvent(studentID, courseID string, prev, next *float64) ScoreEvent {
	return ScoreEvent{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseID:   courseID,
		Old:        prev,
		New:        next,
		OccurredAt: time.Now().UTC(),
	}
}

func scorePtr(v float64) *float64 {
	return &v
}

func copyScore(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return scorePtr(*p)
}
