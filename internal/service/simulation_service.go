package service

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/models"
)

type scoreRegistry interface {
	Students() []*models.Student
	UpdateScore(studentID, courseID string, score float64) (bool, error)
}

// ScoreUpdate is one simulated grade.
type ScoreUpdate struct {
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	CourseID  string  `json:"course_id"`
	Score     float64 `json:"score"`
}

// SimulatorConfig bounds generated scores.
type SimulatorConfig struct {
	Seed     uint64
	MinScore float64
	MaxScore float64
	Delay    time.Duration
}

// Simulator assigns pseudo-random scores to every enrollment.
type Simulator struct {
	registry scoreRegistry
	rng      *rand.Rand
	cfg      SimulatorConfig
	logger   *zap.Logger
}

// NewSimulator constructs a simulator. A zero seed picks a random one;
// an empty or inverted range falls back to [50, 95].
func NewSimulator(registry scoreRegistry, cfg SimulatorConfig, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	if cfg.MinScore < models.MinScore || cfg.MaxScore > models.MaxScore || cfg.MinScore >= cfg.MaxScore {
		cfg.MinScore, cfg.MaxScore = 50, 95
	}
	return &Simulator{
		registry: registry,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		cfg:      cfg,
		logger:   logger,
	}
}

// Seed returns the seed in use.
func (s *Simulator) Seed() uint64 {
	return s.cfg.Seed
}

// Run scores every enrollment of every student, students in registration
// order and courses ascending. Observer failures are collected and
// returned after the pass; a cancelled context stops the pass early.
func (s *Simulator) Run(ctx context.Context) ([]ScoreUpdate, error) {
	var (
		updates []ScoreUpdate
		errs    error
	)
	for _, student := range s.registry.Students() {
		for _, courseID := range student.CourseIDs() {
			if err := s.wait(ctx); err != nil {
				return updates, multierr.Append(errs, err)
			}
			score := s.next()
			ok, err := s.registry.UpdateScore(student.ID, courseID, score)
			if err != nil {
				errs = multierr.Append(errs, err)
			}
			if !ok {
				continue
			}
			updates = append(updates, ScoreUpdate{StudentID: student.ID, Name: student.Name, CourseID: courseID, Score: score})
			s.logger.Debug("simulated score", zap.String("student_id", student.ID), zap.String("course_id", courseID), zap.Float64("score", score))
		}
	}
	return updates, errs
}

func (s *Simulator) next() float64 {
	v := s.cfg.MinScore + s.rng.Float64()*(s.cfg.MaxScore-s.cfg.MinScore)
	return math.Round(v*10) / 10
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.cfg.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
