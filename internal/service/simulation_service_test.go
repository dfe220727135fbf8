package service

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/models"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/notify"
)

func TestSimulatorScoresEveryEnrollment(t *testing.T) {
	reg := seededRegistry(t, "A", "B")
	sim := NewSimulator(reg, SimulatorConfig{Seed: 42, MinScore: 60, MaxScore: 70}, zap.NewNop())

	updates, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 4)
	assert.Equal(t, "A", updates[0].StudentID)
	assert.Equal(t, "CS101", updates[0].CourseID)
	assert.Equal(t, "CS201", updates[1].CourseID)
	assert.Equal(t, "B", updates[2].StudentID)

	for _, u := range updates {
		assert.GreaterOrEqual(t, u.Score, 60.0)
		assert.LessOrEqual(t, u.Score, 70.0)
		student, err := reg.Student(u.StudentID)
		require.NoError(t, err)
		score, ok := student.Score(u.CourseID)
		require.True(t, ok)
		assert.Equal(t, u.Score, score)
	}
}

func TestSimulatorIsDeterministicForSeed(t *testing.T) {
	first, err := NewSimulator(seededRegistry(t, "A", "B"), SimulatorConfig{Seed: 7, MinScore: 50, MaxScore: 95}, nil).Run(context.Background())
	require.NoError(t, err)
	second, err := NewSimulator(seededRegistry(t, "A", "B"), SimulatorConfig{Seed: 7, MinScore: 50, MaxScore: 95}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimulatorFallsBackToDefaultRange(t *testing.T) {
	sim := NewSimulator(seededRegistry(t), SimulatorConfig{Seed: 1, MinScore: 90, MaxScore: 10}, nil)
	assert.Equal(t, 50.0, sim.cfg.MinScore)
	assert.Equal(t, 95.0, sim.cfg.MaxScore)
	assert.Equal(t, uint64(1), sim.Seed())

	assert.NotZero(t, NewSimulator(seededRegistry(t), SimulatorConfig{}, nil).Seed())
}

func TestSimulatorCollectsObserverFailures(t *testing.T) {
	reg := seededRegistry(t, "A")
	obs := &recordingObserver{err: errors.New("dashboard offline")}
	reg.SubscribeAll(notify.Weak[models.ScoreEvent](obs))

	updates, err := NewSimulator(reg, SimulatorConfig{Seed: 3}, nil).Run(context.Background())
	require.Error(t, err)
	assert.Len(t, updates, 2)
	assert.True(t, errors.Is(err, appErrors.ErrNotify))
	assert.Len(t, obs.Events(), 2)
	runtime.KeepAlive(obs)
}

func TestSimulatorStopsOnCancel(t *testing.T) {
	reg := seededRegistry(t, "A", "B")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()

	updates, err := NewSimulator(reg, SimulatorConfig{Seed: 3, Delay: 10 * time.Millisecond}, nil).Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, len(updates), 4)
}

func TestScoreObservers(t *testing.T) {
	reg := seededRegistry(t)
	metrics := NewMetricsService()
	logging := NewLoggingObserver(zap.NewNop())
	counting := NewMetricsObserver(metrics)
	reg.SubscribeAll(notify.Weak[models.ScoreEvent](logging))
	reg.SubscribeAll(notify.Weak[models.ScoreEvent](counting))

	require.NoError(t, reg.RegisterStudent(newStudent("S001")))
	_, err := reg.Enroll("S001", "CS101")
	require.NoError(t, err)
	_, err = reg.UpdateScore("S001", "CS101", 72)
	require.NoError(t, err)
	_, err = reg.UpdateScore("S001", "CS101", 88)
	require.NoError(t, err)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(3), snap.ScoreEvents)
	runtime.KeepAlive(logging)
	runtime.KeepAlive(counting)
}
