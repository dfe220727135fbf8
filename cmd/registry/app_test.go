package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/pkg/config"
)

const studentsFixture = `S001,Aarav Sharma,aarav@college.edu,12 Mall Road,Rajpura,Punjab,140401,FRESHMAN
S002,Diya Patel,diya@college.edu,4 Lake View,Patiala,Punjab,147001,SOPHOMORE
S003,Kabir Singh,kabir@college.edu,9 Civil Lines,Ludhiana,Punjab,141001,JUNIOR
broken,record
`

const teachersFixture = `T001,Meera Iyer,meera@college.edu,7 Sector 17,Chandigarh,Chandigarh,160017,Computer Science,Programming Paradigms
T002,Rohan Das,rohan@college.edu,3 Park Street,Kolkata,West Bengal,700016,Computer Science,Backend Development
T003,Anita Rao,anita@college.edu,5 MG Road,Bengaluru,Karnataka,560001,Humanities,Career Skills
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:         config.EnvDevelopment,
		Institution: "Chitkara University",
		TopN:        2,
		Data: config.DataConfig{
			StudentsFile:    writeFixture(t, dir, "students.txt", studentsFixture),
			TeachersFile:    writeFixture(t, dir, "teachers.txt", teachersFixture),
			EnrollmentsFile: writeFixture(t, dir, "enrollments.txt", "S001,CS101\nS002,CS101\nS003,CS301\nS404,CS101\n"),
		},
		Reports: config.ReportsConfig{
			Workers:      2,
			Timeout:      5 * time.Second,
			ExportDir:    filepath.Join(dir, "exports"),
			ExportFormat: config.ExportCSV,
		},
		Courses:    config.CoursesConfig{DefaultCapacity: 30},
		Simulation: config.SimulationConfig{Enabled: true, Seed: 11, MinScore: 50, MaxScore: 95},
	}
}

func TestAppRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	out := &bytes.Buffer{}
	a := newApp(cfg, zap.NewNop(), out, false)

	require.NoError(t, a.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Department Statistics:")
	assert.Contains(t, text, "Computer Science: 2 teachers")
	assert.Contains(t, text, "Humanities: 1 teacher\n")
	assert.Contains(t, text, "Generated 3 student reports")
	assert.Contains(t, text, "Updated Aarav Sharma's CS101 to ")
	assert.Contains(t, text, "Top 2 Performers:")
	assert.Contains(t, text, "=== ALL COURSES ===")
	assert.Contains(t, text, "Enrolled: 2/30")
	assert.NotContains(t, text, "\033[")

	entries, err := os.ReadDir(cfg.Reports.ExportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))

	snap := a.metrics.Snapshot()
	assert.Equal(t, uint64(3), snap.EnrollmentsCreated)
	assert.Equal(t, uint64(6), snap.ScoreEvents)
}

func TestAppRunMissingStudentsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.StudentsFile = filepath.Join(t.TempDir(), "nope.txt")
	err := newApp(cfg, zap.NewNop(), &bytes.Buffer{}, false).run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not open file")
}

func TestAppRunBadGradeLevelFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.StudentsFile = writeFixture(t, t.TempDir(), "students.txt",
		"S009,Ishaan,ishaan@college.edu,1 Road,City,State,000,POSTDOC\n")
	err := newApp(cfg, zap.NewNop(), &bytes.Buffer{}, false).run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid grade level")
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cfg := testConfig(t)
	noColor, err := applyFlags(cfg, []string{"-top", "5", "-export", "pdf", "-simulate=false", "-no-color"})
	require.NoError(t, err)
	assert.True(t, noColor)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "pdf", cfg.Reports.ExportFormat)
	assert.False(t, cfg.Simulation.Enabled)
	assert.Equal(t, 2, cfg.Reports.Workers)
}

func TestRealMainBadFlagExitsOne(t *testing.T) {
	assert.Equal(t, 1, realMain([]string{"-bogus"}))
	assert.Equal(t, 1, realMain([]string{"-top", "many"}))
}
