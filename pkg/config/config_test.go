package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "Chitkara University", cfg.Institution)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, "students.txt", cfg.Data.StudentsFile)
	assert.Equal(t, ExportNone, cfg.Reports.ExportFormat)
	assert.Equal(t, 30*time.Second, cfg.Reports.Timeout)
	assert.Equal(t, 30, cfg.Courses.DefaultCapacity)
	assert.Equal(t, 50.0, cfg.Simulation.MinScore)
	assert.Equal(t, 95.0, cfg.Simulation.MaxScore)
}

func TestOverridesAndFallbacks(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("EXPORT_FORMAT", " PDF ")
	v.Set("REPORT_TIMEOUT", "not-a-duration")
	v.Set("DEFAULT_COURSE_CAPACITY", -4)
	v.Set("SIMULATE_MIN", 90)
	v.Set("SIMULATE_MAX", 10)
	v.Set("REPORT_WORKERS", 8)

	cfg := fromViper(v)

	assert.Equal(t, ExportPDF, cfg.Reports.ExportFormat)
	assert.Equal(t, 30*time.Second, cfg.Reports.Timeout)
	assert.Equal(t, 30, cfg.Courses.DefaultCapacity)
	assert.Equal(t, 50.0, cfg.Simulation.MinScore)
	assert.Equal(t, 95.0, cfg.Simulation.MaxScore)
	assert.Equal(t, 8, cfg.Reports.Workers)
}

func TestUnknownExportFormatDisablesExport(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("EXPORT_FORMAT", "xlsx")

	assert.Equal(t, ExportNone, fromViper(v).Reports.ExportFormat)
}
