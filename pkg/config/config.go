package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Export formats understood by the report exporter.
const (
	ExportNone = "none"
	ExportCSV  = "csv"
	ExportPDF  = "pdf"
)

type Config struct {
	Env         string
	Institution string
	TopN        int

	Data       DataConfig
	Log        LogConfig
	Reports    ReportsConfig
	Courses    CoursesConfig
	Simulation SimulationConfig
}

// DataConfig points at the roster files consumed by the loader.
type DataConfig struct {
	StudentsFile    string
	TeachersFile    string
	CoursesFile     string
	EnrollmentsFile string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportsConfig configures concurrent report generation and export.
type ReportsConfig struct {
	Workers      int
	Timeout      time.Duration
	ExportDir    string
	ExportFormat string
}

// CoursesConfig holds catalog defaults.
type CoursesConfig struct {
	DefaultCapacity int
}

// SimulationConfig drives the random score demonstration.
type SimulationConfig struct {
	Enabled  bool
	Seed     uint64
	MinScore float64
	MaxScore float64
	Delay    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Institution = v.GetString("INSTITUTION_NAME")
	cfg.TopN = v.GetInt("TOP_N")

	cfg.Data = DataConfig{
		StudentsFile:    v.GetString("STUDENTS_FILE"),
		TeachersFile:    v.GetString("TEACHERS_FILE"),
		CoursesFile:     v.GetString("COURSES_FILE"),
		EnrollmentsFile: v.GetString("ENROLLMENTS_FILE"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	format := strings.ToLower(strings.TrimSpace(v.GetString("EXPORT_FORMAT")))
	switch format {
	case ExportCSV, ExportPDF:
	default:
		format = ExportNone
	}
	cfg.Reports = ReportsConfig{
		Workers:      v.GetInt("REPORT_WORKERS"),
		Timeout:      parseDuration(v.GetString("REPORT_TIMEOUT"), 30*time.Second),
		ExportDir:    v.GetString("EXPORT_DIR"),
		ExportFormat: format,
	}

	capacity := v.GetInt("DEFAULT_COURSE_CAPACITY")
	if capacity <= 0 {
		capacity = 30
	}
	cfg.Courses = CoursesConfig{DefaultCapacity: capacity}

	minScore := v.GetFloat64("SIMULATE_MIN")
	maxScore := v.GetFloat64("SIMULATE_MAX")
	if minScore < 0 || maxScore > 100 || minScore > maxScore {
		minScore, maxScore = 50, 95
	}
	cfg.Simulation = SimulationConfig{
		Enabled:  v.GetBool("SIMULATE"),
		Seed:     v.GetUint64("SIMULATE_SEED"),
		MinScore: minScore,
		MaxScore: maxScore,
		Delay:    parseDuration(v.GetString("SIMULATE_DELAY"), 0),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("INSTITUTION_NAME", "Chitkara University")
	v.SetDefault("TOP_N", 3)

	v.SetDefault("STUDENTS_FILE", "students.txt")
	v.SetDefault("TEACHERS_FILE", "teachers.txt")
	v.SetDefault("COURSES_FILE", "")
	v.SetDefault("ENROLLMENTS_FILE", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("REPORT_WORKERS", 0)
	v.SetDefault("REPORT_TIMEOUT", "30s")
	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_FORMAT", ExportNone)

	v.SetDefault("DEFAULT_COURSE_CAPACITY", 30)

	v.SetDefault("SIMULATE", true)
	v.SetDefault("SIMULATE_SEED", 0)
	v.SetDefault("SIMULATE_MIN", 50.0)
	v.SetDefault("SIMULATE_MAX", 95.0)
	v.SetDefault("SIMULATE_DELAY", "0s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
