package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/college-registry/internal/presenter"
	"github.com/noah-isme/college-registry/pkg/config"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/logger"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	noColor, err := applyFlags(cfg, args)
	if err != nil {
		return 1
	}

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	color := !noColor && os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, logr, os.Stdout, color)
	if err := a.run(ctx); err != nil {
		logr.Error("registry run failed", zap.String("code", appErrors.FromError(err).Code), zap.Error(err))
		fmt.Fprintln(os.Stderr, a.display.Paint("Error: "+err.Error(), presenter.Red))
		return 1
	}
	return 0
}

// applyFlags overrides config keys for flags set on the command line.
func applyFlags(cfg *config.Config, args []string) (noColor bool, err error) {
	fs := flag.NewFlagSet("registry", flag.ContinueOnError)
	students := fs.String("students", cfg.Data.StudentsFile, "students file")
	teachers := fs.String("teachers", cfg.Data.TeachersFile, "teachers file")
	courses := fs.String("courses", cfg.Data.CoursesFile, "courses file (default catalog when empty)")
	enrollments := fs.String("enrollments", cfg.Data.EnrollmentsFile, "enrollments file (built-in pairs when empty)")
	topN := fs.Int("top", cfg.TopN, "number of top performers to show")
	workers := fs.Int("workers", cfg.Reports.Workers, "report workers (0 = number of CPUs)")
	simulate := fs.Bool("simulate", cfg.Simulation.Enabled, "simulate score updates")
	seed := fs.Uint64("seed", cfg.Simulation.Seed, "simulation seed (0 = random)")
	exportFormat := fs.String("export", cfg.Reports.ExportFormat, "export reports as csv, pdf or none")
	exportDir := fs.String("export-dir", cfg.Reports.ExportDir, "directory for exported reports")
	fs.BoolVar(&noColor, "no-color", false, "disable coloured output")

	if err := fs.Parse(args); err != nil {
		return false, err
	}

	cfg.Data.StudentsFile = *students
	cfg.Data.TeachersFile = *teachers
	cfg.Data.CoursesFile = *courses
	cfg.Data.EnrollmentsFile = *enrollments
	cfg.TopN = *topN
	cfg.Reports.Workers = *workers
	cfg.Simulation.Enabled = *simulate
	cfg.Simulation.Seed = *seed
	cfg.Reports.ExportFormat = *exportFormat
	cfg.Reports.ExportDir = *exportDir
	return noColor, nil
}
