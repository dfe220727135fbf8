package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/dto"
	"github.com/noah-isme/college-registry/internal/inspect"
	"github.com/noah-isme/college-registry/internal/loader"
	"github.com/noah-isme/college-registry/internal/models"
	"github.com/noah-isme/college-registry/internal/presenter"
	"github.com/noah-isme/college-registry/internal/service"
	"github.com/noah-isme/college-registry/pkg/config"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/jobs"
	"github.com/noah-isme/college-registry/pkg/notify"
	"github.com/noah-isme/college-registry/pkg/storage"
)

// specializationAliases maps specializations that differ from the course
// name they teach.
var specializationAliases = map[string]string{
	"Career Skills": "PD101",
}

func defaultCatalog(capacity int) []*models.Course {
	return []*models.Course{
		models.NewCourse("CS101", "Programming Paradigms", 4, capacity),
		models.NewCourse("CS201", "Network and Communication", 4, capacity),
		models.NewCourse("CS301", "Backend Development", 4, capacity),
		models.NewCourse("PD101", "Professional Development", 3, capacity),
	}
}

func defaultEnrollments() []dto.EnrollmentRecord {
	pairs := [][2]string{
		{"S001", "CS101"}, {"S001", "CS201"}, {"S001", "PD101"},
		{"S002", "CS101"}, {"S002", "CS301"}, {"S002", "PD101"},
		{"S003", "CS201"}, {"S003", "CS301"}, {"S003", "PD101"},
		{"S004", "CS101"}, {"S004", "PD101"},
		{"S005", "CS101"}, {"S005", "CS201"},
		{"S006", "CS101"}, {"S006", "CS301"},
		{"S007", "CS101"},
		{"S008", "CS101"}, {"S008", "PD101"},
		{"S009", "CS201"}, {"S009", "PD101"},
		{"S010", "CS101"}, {"S010", "CS201"}, {"S010", "CS301"},
	}
	out := make([]dto.EnrollmentRecord, len(pairs))
	for i, p := range pairs {
		out[i] = dto.EnrollmentRecord{StudentID: p[0], CourseID: p[1]}
	}
	return out
}

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	display presenter.Display
	metrics *service.MetricsService
}

func newApp(cfg *config.Config, logger *zap.Logger, out io.Writer, color bool) *app {
	return &app{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		display: presenter.NewDisplay(color),
		metrics: service.NewMetricsService(),
	}
}

func (a *app) run(ctx context.Context) error {
	ld := loader.New(nil, a.logger, a.cfg.Courses.DefaultCapacity)

	students, err := loader.File(a.cfg.Data.StudentsFile, ld.Students)
	if err != nil {
		return err
	}
	teachers, err := loader.File(a.cfg.Data.TeachersFile, ld.Teachers)
	if err != nil {
		return err
	}
	courses := defaultCatalog(a.cfg.Courses.DefaultCapacity)
	if a.cfg.Data.CoursesFile != "" {
		if courses, err = loader.File(a.cfg.Data.CoursesFile, ld.Courses); err != nil {
			return err
		}
	}
	enrollments := defaultEnrollments()
	if a.cfg.Data.EnrollmentsFile != "" {
		if enrollments, err = loader.File(a.cfg.Data.EnrollmentsFile, ld.Enrollments); err != nil {
			return err
		}
	}

	registry := service.NewRegistry(a.cfg.Institution, a.metrics, a.logger)
	logging := service.NewLoggingObserver(a.logger)
	counting := service.NewMetricsObserver(a.metrics)
	registry.SubscribeAll(notify.Weak[models.ScoreEvent](logging))
	registry.SubscribeAll(notify.Weak[models.ScoreEvent](counting))
	defer runtime.KeepAlive(logging)
	defer runtime.KeepAlive(counting)

	if err := a.register(registry, students, teachers, courses); err != nil {
		return err
	}
	a.assign(registry, teachers, courses)
	if err := a.enroll(registry, enrollments); err != nil {
		return err
	}

	a.println(a.display.Heading("\nDepartment Statistics:"))
	a.print(a.display.FormatDepartments(registry.DepartmentCounts()))

	a.println(a.display.Heading("\nGenerating reports concurrently..."))
	pool := jobs.NewPool("reports", jobs.PoolConfig{Workers: a.cfg.Reports.Workers, Logger: a.logger})
	reports := service.NewReportService(registry, pool, a.metrics, a.logger, service.ReportServiceConfig{Timeout: a.cfg.Reports.Timeout})
	batch, err := reports.Generate(ctx)
	if err != nil {
		return err
	}
	a.println(a.display.Paint(fmt.Sprintf("Generated %d student reports", len(batch.Reports)), presenter.Green))

	if a.cfg.Simulation.Enabled {
		if err := a.simulate(ctx, registry); err != nil {
			return err
		}
	}

	a.println(a.display.Heading(fmt.Sprintf("\nTop %d Performers:", a.cfg.TopN)))
	a.print(a.display.FormatPerformers(registry.TopPerformers(a.cfg.TopN)))

	a.println(a.display.Heading("\nDisplaying ALL information with visitor pattern:"))
	a.section("=== ALL STUDENTS ===", inspect.VisitAll[string](registry.Students(), a.display))
	a.section("=== ALL TEACHERS ===", inspect.VisitAll[string](registry.Teachers(), a.display))
	a.section("=== ALL COURSES ===", inspect.VisitAll[string](registry.Courses(), a.display))

	if a.cfg.Reports.ExportFormat != config.ExportNone && a.cfg.Reports.ExportFormat != "" {
		if err := a.export(ctx, reports); err != nil {
			return err
		}
	}

	snap := a.metrics.Snapshot()
	a.logger.Info("run complete",
		zap.Any("stats", registry.Stats()),
		zap.Uint64("enrollments_rejected", snap.EnrollmentsRejected),
		zap.Uint64("score_events", snap.ScoreEvents),
		zap.Uint64("notify_failures", snap.NotifyFailures),
		zap.Int("report_workers", pool.Workers()),
	)
	return nil
}

func (a *app) register(registry *service.Registry, students []*models.Student, teachers []*models.Teacher, courses []*models.Course) error {
	var errs []error
	for _, s := range students {
		errs = append(errs, registry.RegisterStudent(s))
	}
	for _, t := range teachers {
		errs = append(errs, registry.RegisterTeacher(t))
	}
	for _, c := range courses {
		errs = append(errs, registry.RegisterCourse(c))
	}
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, appErrors.ErrDuplicateID) {
			return err
		}
		a.logger.Warn("skipping duplicate record", zap.Error(err))
	}
	return nil
}

func (a *app) assign(registry *service.Registry, teachers []*models.Teacher, courses []*models.Course) {
	byName := make(map[string]string, len(courses))
	for _, c := range courses {
		byName[c.Name] = c.ID
	}
	for _, t := range teachers {
		courseID, ok := byName[t.Specialization]
		if !ok {
			courseID, ok = specializationAliases[t.Specialization]
		}
		if !ok {
			continue
		}
		if err := registry.Assign(t.ID, courseID); err != nil {
			a.logger.Warn("assignment failed", zap.String("teacher_id", t.ID), zap.Error(err))
		}
	}
}

func (a *app) enroll(registry *service.Registry, records []dto.EnrollmentRecord) error {
	for _, rec := range records {
		ok, err := registry.Enroll(rec.StudentID, rec.CourseID)
		switch {
		case errors.Is(err, appErrors.ErrNotFound), errors.Is(err, appErrors.ErrNotify):
			a.logger.Warn("enrollment issue", zap.String("student_id", rec.StudentID), zap.String("course_id", rec.CourseID), zap.Error(err))
		case err != nil:
			return err
		case !ok:
			a.logger.Warn("enrollment rejected", zap.String("student_id", rec.StudentID), zap.String("course_id", rec.CourseID))
		}
	}
	return nil
}

func (a *app) simulate(ctx context.Context, registry *service.Registry) error {
	a.println(a.display.Paint("\nSimulating WAM updates...", presenter.Bold, presenter.Magenta))
	sim := service.NewSimulator(registry, service.SimulatorConfig{
		Seed:     a.cfg.Simulation.Seed,
		MinScore: a.cfg.Simulation.MinScore,
		MaxScore: a.cfg.Simulation.MaxScore,
		Delay:    a.cfg.Simulation.Delay,
	}, a.logger)
	a.logger.Debug("simulation seed", zap.Uint64("seed", sim.Seed()))

	updates, err := sim.Run(ctx)
	for _, u := range updates {
		a.println(a.display.Paint(fmt.Sprintf("Updated %s's %s to %.1f", u.Name, u.CourseID, u.Score), presenter.Cyan))
	}
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		a.logger.Warn("simulation observers failed", zap.Int("failures", len(notify.Errors(err))), zap.Error(err))
	}
	return nil
}

func (a *app) export(ctx context.Context, reports *service.ReportService) error {
	batch, err := reports.Generate(ctx)
	if err != nil {
		return err
	}
	store, err := storage.NewLocalStorage(a.cfg.Reports.ExportDir)
	if err != nil {
		return err
	}
	a.logger.Debug("exporting reports", zap.String("dir", store.Dir()), zap.String("format", a.cfg.Reports.ExportFormat))
	result, err := service.NewExportService(store, a.cfg.Institution, a.logger).Export(batch, a.cfg.Reports.ExportFormat)
	if err != nil {
		return err
	}
	a.println(a.display.Paint(fmt.Sprintf("\nExported %d rows to %s", result.Rows, result.Path), presenter.Green))
	return nil
}

func (a *app) section(title string, items []string) {
	a.println(a.display.Paint("\n"+title, presenter.Bold, presenter.Magenta))
	for _, item := range items {
		a.println(item)
	}
}

func (a *app) print(s string) {
	fmt.Fprint(a.out, s)
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, strings.TrimSuffix(s, "\n"))
}
