// Package loader reads roster files into registry entities.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/dto"
	"github.com/noah-isme/college-registry/internal/models"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
)

const (
	asciiSpace   = " \t\n\r\f\v"
	maxLineBytes = 1 << 20
)

// Field counts per record kind.
const (
	studentFields    = 8
	teacherFields    = 9
	courseMinFields  = 3
	courseMaxFields  = 5
	enrollmentFields = 2
)

// Loader parses comma-separated roster files. Lines are split on every
// comma with no quoting. Records with the wrong number of fields or a
// missing id are logged and skipped; an unknown grade level fails the
// whole load.
type Loader struct {
	validator       *validator.Validate
	logger          *zap.Logger
	defaultCapacity int
}

// New constructs a Loader. defaultCapacity applies to course records
// without an explicit capacity.
func New(validate *validator.Validate, logger *zap.Logger, defaultCapacity int) *Loader {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCapacity <= 0 {
		defaultCapacity = models.DefaultCapacity
	}
	return &Loader{validator: validate, logger: logger, defaultCapacity: defaultCapacity}
}

// Students parses student records.
func (l *Loader) Students(r io.Reader) ([]*models.Student, error) {
	var students []*models.Student
	err := l.scan(r, "student", studentFields, studentFields, func(line int, fields []string) error {
		rec := dto.StudentRecord{
			ID: fields[0], Name: fields[1], Email: fields[2],
			Street: fields[3], City: fields[4], State: fields[5], Zip: fields[6],
			GradeLevel: fields[7],
		}
		if err := l.validate(rec); err != nil {
			return err
		}
		l.checkEmail("student", line, rec.ID, rec.Email)
		level, err := models.ParseGradeLevel(rec.GradeLevel)
		if err != nil {
			return fmt.Errorf("student %s: %w", rec.ID, err)
		}
		address := models.Address{Street: rec.Street, City: rec.City, State: rec.State, Zip: rec.Zip}
		students = append(students, models.NewStudent(models.NewProfile(rec.ID, rec.Name, rec.Email, address), level))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return students, nil
}

// Teachers parses teacher records.
func (l *Loader) Teachers(r io.Reader) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	err := l.scan(r, "teacher", teacherFields, teacherFields, func(line int, fields []string) error {
		rec := dto.TeacherRecord{
			ID: fields[0], Name: fields[1], Email: fields[2],
			Street: fields[3], City: fields[4], State: fields[5], Zip: fields[6],
			Department: fields[7], Specialization: fields[8],
		}
		if err := l.validate(rec); err != nil {
			return err
		}
		l.checkEmail("teacher", line, rec.ID, rec.Email)
		address := models.Address{Street: rec.Street, City: rec.City, State: rec.State, Zip: rec.Zip}
		teachers = append(teachers, models.NewTeacher(models.NewProfile(rec.ID, rec.Name, rec.Email, address), rec.Department, rec.Specialization))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

// Courses parses course records.
func (l *Loader) Courses(r io.Reader) ([]*models.Course, error) {
	var courses []*models.Course
	err := l.scan(r, "course", courseMinFields, courseMaxFields, func(line int, fields []string) error {
		rec := dto.CourseRecord{ID: fields[0], Name: fields[1]}
		credits, err := strconv.Atoi(fields[2])
		if err != nil {
			return malformed("credits %q is not a number", fields[2])
		}
		rec.Credits = credits
		if len(fields) > 3 && fields[3] != "" {
			capacity, err := strconv.Atoi(fields[3])
			if err != nil {
				return malformed("capacity %q is not a number", fields[3])
			}
			rec.Capacity = capacity
		}
		if len(fields) > 4 {
			for _, p := range strings.Split(fields[4], ";") {
				if p = strings.Trim(p, asciiSpace); p != "" {
					rec.Prerequisites = append(rec.Prerequisites, p)
				}
			}
		}
		if err := l.validate(rec); err != nil {
			return err
		}
		capacity := rec.Capacity
		if capacity == 0 {
			capacity = l.defaultCapacity
		}
		courses = append(courses, models.NewCourse(rec.ID, rec.Name, rec.Credits, capacity, rec.Prerequisites...))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// Enrollments parses student-course pairs.
func (l *Loader) Enrollments(r io.Reader) ([]dto.EnrollmentRecord, error) {
	var records []dto.EnrollmentRecord
	err := l.scan(r, "enrollment", enrollmentFields, enrollmentFields, func(line int, fields []string) error {
		rec := dto.EnrollmentRecord{StudentID: fields[0], CourseID: fields[1]}
		if err := l.validate(rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// File opens path and hands it to parse.
func File[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck
	items, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

func (l *Loader) scan(r io.Reader, kind string, minFields, maxFields int, build func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.Trim(raw, asciiSpace) == "" {
			continue
		}

		fields := strings.Split(raw, ",")
		for i, f := range fields {
			fields[i] = strings.Trim(f, asciiSpace)
		}

		if len(fields) < minFields || len(fields) > maxFields {
			l.skip(kind, line, raw, malformed("expected %s fields, got %d", fieldRange(minFields, maxFields), len(fields)))
			continue
		}
		if err := build(line, fields); err != nil {
			if errors.Is(err, appErrors.ErrMalformedRecord) {
				l.skip(kind, line, raw, err)
				continue
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMalformedRecord.Code, fmt.Sprintf("read %s records at line %d", kind, line+1))
	}
	return nil
}

func (l *Loader) validate(rec any) error {
	if err := l.validator.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return malformed("field %s failed %s", verrs[0].Field(), verrs[0].Tag())
		}
		return malformed("%v", err)
	}
	return nil
}

func (l *Loader) skip(kind string, line int, raw string, err error) {
	l.logger.Warn("invalid "+kind+" record",
		zap.Int("line", line),
		zap.String("record", raw),
		zap.Error(err),
	)
}

// checkEmail warns about an address that does not look like one. The
// record is still loaded.
func (l *Loader) checkEmail(kind string, line int, id, email string) {
	if email == "" {
		return
	}
	if err := l.validator.Var(email, "email"); err != nil {
		l.logger.Warn("suspicious "+kind+" email",
			zap.Int("line", line),
			zap.String("id", id),
			zap.String("email", email),
		)
	}
}

func malformed(format string, args ...any) error {
	return appErrors.Clonef(appErrors.ErrMalformedRecord, format, args...)
}

func fieldRange(minFields, maxFields int) string {
	if minFields == maxFields {
		return strconv.Itoa(minFields)
	}
	return fmt.Sprintf("%d-%d", minFields, maxFields)
}
