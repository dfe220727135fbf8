package service

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/college-registry/internal/models"
	"github.com/noah-isme/college-registry/internal/repository"
	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/notify"
)

// Registry is the institution-level owner of students, teachers and
// courses. Collections keep registration order. The write lock serialises
// registration, assignment and the two-sided enrollment update.
type Registry struct {
	name string

	mu       sync.RWMutex
	students *repository.OrderedStore[*models.Student]
	teachers *repository.OrderedStore[*models.Teacher]
	courses  *repository.OrderedStore[*models.Course]
	global   []notify.Ref[models.ScoreEvent]

	metrics *MetricsService
	logger  *zap.Logger
}

// NewRegistry constructs an empty registry for the named institution.
func NewRegistry(name string, metrics *MetricsService, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		name:     name,
		students: repository.NewOrderedStore("student", func(s *models.Student) string { return s.ID }),
		teachers: repository.NewOrderedStore("teacher", func(t *models.Teacher) string { return t.ID }),
		courses:  repository.NewOrderedStore("course", func(c *models.Course) string { return c.ID }),
		metrics:  metrics,
		logger:   logger,
	}
}

// Name returns the institution name.
func (r *Registry) Name() string {
	return r.name
}

// RegisterStudent adds a student. Observers registered through
// SubscribeAll are attached before the student becomes visible.
func (r *Registry) RegisterStudent(student *models.Student) error {
	if student == nil || student.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.students.Contains(student.ID) {
		return appErrors.Clonef(appErrors.ErrDuplicateID, "student %s already registered", student.ID)
	}
	for _, ref := range r.global {
		student.Subscribe(ref)
	}
	if err := r.students.Add(student); err != nil {
		return err
	}
	r.metrics.SetEntityCount("student", r.students.Len())
	return nil
}

// RegisterTeacher adds a teacher.
func (r *Registry) RegisterTeacher(teacher *models.Teacher) error {
	if teacher == nil || teacher.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.teachers.Add(teacher); err != nil {
		return err
	}
	r.metrics.SetEntityCount("teacher", r.teachers.Len())
	return nil
}

// RegisterCourse adds a course.
func (r *Registry) RegisterCourse(course *models.Course) error {
	if course == nil || course.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.courses.Add(course); err != nil {
		return err
	}
	r.metrics.SetEntityCount("course", r.courses.Len())
	return nil
}

// Enroll links a student to a course. It returns false without error when
// the course is full, and true when the pair is (or already was) linked.
// Observer failures during the enrollment notification are returned
// together with true: the link itself is committed.
func (r *Registry) Enroll(studentID, courseID string) (bool, error) {
	r.mu.RLock()
	student, err := r.students.Get(studentID)
	if err != nil {
		r.mu.RUnlock()
		return false, err
	}
	course, err := r.courses.Get(courseID)
	r.mu.RUnlock()
	if err != nil {
		return false, err
	}

	result, err := student.Enroll(course, &r.mu)
	r.metrics.ObserveEnrollment(result)
	switch result {
	case models.EnrollCourseFull:
		r.logger.Warn("course is full",
			zap.String("course_id", course.ID),
			zap.String("student_id", student.ID),
			zap.Int("capacity", course.Capacity),
		)
		return false, nil
	case models.EnrollExisting:
		return true, nil
	}

	if err != nil {
		r.metrics.ObserveNotifyFailure()
		r.logger.Warn("enrollment observers failed",
			zap.String("student_id", student.ID),
			zap.String("course_id", course.ID),
			zap.Int("failures", len(notify.Errors(err))),
			zap.Error(err),
		)
		return true, err
	}
	r.logger.Debug("student enrolled", zap.String("student_id", student.ID), zap.String("course_id", course.ID))
	return true, nil
}

// Assign records courseID in the teacher's assignment set. The course id
// is not checked against the catalog.
func (r *Registry) Assign(teacherID, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	teacher, err := r.teachers.Get(teacherID)
	if err != nil {
		return err
	}
	if teacher.Assign(courseID) {
		r.logger.Debug("course assigned", zap.String("teacher_id", teacherID), zap.String("course_id", courseID))
	}
	return nil
}

// UpdateScore resolves the student and records a score for courseID.
func (r *Registry) UpdateScore(studentID, courseID string, score float64) (bool, error) {
	student, err := r.Student(studentID)
	if err != nil {
		return false, err
	}
	updated, err := student.UpdateScore(courseID, score)
	switch {
	case errors.Is(err, appErrors.ErrOutOfRange):
		r.metrics.ObserveScoreUpdate("out_of_range")
		return false, err
	case !updated:
		r.metrics.ObserveScoreUpdate("not_enrolled")
		return false, nil
	}
	r.metrics.ObserveScoreUpdate("updated")
	if err != nil {
		r.metrics.ObserveNotifyFailure()
		r.logger.Warn("score observers failed",
			zap.String("student_id", studentID),
			zap.String("course_id", courseID),
			zap.Int("failures", len(notify.Errors(err))),
			zap.Error(err),
		)
	}
	return true, err
}

// Subscribe attaches an observer to one student.
func (r *Registry) Subscribe(studentID string, ref notify.Ref[models.ScoreEvent]) error {
	student, err := r.Student(studentID)
	if err != nil {
		return err
	}
	student.Subscribe(ref)
	return nil
}

// SubscribeAll attaches an observer to every registered student and to
// every student registered afterwards.
func (r *Registry) SubscribeAll(ref notify.Ref[models.ScoreEvent]) {
	r.mu.Lock()
	r.global = append(r.global, ref)
	existing := r.students.All()
	r.mu.Unlock()

	// Attach outside the registry lock: an in-flight publish holds the bus
	// lock and its observers may be waiting to read the registry.
	for _, student := range existing {
		student.Subscribe(ref)
	}
}

// Student resolves a student by id.
func (r *Registry) Student(id string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.students.Get(id)
}

// Teacher resolves a teacher by id.
func (r *Registry) Teacher(id string) (*models.Teacher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.teachers.Get(id)
}

// Course resolves a course by id.
func (r *Registry) Course(id string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.courses.Get(id)
}

// Students returns the students in registration order.
func (r *Registry) Students() []*models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.students.All()
}

// Teachers returns the teachers in registration order.
func (r *Registry) Teachers() []*models.Teacher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.teachers.All()
}

// Courses returns the courses in registration order.
func (r *Registry) Courses() []*models.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.courses.All()
}

// DepartmentCounts maps each department to its number of teachers.
func (r *Registry) DepartmentCounts() map[string]int {
	counts := make(map[string]int)
	for _, teacher := range r.Teachers() {
		counts[teacher.Department]++
	}
	return counts
}

// TopPerformers returns up to n students ordered by overall WAM, highest
// first. Ties keep registration order.
func (r *Registry) TopPerformers(n int) []models.Performer {
	if n <= 0 {
		return []models.Performer{}
	}
	students := r.Students()
	ranked := make([]models.Performer, len(students))
	for i, s := range students {
		ranked[i] = models.Performer{StudentID: s.ID, Name: s.Name, OverallWAM: s.OverallWAM()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallWAM > ranked[j].OverallWAM
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Links returns every student-course pair, students in registration order
// and courses ascending. Taken under the read lock, it never observes a
// half-applied enrollment.
func (r *Registry) Links() []models.EnrollmentLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var links []models.EnrollmentLink
	for _, s := range r.students.All() {
		for _, courseID := range s.CourseIDs() {
			links = append(links, models.EnrollmentLink{StudentID: s.ID, CourseID: courseID})
		}
	}
	return links
}

// Stats summarises the registry contents.
func (r *Registry) Stats() models.RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := models.RegistryStats{
		Students: r.students.Len(),
		Teachers: r.teachers.Len(),
		Courses:  r.courses.Len(),
	}
	for _, c := range r.courses.All() {
		stats.Enrollments += c.EnrolledCount()
		stats.SeatsCapacity += c.Capacity
		stats.SeatsFree += c.AvailableSeats()
	}
	return stats
}
