package models

import "sync"

// Teacher is an instructor with a growing set of assigned courses.
type Teacher struct {
	Profile
	Department     string
	Specialization string

	mu       sync.RWMutex
	assigned map[string]struct{}
}

// NewTeacher builds a teacher with no assignments.
func NewTeacher(profile Profile, department, specialization string) *Teacher {
	return &Teacher{
		Profile:        profile,
		Department:     department,
		Specialization: specialization,
		assigned:       make(map[string]struct{}),
	}
}

// Assign adds courseID to the teacher's assigned set. It reports whether
// the set changed.
func (t *Teacher) Assign(courseID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.assigned[courseID]; ok {
		return false
	}
	t.assigned[courseID] = struct{}{}
	return true
}

// CourseLoad returns the number of assigned courses.
func (t *Teacher) CourseLoad() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.assigned)
}

// AssignedCourses returns assigned course ids in ascending order.
func (t *Teacher) AssignedCourses() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.assigned)
}

// Snapshot returns a read-only copy of the teacher.
func (t *Teacher) Snapshot() TeacherView {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return TeacherView{
		Profile:         t.Profile,
		Department:      t.Department,
		Specialization:  t.Specialization,
		AssignedCourses: sortedKeys(t.assigned),
	}
}

func (*Teacher) inspectable() {}
