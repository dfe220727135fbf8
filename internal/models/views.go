package models

// Inspectable is the closed set of entity kinds that can be presented
// through a visitor: *Student, *Teacher and *Course.
type Inspectable interface {
	inspectable()
}

// EnrollmentSlot is one entry of a student's enrollment map.
type EnrollmentSlot struct {
	CourseID string   `json:"course_id"`
	Score    *float64 `json:"score,omitempty"`
}

// StudentView is a read-only snapshot of a student.
type StudentView struct {
	Profile
	GradeLevel  GradeLevel       `json:"grade_level"`
	Enrollments []EnrollmentSlot `json:"enrollments"`
	OverallWAM  float64          `json:"overall_wam"`
}

// TeacherView is a read-only snapshot of a teacher.
type TeacherView struct {
	Profile
	Department      string   `json:"department"`
	Specialization  string   `json:"specialization"`
	AssignedCourses []string `json:"assigned_courses"`
}

// CourseView is a read-only snapshot of a course.
type CourseView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Credits       int      `json:"credits"`
	Capacity      int      `json:"capacity"`
	Enrolled      []string `json:"enrolled"`
	Prerequisites []string `json:"prerequisites"`
}

// EnrolledCount is the number of students in the snapshot.
func (v CourseView) EnrolledCount() int {
	return len(v.Enrolled)
}

// Performer is one row of a top-performers ranking.
type Performer struct {
	StudentID  string  `json:"student_id"`
	Name       string  `json:"name"`
	OverallWAM float64 `json:"overall_wam"`
}

// EnrollmentLink is one student-course pair.
type EnrollmentLink struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
}

// RegistryStats summarises registry contents.
type RegistryStats struct {
	Students      int `json:"students"`
	Teachers      int `json:"teachers"`
	Courses       int `json:"courses"`
	Enrollments   int `json:"enrollments"`
	SeatsCapacity int `json:"seats_capacity"`
	SeatsFree     int `json:"seats_free"`
}
