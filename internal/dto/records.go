package dto

// Only the id is mandatory; email format is checked by the loader as a
// warning so that a sloppy address never drops a person.

// StudentRecord is one line of a students file:
// id, name, email, street, city, state, zip, grade level.
type StudentRecord struct {
	ID         string `validate:"required,max=64"`
	Name       string `validate:"max=256"`
	Email      string `validate:"max=254"`
	Street     string
	City       string
	State      string
	Zip        string
	GradeLevel string
}

// TeacherRecord is one line of a teachers file:
// id, name, email, street, city, state, zip, department, specialization.
type TeacherRecord struct {
	ID             string `validate:"required,max=64"`
	Name           string `validate:"max=256"`
	Email          string `validate:"max=254"`
	Street         string
	City           string
	State          string
	Zip            string
	Department     string `validate:"max=256"`
	Specialization string
}

// CourseRecord is one line of a courses file:
// id, name, credits[, capacity[, prerequisites separated by ';']].
type CourseRecord struct {
	ID            string   `validate:"required,max=64"`
	Name          string   `validate:"required"`
	Credits       int      `validate:"gte=0,lte=40"`
	Capacity      int      `validate:"gte=0"`
	Prerequisites []string `validate:"dive,required"`
}

// EnrollmentRecord is one line of an enrollments file: student id, course id.
type EnrollmentRecord struct {
	StudentID string `validate:"required"`
	CourseID  string `validate:"required"`
}
