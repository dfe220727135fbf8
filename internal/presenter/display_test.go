package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/college-registry/internal/inspect"
	"github.com/noah-isme/college-registry/internal/models"
)

func TestDisplayStudentPlain(t *testing.T) {
	student := models.NewStudent(models.NewProfile("S001", "Aarav Sharma", "aarav@college.edu",
		models.Address{Street: "12 Mall Road", City: "Rajpura", State: "Punjab", Zip: "140401"}), models.GradeSophomore)

	out := inspect.Visit[string](student, NewDisplay(false))
	want := "STUDENT\n" +
		"Name: Aarav Sharma\n" +
		"ID: S001\n" +
		"Grade Level: SOPHOMORE\n" +
		"Email: aarav@college.edu\n" +
		"Address: 12 Mall Road, Rajpura, Punjab, 140401\n" +
		"WAM: 0.0\n"
	assert.Equal(t, want, out)
}

func TestDisplayTeacherAndCourse(t *testing.T) {
	teacher := models.NewTeacher(models.NewProfile("T001", "Meera Iyer", "meera@college.edu", models.Address{City: "Chandigarh"}),
		"Computer Science", "Backend Development")
	teacher.Assign("CS301")
	course := models.NewCourse("CS301", "Backend Development", 4, 25, "CS101")

	d := NewDisplay(false)
	teacherOut := inspect.Visit[string](teacher, d)
	assert.Contains(t, teacherOut, "Department: Computer Science\n")
	assert.Contains(t, teacherOut, "Address: Chandigarh\n")
	assert.Contains(t, teacherOut, "Courses: CS301\n")

	courseOut := inspect.Visit[string](course, d)
	assert.Contains(t, courseOut, "COURSE\n")
	assert.Contains(t, courseOut, "Enrolled: 0/25\n")
	assert.Contains(t, courseOut, "Prerequisites: CS101\n")
}

func TestDisplayColour(t *testing.T) {
	d := NewDisplay(true)
	assert.Equal(t, Bold+Blue+"Top"+Reset, d.Heading("Top"))
	assert.Equal(t, "Top", NewDisplay(false).Heading("Top"))
}

func TestWAMColorBands(t *testing.T) {
	assert.Equal(t, Red, WAMColor(59.9))
	assert.Equal(t, Yellow, WAMColor(60))
	assert.Equal(t, Yellow, WAMColor(69.9))
	assert.Equal(t, Green, WAMColor(70))
}

func TestFormatPerformersAndDepartments(t *testing.T) {
	d := NewDisplay(false)
	out := d.FormatPerformers([]models.Performer{{StudentID: "A", Name: "Alice", OverallWAM: 81.24}, {StudentID: "B", Name: "Bob", OverallWAM: 55}})
	assert.Equal(t, "Alice: 81.2\nBob: 55.0\n", out)

	depts := d.FormatDepartments(map[string]int{"Mathematics": 1, "Computer Science": 3})
	assert.Equal(t, "Computer Science: 3 teachers\nMathematics: 1 teacher\n", depts)

	coloured := NewDisplay(true).FormatPerformers([]models.Performer{{Name: "Bob", OverallWAM: 55}})
	assert.Contains(t, coloured, Red+"55.0"+Reset)
}
