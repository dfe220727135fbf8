// Package presenter renders registry views as terminal text.
package presenter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/college-registry/internal/models"
)

// ANSI escape sequences.
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Bold    = "\033[1m"
)

// Display is the text visitor for students, teachers and courses.
type Display struct {
	Color bool
}

// NewDisplay constructs Display.
func NewDisplay(color bool) Display {
	return Display{Color: color}
}

// Paint wraps s in the given escape codes when colour is enabled.
func (d Display) Paint(s string, codes ...string) string {
	if !d.Color || len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// Heading renders a section title.
func (d Display) Heading(title string) string {
	return d.Paint(title, Bold, Blue)
}

// VisitStudent renders a student card.
func (d Display) VisitStudent(v models.StudentView) string {
	var b strings.Builder
	b.WriteString(d.Paint("STUDENT", Bold, Blue) + "\n")
	fmt.Fprintf(&b, "Name: %s\n", v.Name)
	fmt.Fprintf(&b, "ID: %s\n", v.ID)
	fmt.Fprintf(&b, "Grade Level: %s\n", v.GradeLevel)
	fmt.Fprintf(&b, "Email: %s\n", v.Email)
	fmt.Fprintf(&b, "Address: %s\n", formatAddress(v.Address))
	fmt.Fprintf(&b, "WAM: %.1f\n", v.OverallWAM)
	return b.String()
}

// VisitTeacher renders a teacher card.
func (d Display) VisitTeacher(v models.TeacherView) string {
	var b strings.Builder
	b.WriteString(d.Paint("TEACHER", Bold, Green) + "\n")
	fmt.Fprintf(&b, "Name: %s\n", v.Name)
	fmt.Fprintf(&b, "ID: %s\n", v.ID)
	fmt.Fprintf(&b, "Department: %s\n", v.Department)
	fmt.Fprintf(&b, "Specialization: %s\n", v.Specialization)
	fmt.Fprintf(&b, "Email: %s\n", v.Email)
	fmt.Fprintf(&b, "Address: %s\n", formatAddress(v.Address))
	if len(v.AssignedCourses) > 0 {
		fmt.Fprintf(&b, "Courses: %s\n", strings.Join(v.AssignedCourses, ", "))
	}
	return b.String()
}

// VisitCourse renders a course card.
func (d Display) VisitCourse(v models.CourseView) string {
	var b strings.Builder
	b.WriteString(d.Paint("COURSE", Bold, Yellow) + "\n")
	fmt.Fprintf(&b, "Name: %s\n", v.Name)
	fmt.Fprintf(&b, "ID: %s\n", v.ID)
	fmt.Fprintf(&b, "Credits: %d\n", v.Credits)
	fmt.Fprintf(&b, "Enrolled: %d/%d\n", v.EnrolledCount(), v.Capacity)
	if len(v.Prerequisites) > 0 {
		fmt.Fprintf(&b, "Prerequisites: %s\n", strings.Join(v.Prerequisites, ", "))
	}
	return b.String()
}

// WAMColor picks the band colour for a WAM.
func WAMColor(wam float64) string {
	switch {
	case wam < 60:
		return Red
	case wam < 70:
		return Yellow
	default:
		return Green
	}
}

// FormatPerformers renders one "name: wam" line per performer.
func (d Display) FormatPerformers(performers []models.Performer) string {
	var b strings.Builder
	for _, p := range performers {
		fmt.Fprintf(&b, "%s: %s\n", d.Paint(p.Name, Bold), d.Paint(fmt.Sprintf("%.1f", p.OverallWAM), WAMColor(p.OverallWAM)))
	}
	return b.String()
}

// FormatDepartments renders department counts sorted by department name.
func (d Display) FormatDepartments(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		noun := "teachers"
		if counts[name] == 1 {
			noun = "teacher"
		}
		fmt.Fprintf(&b, "%s: %d %s\n", d.Paint(name, Cyan), counts[name], noun)
	}
	return b.String()
}

func formatAddress(a models.Address) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
