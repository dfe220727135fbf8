// Package inspect dispatches read-only entity snapshots to presenters.
package inspect

import (
	"fmt"

	"github.com/noah-isme/college-registry/internal/models"
)

// Visitor renders each entity kind into an R.
type Visitor[R any] interface {
	VisitStudent(view models.StudentView) R
	VisitTeacher(view models.TeacherView) R
	VisitCourse(view models.CourseView) R
}

// Visit snapshots entity and hands the view to the matching method of v.
func Visit[R any](entity models.Inspectable, v Visitor[R]) R {
	switch e := entity.(type) {
	case *models.Student:
		return v.VisitStudent(e.Snapshot())
	case *models.Teacher:
		return v.VisitTeacher(e.Snapshot())
	case *models.Course:
		return v.VisitCourse(e.Snapshot())
	default:
		// Inspectable is sealed to the three kinds above.
		panic(fmt.Sprintf("inspect: unsupported entity %T", entity))
	}
}

// VisitAll applies v to every entity in order.
func VisitAll[R any, E models.Inspectable](entities []E, v Visitor[R]) []R {
	out := make([]R, len(entities))
	for i, e := range entities {
		out[i] = Visit[R](e, v)
	}
	return out
}
