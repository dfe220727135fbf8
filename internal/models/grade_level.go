package models

import (
	"strings"

	appErrors "github.com/noah-isme/college-registry/pkg/errors"
)

// GradeLevel is a student's year of study.
type GradeLevel string

// Supported grade levels.
const (
	GradeFreshman  GradeLevel = "FRESHMAN"
	GradeSophomore GradeLevel = "SOPHOMORE"
	GradeJunior    GradeLevel = "JUNIOR"
	GradeSenior    GradeLevel = "SENIOR"
)

// ParseGradeLevel resolves an exact, upper-case grade level token.
func ParseGradeLevel(raw string) (GradeLevel, error) {
	switch level := GradeLevel(raw); level {
	case GradeFreshman, GradeSophomore, GradeJunior, GradeSenior:
		return level, nil
	}
	return "", appErrors.Clonef(appErrors.ErrValidation, "invalid grade level: %q", strings.TrimSpace(raw))
}

// Valid reports whether g is one of the supported levels.
func (g GradeLevel) Valid() bool {
	_, err := ParseGradeLevel(string(g))
	return err == nil
}

func (g GradeLevel) String() string {
	if !g.Valid() {
		return "UNKNOWN"
	}
	return string(g)
}
