package models

import "sync"

// EnrollResult is the outcome of linking a student to a course.
type EnrollResult int

// Possible enrollment outcomes.
const (
	EnrollCreated EnrollResult = iota
	EnrollExisting
	EnrollCourseFull
)

func (r EnrollResult) String() string {
	switch r {
	case EnrollCreated:
		return "created"
	case EnrollExisting:
		return "existing"
	case EnrollCourseFull:
		return "course_full"
	default:
		return "unknown"
	}
}

// Enroll links s to c. Both sides of the link change while commit is
// held, so any reader synchronising on commit sees either no link or the
// complete pair. On a new link the enrollment event is published after
// commit is released but before any later score update of s, keeping the
// per-student event order. Re-enrolling is a no-op without an event; a
// full course leaves both sides untouched.
//
// commit must not be held by the caller.
func (s *Student) Enroll(c *Course, commit sync.Locker) (EnrollResult, error) {
	s.emit.Lock()
	defer s.emit.Unlock()

	commit.Lock()
	result := s.link(c)
	commit.Unlock()

	if result != EnrollCreated {
		return result, nil
	}
	return result, s.publish(newScoreEvent(s.ID, c.ID, nil, nil))
}

func (s *Student) link(c *Course) EnrollResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scores[c.ID]; ok {
		return EnrollExisting
	}
	if len(c.enrolled) >= c.Capacity {
		return EnrollCourseFull
	}
	c.enrolled[s.ID] = struct{}{}
	s.scores[c.ID] = nil
	return EnrollCreated
}
