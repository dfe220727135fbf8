package models

import (
	"math"
	"sort"
	"sync"

	appErrors "github.com/noah-isme/college-registry/pkg/errors"
	"github.com/noah-isme/college-registry/pkg/notify"
)

// ScoreObserver receives a student's score events.
type ScoreObserver = notify.Observer[ScoreEvent]

// Student is a learner with an enrollment map of course id to optional
// score. Profile and GradeLevel must not be modified after registration.
type Student struct {
	Profile
	GradeLevel GradeLevel

	// emit orders mutations together with their notifications; mu guards
	// scores for readers, which may run inside observer callbacks.
	emit   sync.Mutex
	mu     sync.RWMutex
	scores map[string]*float64
	bus    *notify.Bus[ScoreEvent]
}

// NewStudent builds a student with no enrollments.
func NewStudent(profile Profile, level GradeLevel) *Student {
	return &Student{
		Profile:    profile,
		GradeLevel: level,
		scores:     make(map[string]*float64),
		bus:        notify.NewBus[ScoreEvent](),
	}
}

// Subscribe adds an observer to this student's bus. The bus holds ref
// weakly; keep the observer reachable for as long as it should receive
// events.
func (s *Student) Subscribe(ref notify.Ref[ScoreEvent]) {
	s.bus.Subscribe(ref)
}

// Subscribers returns the number of live subscriptions.
func (s *Student) Subscribers() int {
	return s.bus.Len()
}

// UpdateScore records score for an enrolled course and notifies observers
// with the previous and new values. It returns false without notifying
// when the student is not enrolled in courseID. A notification failure is
// returned as a NOTIFY_ERROR after the score has been stored.
func (s *Student) UpdateScore(courseID string, score float64) (bool, error) {
	if math.IsNaN(score) || score < MinScore || score > MaxScore {
		return false, appErrors.Clonef(appErrors.ErrOutOfRange, "score %v for student %s in %s out of range [0, 100]", score, s.ID, courseID)
	}

	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	prev, ok := s.scores[courseID]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	s.scores[courseID] = scorePtr(score)
	s.mu.Unlock()

	return true, s.publish(newScoreEvent(s.ID, courseID, copyScore(prev), scorePtr(score)))
}

// Enrolled reports whether the student holds a slot for courseID.
func (s *Student) Enrolled(courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scores[courseID]
	return ok
}

// Score returns the recorded score for courseID; ok is false when the
// student is not enrolled or has no grade yet.
func (s *Student) Score(courseID string) (score float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.scores[courseID]; p != nil {
		return *p, true
	}
	return 0, false
}

// CourseIDs returns the enrolled course ids in ascending order.
func (s *Student) CourseIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.scores))
	for id := range s.scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OverallWAM is the arithmetic mean of present scores. A student without
// any score reports 0.0, so ungraded students rank alongside a genuine
// zero at the bottom of any ordering by WAM.
func (s *Student) OverallWAM() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return overallWAM(s.scores)
}

// Snapshot returns a read-only copy of the student's current state.
func (s *Student) Snapshot() StudentView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view := StudentView{
		Profile:     s.Profile,
		GradeLevel:  s.GradeLevel,
		Enrollments: make([]EnrollmentSlot, 0, len(s.scores)),
		OverallWAM:  overallWAM(s.scores),
	}
	for id, score := range s.scores {
		view.Enrollments = append(view.Enrollments, EnrollmentSlot{CourseID: id, Score: copyScore(score)})
	}
	sort.Slice(view.Enrollments, func(i, j int) bool {
		return view.Enrollments[i].CourseID < view.Enrollments[j].CourseID
	})
	return view
}

func (s *Student) publish(event ScoreEvent) error {
	if err := s.bus.Publish(event); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotify.Code, "notify observers of student "+s.ID)
	}
	return nil
}

func overallWAM(scores map[string]*float64) float64 {
	var sum float64
	var n int
	for _, score := range scores {
		if score != nil {
			sum += *score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (*Student) inspectable() {}
