package models

import (
	"sort"
	"sync"
)

// DefaultCapacity is used when a course is created without a capacity.
const DefaultCapacity = 30

// Course is a catalog entry with a bounded enrolled-student set.
// Prerequisites are recorded but never enforced.
type Course struct {
	ID       string
	Name     string
	Credits  int
	Capacity int

	mu            sync.RWMutex
	enrolled      map[string]struct{}
	prerequisites map[string]struct{}
}

// NewCourse builds a course. A non-positive capacity falls back to
// DefaultCapacity.
func NewCourse(id, name string, credits, capacity int, prerequisites ...string) *Course {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Course{
		ID:            id,
		Name:          name,
		Credits:       credits,
		Capacity:      capacity,
		enrolled:      make(map[string]struct{}),
		prerequisites: make(map[string]struct{}),
	}
	for _, p := range prerequisites {
		c.prerequisites[p] = struct{}{}
	}
	return c
}

// AddPrerequisite records courseID as a prerequisite.
func (c *Course) AddPrerequisite(courseID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prerequisites[courseID] = struct{}{}
}

// Has reports whether studentID is enrolled.
func (c *Course) Has(studentID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.enrolled[studentID]
	return ok
}

// EnrolledCount returns the number of enrolled students.
func (c *Course) EnrolledCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.enrolled)
}

// AvailableSeats returns the remaining capacity.
func (c *Course) AvailableSeats() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Capacity - len(c.enrolled)
}

// StudentIDs returns enrolled student ids in ascending order.
func (c *Course) StudentIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.enrolled)
}

// Snapshot returns a read-only copy of the course.
func (c *Course) Snapshot() CourseView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CourseView{
		ID:            c.ID,
		Name:          c.Name,
		Credits:       c.Credits,
		Capacity:      c.Capacity,
		Enrolled:      sortedKeys(c.enrolled),
		Prerequisites: sortedKeys(c.prerequisites),
	}
}

func (*Course) inspectable() {}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
