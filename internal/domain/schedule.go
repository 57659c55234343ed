// Package domain contains the core business entities for Openlatch.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a recurring weekly time window during which a user may be
// granted access. A user with zero schedules is unrestricted.
type Schedule struct {
	// ID is the stable unique identifier for the schedule.
	// Schedules used to be addressed by list position, which broke under
	// concurrent removal and across reloads; IDs are assigned at creation
	// and persisted.
	ID string `json:"id"`

	// UserID references the owning user. The reference is validated by an
	// existence lookup at creation time only; there is no live enforcement
	// afterwards.
	UserID string `json:"user_id"`

	// DayOfWeek is the weekday the window applies to (0=Monday, 6=Sunday).
	DayOfWeek int `json:"day_of_week"`

	// StartTime is the inclusive window start, "HH:MM:SS" 24-hour,
	// zero-padded so string comparison matches numeric comparison.
	StartTime string `json:"start_time"`

	// EndTime is the inclusive window end, same format. Strictly greater
	// than StartTime.
	EndTime string `json:"end_time"`

	// Active indicates whether the window participates in evaluation.
	Active bool `json:"active"`

	// CreatedAt is the timestamp when the schedule was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSchedule creates a Schedule with a fresh ID and stamped timestamps.
func NewSchedule(userID string, dayOfWeek int, startTime, endTime string, active bool) *Schedule {
	now := time.Now().UTC()
	return &Schedule{
		ID:        uuid.NewString(),
		UserID:    userID,
		DayOfWeek: dayOfWeek,
		StartTime: startTime,
		EndTime:   endTime,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Covers returns true if the window is active, applies to the given weekday
// and inclusively brackets the given "HH:MM:SS" time.
func (s *Schedule) Covers(dayOfWeek int, clock string) bool {
	if !s.Active || s.DayOfWeek != dayOfWeek {
		return false
	}
	return s.StartTime <= clock && clock <= s.EndTime
}

// Clone returns a copy of the schedule for the copy-and-validate update path.
func (s *Schedule) Clone() *Schedule {
	clone := *s
	return &clone
}

// ScheduleSet holds schedules in an id-indexed map plus a separately
// maintained insertion-order list. Evaluation semantics are first match
// wins in storage order, so the order list is part of the contract.
type ScheduleSet struct {
	byID  map[string]*Schedule
	order []string
}

// NewScheduleSet creates an empty ScheduleSet.
func NewScheduleSet() *ScheduleSet {
	return &ScheduleSet{byID: make(map[string]*Schedule)}
}

// Add appends a schedule at the end of the insertion order.
// Adding an ID that already exists replaces the entry in place.
func (ss *ScheduleSet) Add(s *Schedule) {
	if _, exists := ss.byID[s.ID]; !exists {
		ss.order = append(ss.order, s.ID)
	}
	ss.byID[s.ID] = s
}

// Replace swaps the stored schedule for an existing ID, preserving its
// position in the order. Returns false if the ID is unknown.
func (ss *ScheduleSet) Replace(s *Schedule) bool {
	if _, exists := ss.byID[s.ID]; !exists {
		return false
	}
	ss.byID[s.ID] = s
	return true
}

// Get returns the schedule with the given ID, or nil.
func (ss *ScheduleSet) Get(id string) *Schedule {
	return ss.byID[id]
}

// Remove deletes the schedule with the given ID. Returns false if absent.
func (ss *ScheduleSet) Remove(id string) bool {
	if _, exists := ss.byID[id]; !exists {
		return false
	}
	delete(ss.byID, id)
	for i, oid := range ss.order {
		if oid == id {
			ss.order = append(ss.order[:i], ss.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveByUser deletes all schedules owned by the given user and returns
// how many were removed. Used by the user-removal cascade.
func (ss *ScheduleSet) RemoveByUser(userID string) int {
	removed := 0
	kept := ss.order[:0]
	for _, id := range ss.order {
		if s := ss.byID[id]; s != nil && s.UserID == userID {
			delete(ss.byID, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	ss.order = kept
	return removed
}

// ByUser returns the schedules owned by the given user, in insertion order.
func (ss *ScheduleSet) ByUser(userID string) []*Schedule {
	var result []*Schedule
	for _, id := range ss.order {
		if s := ss.byID[id]; s != nil && s.UserID == userID {
			result = append(result, s)
		}
	}
	return result
}

// All returns every schedule in insertion order.
func (ss *ScheduleSet) All() []*Schedule {
	result := make([]*Schedule, 0, len(ss.order))
	for _, id := range ss.order {
		if s := ss.byID[id]; s != nil {
			result = append(result, s)
		}
	}
	return result
}

// Len returns the number of schedules in the set.
func (ss *ScheduleSet) Len() int {
	return len(ss.byID)
}
