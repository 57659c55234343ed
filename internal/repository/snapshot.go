// Package repository implements the cached state store for Openlatch.
// The whole core state round-trips through one versioned JSON blob held by
// an opaque blob backend.
package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openlatch/openlatch/internal/domain"
)

// snapshotVersion is the current wire version of the persisted payload.
const snapshotVersion = 1

// snapshot is the persisted shape of the core state. Optional fields are
// omitted when absent and must round-trip to the same in-memory defaults.
type snapshot struct {
	Version   int                   `json:"version"`
	Users     map[string]userRecord `json:"users"`
	Schedules []scheduleRecord      `json:"schedules"`
}

type userRecord struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CodeHash   *string    `json:"code_hash,omitempty"`
	CodeSalt   *string    `json:"code_salt,omitempty"`
	Tag        *string    `json:"tag,omitempty"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

type scheduleRecord struct {
	// ID may be absent in payloads written before schedules had stable
	// identifiers; the loader assigns a fresh one.
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// marshalState serializes the state into the versioned wire payload.
// Schedule order in the payload is the in-memory insertion order.
func marshalState(state *State) ([]byte, error) {
	snap := snapshot{
		Version:   snapshotVersion,
		Users:     make(map[string]userRecord, len(state.Users)),
		Schedules: make([]scheduleRecord, 0, state.Schedules.Len()),
	}

	for id, user := range state.Users {
		rec := userRecord{
			ID:         user.ID,
			Name:       user.Name,
			Tag:        user.Tag,
			Active:     user.Active,
			CreatedAt:  user.CreatedAt,
			UpdatedAt:  user.UpdatedAt,
			LastUsedAt: user.LastUsedAt,
		}
		if user.Credential != nil {
			rec.CodeHash = &user.Credential.Hash
			rec.CodeSalt = &user.Credential.Salt
		}
		snap.Users[id] = rec
	}

	for _, schedule := range state.Schedules.All() {
		snap.Schedules = append(snap.Schedules, scheduleRecord{
			ID:        schedule.ID,
			UserID:    schedule.UserID,
			DayOfWeek: schedule.DayOfWeek,
			StartTime: schedule.StartTime,
			EndTime:   schedule.EndTime,
			Active:    schedule.Active,
			CreatedAt: schedule.CreatedAt,
			UpdatedAt: schedule.UpdatedAt,
		})
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return payload, nil
}

// unmarshalState deserializes a wire payload into fresh state. The stored
// hash/salt pair is carried over verbatim, never re-hashed.
func unmarshalState(payload []byte) (*State, error) {
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	state := newEmptyState()

	for id, rec := range snap.Users {
		user := &domain.User{
			ID:         rec.ID,
			Name:       rec.Name,
			Tag:        rec.Tag,
			Active:     rec.Active,
			CreatedAt:  rec.CreatedAt,
			UpdatedAt:  rec.UpdatedAt,
			LastUsedAt: rec.LastUsedAt,
		}
		if rec.CodeHash != nil && rec.CodeSalt != nil {
			user.Credential = &domain.CodeCredential{Hash: *rec.CodeHash, Salt: *rec.CodeSalt}
		}
		state.Users[id] = user
	}

	for _, rec := range snap.Schedules {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		state.Schedules.Add(&domain.Schedule{
			ID:        id,
			UserID:    rec.UserID,
			DayOfWeek: rec.DayOfWeek,
			StartTime: rec.StartTime,
			EndTime:   rec.EndTime,
			Active:    rec.Active,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	return state, nil
}
