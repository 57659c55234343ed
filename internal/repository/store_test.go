package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/openlatch/openlatch/internal/blob"
	"github.com/openlatch/openlatch/internal/domain"
)

func testTag(s string) *string { return &s }

func seedUser() *domain.User {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lastUsed := time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC)
	return &domain.User{
		ID:   "u1",
		Name: "Alice",
		Credential: &domain.CodeCredential{
			Hash: "deadbeef",
			Salt: "cafebabe",
		},
		Tag:        testTag("42"),
		Active:     true,
		CreatedAt:  created,
		UpdatedAt:  created,
		LastUsedAt: &lastUsed,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()

	store := NewStore(backend, zerolog.Nop())
	user := seedUser()
	schedule := domain.NewSchedule("u1", 2, "09:00:00", "17:00:00", true)

	err := store.Update(ctx, func(state *State) error {
		state.Users[user.ID] = user
		state.Schedules.Add(schedule)
		return nil
	})
	require.NoError(t, err)

	// A fresh store over the same backend must rehydrate identical state.
	reloaded := NewStore(backend, zerolog.Nop())
	err = reloaded.View(ctx, func(state *State) error {
		got, ok := state.Users["u1"]
		require.True(t, ok)
		require.Equal(t, user.Name, got.Name)
		require.NotNil(t, got.Credential)
		// Hash and salt are preserved verbatim, never re-hashed.
		require.Equal(t, user.Credential.Hash, got.Credential.Hash)
		require.Equal(t, user.Credential.Salt, got.Credential.Salt)
		require.NotNil(t, got.Tag)
		require.Equal(t, "42", *got.Tag)
		require.True(t, got.CreatedAt.Equal(user.CreatedAt))
		require.NotNil(t, got.LastUsedAt)
		require.True(t, got.LastUsedAt.Equal(*user.LastUsedAt))

		gotSchedules := state.Schedules.ByUser("u1")
		require.Len(t, gotSchedules, 1)
		require.Equal(t, schedule.ID, gotSchedules[0].ID)
		require.Equal(t, "09:00:00", gotSchedules[0].StartTime)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_OptionalFieldsRoundTripToNil(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()

	store := NewStore(backend, zerolog.Nop())
	err := store.Update(ctx, func(state *State) error {
		state.Users["u2"] = &domain.User{
			ID:        "u2",
			Name:      "Bob",
			Tag:       testTag("7"),
			Active:    true,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		return nil
	})
	require.NoError(t, err)

	reloaded := NewStore(backend, zerolog.Nop())
	err = reloaded.View(ctx, func(state *State) error {
		got := state.Users["u2"]
		require.NotNil(t, got)
		require.Nil(t, got.Credential)
		require.Nil(t, got.LastUsedAt)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ScheduleOrderSurvivesReload(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()

	store := NewStore(backend, zerolog.Nop())
	var ids []string
	err := store.Update(ctx, func(state *State) error {
		state.Users["u1"] = seedUser()
		for _, window := range []string{"08:00:00", "12:00:00", "18:00:00"} {
			s := domain.NewSchedule("u1", 1, window, "23:00:00", true)
			state.Schedules.Add(s)
			ids = append(ids, s.ID)
		}
		return nil
	})
	require.NoError(t, err)

	reloaded := NewStore(backend, zerolog.Nop())
	err = reloaded.View(ctx, func(state *State) error {
		all := state.Schedules.All()
		require.Len(t, all, 3)
		for i, s := range all {
			require.Equal(t, ids[i], s.ID)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStore_CorruptPayloadFailsSafeEmpty(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()
	require.NoError(t, backend.Save(ctx, []byte("{not json")))

	store := NewStore(backend, zerolog.Nop())
	err := store.View(ctx, func(state *State) error {
		require.Empty(t, state.Users)
		require.Zero(t, state.Schedules.Len())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_LegacySchedulesGetIDs(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()

	// Payload written before schedules carried stable identifiers.
	legacy := []byte(`{
		"version": 1,
		"users": {},
		"schedules": [
			{"user_id":"u1","day_of_week":2,"start_time":"09:00:00","end_time":"17:00:00",
			 "active":true,"created_at":"2025-03-01T12:00:00Z","updated_at":"2025-03-01T12:00:00Z"}
		]
	}`)
	require.NoError(t, backend.Save(ctx, legacy))

	store := NewStore(backend, zerolog.Nop())
	err := store.View(ctx, func(state *State) error {
		all := state.Schedules.All()
		require.Len(t, all, 1)
		require.NotEmpty(t, all[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_LoadFailureIsStorageUnavailable(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()
	backend.FailWith(errors.New("connection refused"), nil)

	store := NewStore(backend, zerolog.Nop())
	err := store.View(ctx, func(state *State) error { return nil })
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStore_SaveFailureIsStorageUnavailable(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()
	backend.FailWith(nil, errors.New("disk full"))

	store := NewStore(backend, zerolog.Nop())
	err := store.Update(ctx, func(state *State) error {
		state.Users["u1"] = seedUser()
		return nil
	})
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStore_UpdateErrorLeavesNothingPersisted(t *testing.T) {
	ctx := context.Background()
	backend := blob.NewMemoryStore()

	store := NewStore(backend, zerolog.Nop())
	sentinel := errors.New("validation failed")
	err := store.Update(ctx, func(state *State) error { return sentinel })
	require.ErrorIs(t, err, sentinel)

	_, err = backend.Load(ctx)
	require.ErrorIs(t, err, blob.ErrNotExist)
}
