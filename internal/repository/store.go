package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openlatch/openlatch/internal/blob"
	"github.com/openlatch/openlatch/internal/domain"
)

// ErrStorageUnavailable indicates the blob backend could not serve a load
// or save. Surfaced as a hard failure; callers refuse the request rather
// than silently degrade.
var ErrStorageUnavailable = errors.New("storage unavailable")

// State is the in-memory core state: all users and all schedules. It is
// exclusively owned by the Store; callbacks receive it only while the
// store's lock is held and must not retain references.
type State struct {
	Users     map[string]*domain.User
	Schedules *domain.ScheduleSet
}

func newEmptyState() *State {
	return &State{
		Users:     make(map[string]*domain.User),
		Schedules: domain.NewScheduleSet(),
	}
}

// Store wraps a blob backend with a lazily hydrated, cached State. All
// reads and mutations are serialized behind one mutex: this is the
// single-writer-at-a-time model the design assumes, made explicit.
type Store struct {
	mu     sync.Mutex
	blob   blob.Store
	logger zerolog.Logger
	state  *State
	loaded bool
}

// NewStore creates a Store over the given blob backend. Nothing is loaded
// until the first access.
func NewStore(b blob.Store, logger zerolog.Logger) *Store {
	return &Store{
		blob:   b,
		logger: logger.With().Str("component", "repository").Logger(),
	}
}

// View runs fn with read access to the state. fn must not mutate.
func (s *Store) View(ctx context.Context, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	return fn(s.state)
}

// Update runs fn with write access to the state and persists the result.
// fn must validate the fully constructed candidate before touching the
// state, so a validation failure never leaves a partial mutation. When the
// save itself fails the cache is dropped and rehydrated from the last
// persisted payload on next access.
func (s *Store) Update(ctx context.Context, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	if err := fn(s.state); err != nil {
		return err
	}

	payload, err := marshalState(s.state)
	if err != nil {
		s.loaded = false
		return err
	}
	if err := s.blob.Save(ctx, payload); err != nil {
		s.loaded = false
		s.logger.Error().Err(err).Msg("failed to save state")
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// ensureLoaded hydrates the cache on first access. A missing blob starts
// empty; a malformed payload is discarded and logged, reinitializing to
// empty state (fail-safe-empty rather than a fatal abort).
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	payload, err := s.blob.Load(ctx)
	switch {
	case errors.Is(err, blob.ErrNotExist):
		s.state = newEmptyState()
	case err != nil:
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	default:
		state, uerr := unmarshalState(payload)
		if uerr != nil {
			s.logger.Error().Err(uerr).Msg("discarding corrupt state payload")
			state = newEmptyState()
		}
		s.state = state
	}

	s.loaded = true
	return nil
}
