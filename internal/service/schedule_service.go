package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/repository"
	"github.com/openlatch/openlatch/internal/validation"
)

// ScheduleService handles weekly access window management. Schedules are
// addressed by stable IDs; the insertion-order list inside the state set
// carries the first-match-wins evaluation order.
type ScheduleService struct {
	store  *repository.Store
	logger zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(store *repository.Store, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		store:  store,
		logger: logger.With().Str("service", "schedule").Logger(),
	}
}

// CreateScheduleInput contains the data needed to create a schedule.
type CreateScheduleInput struct {
	UserID    string
	DayOfWeek int
	StartTime string
	EndTime   string
	Active    bool
}

// Create creates a schedule for an existing user. The user reference is
// checked at creation time only; there is no live enforcement afterwards.
func (s *ScheduleService) Create(ctx context.Context, input CreateScheduleInput) (*domain.Schedule, error) {
	schedule := domain.NewSchedule(input.UserID, input.DayOfWeek, input.StartTime, input.EndTime, input.Active)

	err := s.store.Update(ctx, func(state *repository.State) error {
		if _, ok := state.Users[input.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		if err := validation.Schedule(schedule); err != nil {
			s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("schedule validation failed")
			return err
		}
		state.Schedules.Add(schedule)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("schedule_id", schedule.ID).
		Str("user_id", schedule.UserID).
		Int("day_of_week", schedule.DayOfWeek).
		Msg("schedule created")

	return schedule.Clone(), nil
}

// UpdateScheduleInput contains the partial fields of a schedule update.
// Nil fields keep their current value.
type UpdateScheduleInput struct {
	DayOfWeek *int
	StartTime *string
	EndTime   *string
	Active    *bool
}

// Update applies a partial update to a schedule, re-validating the whole
// reconstructed record. The schedule keeps its slot in evaluation order.
func (s *ScheduleService) Update(ctx context.Context, scheduleID string, input UpdateScheduleInput) (*domain.Schedule, error) {
	var updated *domain.Schedule

	err := s.store.Update(ctx, func(state *repository.State) error {
		current := state.Schedules.Get(scheduleID)
		if current == nil {
			return domain.ErrScheduleNotFound
		}

		candidate := current.Clone()
		if input.DayOfWeek != nil {
			candidate.DayOfWeek = *input.DayOfWeek
		}
		if input.StartTime != nil {
			candidate.StartTime = *input.StartTime
		}
		if input.EndTime != nil {
			candidate.EndTime = *input.EndTime
		}
		if input.Active != nil {
			candidate.Active = *input.Active
		}
		candidate.UpdatedAt = time.Now().UTC()

		if err := validation.Schedule(candidate); err != nil {
			s.logger.Error().Err(err).Str("schedule_id", scheduleID).Msg("schedule validation failed")
			return err
		}

		state.Schedules.Replace(candidate)
		updated = candidate.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("schedule_id", scheduleID).Msg("schedule updated")
	return updated, nil
}

// Remove deletes a schedule by ID.
func (s *ScheduleService) Remove(ctx context.Context, scheduleID string) error {
	err := s.store.Update(ctx, func(state *repository.State) error {
		if !state.Schedules.Remove(scheduleID) {
			return domain.ErrScheduleNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("schedule_id", scheduleID).Msg("schedule removed")
	return nil
}

// GetByID retrieves a schedule by ID.
func (s *ScheduleService) GetByID(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	var schedule *domain.Schedule
	err := s.store.View(ctx, func(state *repository.State) error {
		current := state.Schedules.Get(scheduleID)
		if current == nil {
			return domain.ErrScheduleNotFound
		}
		schedule = current.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// GetByUserID returns a user's schedules in insertion order.
func (s *ScheduleService) GetByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	var schedules []*domain.Schedule
	err := s.store.View(ctx, func(state *repository.State) error {
		for _, schedule := range state.Schedules.ByUser(userID) {
			schedules = append(schedules, schedule.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetAll returns every schedule in insertion order.
func (s *ScheduleService) GetAll(ctx context.Context) ([]*domain.Schedule, error) {
	var schedules []*domain.Schedule
	err := s.store.View(ctx, func(state *repository.State) error {
		for _, schedule := range state.Schedules.All() {
			schedules = append(schedules, schedule.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// RemoveAllByUserID deletes every schedule owned by the user. User removal
// cascades through the state set directly; this is the standalone variant
// for callers cleaning up without removing the user.
func (s *ScheduleService) RemoveAllByUserID(ctx context.Context, userID string) error {
	return s.store.Update(ctx, func(state *repository.State) error {
		state.Schedules.RemoveByUser(userID)
		return nil
	})
}
