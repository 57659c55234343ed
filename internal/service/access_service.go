package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/event"
	"github.com/openlatch/openlatch/internal/metrics"
)

// AccessService is the access evaluator: it combines credential resolution,
// the active flag and schedule gating into one structured outcome, and
// emits an event for every attempt.
type AccessService struct {
	users     *UserService
	schedules *ScheduleService
	publisher event.Publisher
	logger    zerolog.Logger

	// now is injected so schedule gating is testable at fixed instants.
	now func() time.Time
}

// NewAccessService creates a new AccessService.
func NewAccessService(users *UserService, schedules *ScheduleService,
	publisher event.Publisher, logger zerolog.Logger) *AccessService {
	return &AccessService{
		users:     users,
		schedules: schedules,
		publisher: publisher,
		logger:    logger.With().Str("service", "access").Logger(),
		now:       time.Now,
	}
}

// WithNow overrides the evaluator's clock. Test hook.
func (s *AccessService) WithNow(now func() time.Time) *AccessService {
	s.now = now
	return s
}

// Evaluate decides whether the presented credential grants access right
// now. Expected denials are outcomes, not errors; only infrastructure
// failures (storage unavailable) return a non-nil error.
func (s *AccessService) Evaluate(ctx context.Context, kind domain.CredentialKind,
	value, source string) (*domain.Outcome, error) {
	user, err := s.resolve(ctx, kind, value)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return s.finish(kind, &domain.Outcome{
			Granted: false,
			Reason:  domain.ReasonInvalidCredential,
			Source:  source,
		}), nil
	}

	// Credential lookups only scan active users, but the flag is checked
	// again so a direct evaluation against a resolved user stays closed.
	if !user.Active {
		return s.finish(kind, &domain.Outcome{
			Granted:  false,
			UserID:   user.ID,
			UserName: user.Name,
			Reason:   domain.ReasonUserInactive,
			Source:   source,
		}), nil
	}

	granted, reason, err := s.checkSchedules(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	outcome := &domain.Outcome{
		Granted:  granted,
		UserID:   user.ID,
		UserName: user.Name,
		Reason:   reason,
		Source:   source,
	}

	if granted {
		if err := s.users.TouchLastUsed(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	return s.finish(kind, outcome), nil
}

// resolve maps the credential to an active user, or nil on miss.
func (s *AccessService) resolve(ctx context.Context, kind domain.CredentialKind, value string) (*domain.User, error) {
	switch kind {
	case domain.CredentialTag:
		return s.users.GetByTag(ctx, value)
	default:
		return s.users.GetByCode(ctx, value)
	}
}

// checkSchedules evaluates the user's weekly windows at the current moment.
// Zero schedules means unrestricted access. Active schedules are scanned in
// storage order and the first window covering the moment wins; there is no
// precedence rule beyond list order.
func (s *AccessService) checkSchedules(ctx context.Context, userID string) (bool, string, error) {
	schedules, err := s.schedules.GetByUserID(ctx, userID)
	if err != nil {
		return false, "", err
	}
	if len(schedules) == 0 {
		return true, domain.ReasonNoSchedules, nil
	}

	now := s.now().UTC()
	// time.Weekday starts at Sunday; schedules count 0=Monday.
	dayOfWeek := (int(now.Weekday()) + 6) % 7
	clock := now.Format("15:04:05")

	for _, schedule := range schedules {
		if schedule.Covers(dayOfWeek, clock) {
			return true, domain.ReasonWithinSchedule, nil
		}
	}
	return false, domain.ReasonOutsideSchedule, nil
}

// finish records metrics, emits the attempt event and logs the outcome.
func (s *AccessService) finish(kind domain.CredentialKind, outcome *domain.Outcome) *domain.Outcome {
	metrics.ObserveValidation(string(kind), outcome.Granted, outcome.Reason)

	eventType := event.TypeFailed
	if outcome.Granted {
		eventType = event.TypeValidated
	}
	s.publisher.Publish(event.Event{
		Type:      eventType,
		UserID:    outcome.UserID,
		UserName:  outcome.UserName,
		Source:    outcome.Source,
		Reason:    outcome.Reason,
		Timestamp: s.now().UTC(),
	})

	s.logger.Info().
		Str("method", string(kind)).
		Bool("granted", outcome.Granted).
		Str("reason", outcome.Reason).
		Str("source", outcome.Source).
		Str("user_id", outcome.UserID).
		Msg("access evaluated")

	return outcome
}
