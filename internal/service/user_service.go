// Package service provides the business logic services for Openlatch.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/pkg/crypto"
	"github.com/openlatch/openlatch/internal/repository"
	"github.com/openlatch/openlatch/internal/validation"
)

// UserService handles user management: creation, partial updates, removal
// with schedule cascade, and credential lookups. Every mutation validates
// the fully reconstructed candidate entity before any write, so an invalid
// request never leaves a partial mutation.
type UserService struct {
	store  *repository.Store
	hasher *crypto.Hasher
	logger zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store *repository.Store, hasher *crypto.Hasher, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// CreateUserInput contains the data needed to create a user.
type CreateUserInput struct {
	Name string

	// Code is the plaintext keypad code, hashed before storage. Optional.
	Code *string

	// Tag is the RFID tag identifier. Optional.
	Tag *string

	// Active defaults to true when nil.
	Active *bool
}

// Create creates a new user with a generated ID and stamped timestamps.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	code := normalizeOptional(input.Code)
	tag := normalizeOptional(input.Tag)

	user := domain.NewUser(input.Name)
	if input.Active != nil {
		user.Active = *input.Active
	}
	user.Tag = tag

	if code != nil {
		hash, salt, err := s.hasher.EncryptCode(code)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash code")
			return nil, ErrInternalError
		}
		user.Credential = &domain.CodeCredential{Hash: *hash, Salt: *salt}
	}

	err := s.store.Update(ctx, func(state *repository.State) error {
		if err := validation.User(s.logger, user, state.Users, s.hasher, code, tag); err != nil {
			return err
		}
		state.Users[user.ID] = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("name", user.Name).
		Bool("has_code", user.HasCode()).
		Bool("has_tag", user.HasTag()).
		Msg("user created")

	return user.Clone(), nil
}

// UpdateName changes a user's display name.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	return s.applyUpdate(ctx, userID, nil, nil, func(candidate *domain.User) {
		candidate.Name = name
	})
}

// UpdateCode replaces a user's keypad code. A nil or empty code removes the
// credential entirely; removal still must leave one access method behind.
// Whitespace-only input is rejected as an invalid code, not a removal.
func (s *UserService) UpdateCode(ctx context.Context, userID string, code *string) (*domain.User, error) {
	code = normalizeOptional(code)

	var credential *domain.CodeCredential
	if code != nil {
		hash, salt, err := s.hasher.EncryptCode(code)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash code")
			return nil, ErrInternalError
		}
		credential = &domain.CodeCredential{Hash: *hash, Salt: *salt}
	}

	return s.applyUpdate(ctx, userID, code, nil, func(candidate *domain.User) {
		candidate.Credential = credential
	})
}

// UpdateTag replaces a user's RFID tag. A nil or empty tag removes it;
// whitespace-only input is rejected as an invalid tag.
func (s *UserService) UpdateTag(ctx context.Context, userID string, tag *string) (*domain.User, error) {
	tag = normalizeOptional(tag)
	return s.applyUpdate(ctx, userID, nil, tag, func(candidate *domain.User) {
		candidate.Tag = tag
	})
}

// SetActive sets the active flag. Inactive users never match a credential.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	return s.applyUpdate(ctx, userID, nil, nil, func(candidate *domain.User) {
		candidate.Active = active
	})
}

// applyUpdate implements the fetch-clone-modify-validate-persist pattern
// shared by every partial update. The whole candidate is re-validated, not
// just the changed field, to catch cross-field violations such as removing
// the last access method.
func (s *UserService) applyUpdate(ctx context.Context, userID string, code, tag *string,
	modify func(*domain.User)) (*domain.User, error) {
	var updated *domain.User

	err := s.store.Update(ctx, func(state *repository.State) error {
		current, ok := state.Users[userID]
		if !ok {
			return domain.ErrUserNotFound
		}

		candidate := current.Clone()
		modify(candidate)
		candidate.UpdatedAt = time.Now().UTC()

		if err := validation.User(s.logger, candidate, state.Users, s.hasher, code, tag); err != nil {
			return err
		}

		state.Users[userID] = candidate
		updated = candidate.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("user updated")
	return updated, nil
}

// TouchLastUsed stamps last_used_at and updated_at after a successful
// validation. No re-validation: the entity is structurally unchanged.
func (s *UserService) TouchLastUsed(ctx context.Context, userID string) error {
	return s.store.Update(ctx, func(state *repository.State) error {
		current, ok := state.Users[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		candidate := current.Clone()
		now := time.Now().UTC()
		candidate.UpdatedAt = now
		candidate.LastUsedAt = &now
		state.Users[userID] = candidate
		return nil
	})
}

// Remove deletes a user and cascades to every schedule they own.
// Removing an absent user is a no-op, not an error.
func (s *UserService) Remove(ctx context.Context, userID string) error {
	removed := false
	err := s.store.Update(ctx, func(state *repository.State) error {
		if _, ok := state.Users[userID]; !ok {
			return nil
		}
		delete(state.Users, userID)
		cascaded := state.Schedules.RemoveByUser(userID)
		removed = true
		if cascaded > 0 {
			s.logger.Info().Str("user_id", userID).Int("schedules", cascaded).
				Msg("cascaded schedule removal")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if removed {
		s.logger.Info().Str("user_id", userID).Msg("user removed")
	}
	return nil
}

// GetByID retrieves a user by ID. Absence is an error here, in contrast
// with the credential lookups below.
func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var user *domain.User
	err := s.store.View(ctx, func(state *repository.State) error {
		current, ok := state.Users[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		user = current.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByCode resolves an active user by verifying the presented code against
// each stored hash/salt pair. Returns nil, nil on miss.
func (s *UserService) GetByCode(ctx context.Context, code string) (*domain.User, error) {
	var match *domain.User
	err := s.store.View(ctx, func(state *repository.State) error {
		for _, user := range state.Users {
			if !user.Active || !user.HasCode() {
				continue
			}
			if s.hasher.VerifyCode(code, user.Credential.Hash, user.Credential.Salt) {
				match = user.Clone()
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// GetByTag resolves an active user by exact tag match. Returns nil, nil on miss.
func (s *UserService) GetByTag(ctx context.Context, tag string) (*domain.User, error) {
	var match *domain.User
	err := s.store.View(ctx, func(state *repository.State) error {
		for _, user := range state.Users {
			if !user.Active || !user.HasTag() {
				continue
			}
			if *user.Tag == tag {
				match = user.Clone()
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// GetAll returns a copy of the full user map keyed by ID.
func (s *UserService) GetAll(ctx context.Context) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User)
	err := s.store.View(ctx, func(state *repository.State) error {
		for id, user := range state.Users {
			users[id] = user.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// normalizeOptional trims an optional string. An empty string collapses to
// nil, the removal path; a whitespace-only value is kept as-is so it flows
// into validation and fails there rather than silently unsetting anything.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		if *value == "" {
			return nil
		}
		return value
	}
	return &trimmed
}
