// Package validation provides the pure rule checks for Openlatch entities.
// All functions are side-effect free and signal failures through a kinded
// *Error so callers can distinguish what was violated.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/pkg/crypto"
)

// Entity constraints.
const (
	MinNameLength = 2
	MaxNameLength = 50
	MinCodeLength = 4
	MaxCodeLength = 8
	MinTagValue   = 0
	MaxTagValue   = 9999
	MaxDayOfWeek  = 6 // 0=Monday, 6=Sunday
)

var (
	codeRe = regexp.MustCompile(`^[0-9]{4,8}$`)
	tagRe  = regexp.MustCompile(`^[0-9]+$`)
	// Zero-padded HH so lexicographic time comparison is sound.
	timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)
)

// Kind identifies which rule a validation failure violated.
type Kind string

const (
	InvalidName         Kind = "invalid_name"
	InvalidCode         Kind = "invalid_code"
	InvalidTag          Kind = "invalid_tag"
	DuplicateCode       Kind = "duplicate_code"
	DuplicateTag        Kind = "duplicate_tag"
	MissingAccessMethod Kind = "missing_access_method"
	InvalidSchedule     Kind = "invalid_schedule"
)

// Error is a caller-correctable validation failure.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a validation Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var verr *Error
	return errors.As(err, &verr) && verr.Kind == kind
}

// Name checks a user display name: non-blank, 2-50 characters after trimming.
// Length counts characters, not bytes, so non-ASCII names are measured the
// same way a person would count them.
func Name(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return newError(InvalidName, "user name cannot be empty")
	}
	length := utf8.RuneCountInString(trimmed)
	if length < MinNameLength {
		return newError(InvalidName, "user name must be at least %d characters", MinNameLength)
	}
	if length > MaxNameLength {
		return newError(InvalidName, "user name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// Code checks a plaintext keypad code. A nil code passes trivially.
// Uniqueness is established by re-verifying the candidate against every
// other active user's stored hash/salt pair, since only hashes are stored.
func Code(code *string, users map[string]*domain.User, hasher *crypto.Hasher, excludeUserID string) error {
	if code == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return newError(InvalidCode, "code cannot be empty if provided")
	}
	if !codeRe.MatchString(trimmed) {
		return newError(InvalidCode, "code must be %d-%d digits", MinCodeLength, MaxCodeLength)
	}
	for id, user := range users {
		if id == excludeUserID {
			continue
		}
		if user.Active && user.HasCode() &&
			hasher.VerifyCode(trimmed, user.Credential.Hash, user.Credential.Salt) {
			return newError(DuplicateCode, "code is already assigned")
		}
	}
	return nil
}

// Tag checks an RFID tag. A nil tag passes trivially. Tags are not secret,
// so uniqueness is a plain string comparison among active users.
func Tag(tag *string, users map[string]*domain.User, excludeUserID string) error {
	if tag == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*tag)
	if trimmed == "" {
		return newError(InvalidTag, "tag cannot be empty if provided")
	}
	if !tagRe.MatchString(trimmed) {
		return newError(InvalidTag, "tag must be a number")
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil || value < MinTagValue || value > MaxTagValue {
		return newError(InvalidTag, "tag must be a number from %d to %d", MinTagValue, MaxTagValue)
	}
	for id, user := range users {
		if id == excludeUserID {
			continue
		}
		if user.Active && user.HasTag() && *user.Tag == trimmed {
			return newError(DuplicateTag, "tag is already assigned")
		}
	}
	return nil
}

// HasAccessMethod checks that the user retains at least one way in.
func HasAccessMethod(user *domain.User) error {
	if !user.HasAccessMethod() {
		return newError(MissingAccessMethod, "user must have either a code or a tag")
	}
	return nil
}

// User validates a fully constructed candidate user against the current
// user set. Plaintext code/tag are passed separately when the mutation
// changed them, so uniqueness can be re-checked. Failures are logged and
// returned; user-visible surfacing is the caller's job.
func User(logger zerolog.Logger, user *domain.User, users map[string]*domain.User,
	hasher *crypto.Hasher, code, tag *string) error {
	err := validateUser(user, users, hasher, code, tag)
	if err != nil {
		logger.Error().Err(err).Str("user_id", user.ID).Msg("user validation failed")
	}
	return err
}

func validateUser(user *domain.User, users map[string]*domain.User,
	hasher *crypto.Hasher, code, tag *string) error {
	if err := Name(user.Name); err != nil {
		return err
	}
	if err := HasAccessMethod(user); err != nil {
		return err
	}
	if code != nil {
		if err := Code(code, users, hasher, user.ID); err != nil {
			return err
		}
	}
	if tag != nil {
		if err := Tag(tag, users, user.ID); err != nil {
			return err
		}
	}
	return nil
}

// Schedule validates a schedule record: weekday range, strict HH:MM:SS
// time format and a non-empty window.
func Schedule(s *domain.Schedule) error {
	if s.DayOfWeek < 0 || s.DayOfWeek > MaxDayOfWeek {
		return newError(InvalidSchedule, "day of week must be between 0 (Monday) and %d (Sunday)", MaxDayOfWeek)
	}
	if !timeRe.MatchString(s.StartTime) {
		return newError(InvalidSchedule, "start time must be in HH:MM:SS format")
	}
	if !timeRe.MatchString(s.EndTime) {
		return newError(InvalidSchedule, "end time must be in HH:MM:SS format")
	}
	if s.StartTime >= s.EndTime {
		return newError(InvalidSchedule, "start time must be before end time")
	}
	return nil
}
