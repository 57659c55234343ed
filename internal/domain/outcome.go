package domain

// CredentialKind identifies which kind of credential was presented.
type CredentialKind string

const (
	// CredentialCode is a keypad PIN code.
	CredentialCode CredentialKind = "code"

	// CredentialTag is an RFID tag identifier.
	CredentialTag CredentialKind = "tag"
)

// Access decision reasons. These are stable machine codes carried in
// outcomes, events and API responses; presentation layers own any prose.
const (
	// ReasonInvalidCredential: no active user matched the presented value.
	ReasonInvalidCredential = "invalid_credential"

	// ReasonUserInactive: a user matched but is deactivated.
	ReasonUserInactive = "user_inactive"

	// ReasonNoSchedules: the user has no schedules and is unrestricted.
	ReasonNoSchedules = "no_schedules"

	// ReasonWithinSchedule: an active schedule window covers the current moment.
	ReasonWithinSchedule = "within_schedule"

	// ReasonOutsideSchedule: no active schedule window covers the current moment.
	ReasonOutsideSchedule = "outside_schedule"
)

// Outcome is the structured result of one access evaluation.
type Outcome struct {
	// Granted reports whether access was allowed.
	Granted bool `json:"granted"`

	// UserID identifies the matched user, empty when no user matched.
	UserID string `json:"user_id,omitempty"`

	// UserName is the matched user's display name, empty when no user matched.
	UserName string `json:"user_name,omitempty"`

	// Reason is one of the Reason* codes above.
	Reason string `json:"reason"`

	// Source is the caller-supplied origin of the attempt, e.g. "front_door".
	Source string `json:"source"`
}
