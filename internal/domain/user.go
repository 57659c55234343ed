// Package domain contains the core business entities for Openlatch.
// These are pure Go structs with no infrastructure dependencies,
// representing the fundamental concepts of the access-control system.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// CodeCredential is the stored form of a keypad PIN code. The plaintext
// code is never persisted; only the salted PBKDF2 hash survives. Hash and
// salt always travel together: a user either has a full credential or none.
type CodeCredential struct {
	// Hash is the hex-encoded PBKDF2-HMAC-SHA256 digest of the code.
	Hash string `json:"hash"`

	// Salt is the hex-encoded random salt the hash was derived with.
	Salt string `json:"salt"`
}

// User represents a person who may be granted access at an entry point.
// A user authenticates with a keypad code, an RFID tag, or both; at least
// one of the two must be present after any mutation.
type User struct {
	// ID is the opaque unique identifier, assigned at creation, immutable.
	ID string `json:"id"`

	// Name is the display name. Constraints: 2-50 characters after trimming.
	Name string `json:"name"`

	// Credential holds the hashed keypad code, or nil if no code is set.
	Credential *CodeCredential `json:"credential,omitempty"`

	// Tag is the RFID tag identifier (digits, 0-9999), or nil if unset.
	// Tags are not secret and are stored in plain text.
	Tag *string `json:"tag,omitempty"`

	// Active indicates whether the user may be granted access.
	// Inactive users never match a presented credential.
	Active bool `json:"active"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// LastUsedAt is the timestamp of the last successful validation,
	// or nil if the user has never been granted access.
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// NewUser creates a User with a fresh ID and stamped timestamps.
// Credential and tag are attached by the caller before validation.
func NewUser(name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasCode returns true if the user has a stored code credential.
func (u *User) HasCode() bool {
	return u.Credential != nil && u.Credential.Hash != "" && u.Credential.Salt != ""
}

// HasTag returns true if the user has an RFID tag assigned.
func (u *User) HasTag() bool {
	return u.Tag != nil && *u.Tag != ""
}

// HasAccessMethod returns true if the user can authenticate at all.
func (u *User) HasAccessMethod() bool {
	return u.HasCode() || u.HasTag()
}

// Clone returns a deep copy of the user. Updates operate on a clone so the
// fully reconstructed candidate can be validated before replacing the
// stored entity.
func (u *User) Clone() *User {
	clone := *u
	if u.Credential != nil {
		cred := *u.Credential
		clone.Credential = &cred
	}
	if u.Tag != nil {
		tag := *u.Tag
		clone.Tag = &tag
	}
	if u.LastUsedAt != nil {
		t := *u.LastUsedAt
		clone.LastUsedAt = &t
	}
	return &clone
}
