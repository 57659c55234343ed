package validation

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/pkg/crypto"
)

func strPtr(s string) *string { return &s }

// userWithCode builds an active user whose stored credential verifies
// against the given plaintext code.
func userWithCode(t *testing.T, hasher *crypto.Hasher, id, code string) *domain.User {
	t.Helper()
	hash, salt, err := hasher.EncryptCode(&code)
	if err != nil {
		t.Fatal(err)
	}
	user := domain.NewUser("User " + id)
	user.ID = id
	user.Credential = &domain.CodeCredential{Hash: *hash, Salt: *salt}
	return user
}

func userWithTag(id, tag string) *domain.User {
	user := domain.NewUser("User " + id)
	user.ID = id
	user.Tag = &tag
	return user
}

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind Kind
	}{
		{"valid", "Alice", ""},
		{"valid at min length", "Al", ""},
		{"valid at max length", strings.Repeat("a", 50), ""},
		{"valid cyrillic", strings.Repeat("д", 30), ""},
		{"valid multibyte at max length", strings.Repeat("é", 50), ""},
		{"empty", "", InvalidName},
		{"whitespace only", "   ", InvalidName},
		{"too short after trim", " A ", InvalidName},
		{"single multibyte rune", "é", InvalidName},
		{"too long", strings.Repeat("a", 51), InvalidName},
		{"too long multibyte", strings.Repeat("д", 51), InvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Name(tt.input)
			checkKind(t, err, tt.wantKind)
		})
	}
}

func TestCode(t *testing.T) {
	hasher := crypto.NewHasher(crypto.DefaultIterations)
	existing := userWithCode(t, hasher, "u1", "4321")
	users := map[string]*domain.User{"u1": existing}

	tests := []struct {
		name     string
		code     *string
		exclude  string
		wantKind Kind
	}{
		{"nil passes", nil, "", ""},
		{"valid four digits", strPtr("9876"), "", ""},
		{"valid eight digits", strPtr("12345678"), "", ""},
		{"blank", strPtr("   "), "", InvalidCode},
		{"too short", strPtr("123"), "", InvalidCode},
		{"too long", strPtr("123456789"), "", InvalidCode},
		{"non numeric", strPtr("12ab"), "", InvalidCode},
		{"duplicate of active user", strPtr("4321"), "", DuplicateCode},
		{"duplicate excluded for owner", strPtr("4321"), "u1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Code(tt.code, users, hasher, tt.exclude)
			checkKind(t, err, tt.wantKind)
		})
	}
}

func TestCode_InactiveUserDoesNotBlock(t *testing.T) {
	hasher := crypto.NewHasher(crypto.DefaultIterations)
	existing := userWithCode(t, hasher, "u1", "4321")
	existing.Active = false
	users := map[string]*domain.User{"u1": existing}

	if err := Code(strPtr("4321"), users, hasher, ""); err != nil {
		t.Errorf("code held by inactive user should be reusable, got %v", err)
	}
}

func TestTag(t *testing.T) {
	users := map[string]*domain.User{"u1": userWithTag("u1", "42")}

	tests := []struct {
		name     string
		tag      *string
		exclude  string
		wantKind Kind
	}{
		{"nil passes", nil, "", ""},
		{"valid", strPtr("7"), "", ""},
		{"valid at max", strPtr("9999"), "", ""},
		{"valid zero", strPtr("0"), "", ""},
		{"blank", strPtr(" "), "", InvalidTag},
		{"non numeric", strPtr("12a"), "", InvalidTag},
		{"negative", strPtr("-1"), "", InvalidTag},
		{"out of range", strPtr("10000"), "", InvalidTag},
		{"duplicate", strPtr("42"), "", DuplicateTag},
		{"duplicate excluded for owner", strPtr("42"), "u1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Tag(tt.tag, users, tt.exclude)
			checkKind(t, err, tt.wantKind)
		})
	}
}

func TestHasAccessMethod(t *testing.T) {
	withTag := userWithTag("u1", "42")
	if err := HasAccessMethod(withTag); err != nil {
		t.Errorf("user with tag: %v", err)
	}

	bare := domain.NewUser("Bare")
	err := HasAccessMethod(bare)
	checkKind(t, err, MissingAccessMethod)
}

func TestUser_Composite(t *testing.T) {
	hasher := crypto.NewHasher(crypto.DefaultIterations)
	logger := zerolog.Nop()

	existing := userWithTag("u1", "42")
	users := map[string]*domain.User{"u1": existing}

	candidate := userWithTag("u2", "7")
	if err := User(logger, candidate, users, hasher, nil, strPtr("7")); err != nil {
		t.Errorf("valid candidate rejected: %v", err)
	}

	dupe := userWithTag("u3", "42")
	err := User(logger, dupe, users, hasher, nil, strPtr("42"))
	checkKind(t, err, DuplicateTag)

	noMethod := domain.NewUser("Nobody")
	err = User(logger, noMethod, users, hasher, nil, nil)
	checkKind(t, err, MissingAccessMethod)
}

func TestSchedule(t *testing.T) {
	valid := func() *domain.Schedule {
		return &domain.Schedule{
			ID:        "s1",
			UserID:    "u1",
			DayOfWeek: 2,
			StartTime: "09:00:00",
			EndTime:   "17:00:00",
			Active:    true,
		}
	}

	tests := []struct {
		name     string
		mutate   func(*domain.Schedule)
		wantKind Kind
	}{
		{"valid", func(s *domain.Schedule) {}, ""},
		{"monday", func(s *domain.Schedule) { s.DayOfWeek = 0 }, ""},
		{"sunday", func(s *domain.Schedule) { s.DayOfWeek = 6 }, ""},
		{"day too low", func(s *domain.Schedule) { s.DayOfWeek = -1 }, InvalidSchedule},
		{"day too high", func(s *domain.Schedule) { s.DayOfWeek = 7 }, InvalidSchedule},
		{"bad start format", func(s *domain.Schedule) { s.StartTime = "9:00:00" }, InvalidSchedule},
		{"bad end format", func(s *domain.Schedule) { s.EndTime = "17:00" }, InvalidSchedule},
		{"hour out of range", func(s *domain.Schedule) { s.StartTime = "24:00:00" }, InvalidSchedule},
		{"minute out of range", func(s *domain.Schedule) { s.StartTime = "09:60:00" }, InvalidSchedule},
		{"start equals end", func(s *domain.Schedule) { s.EndTime = s.StartTime }, InvalidSchedule},
		{"start after end", func(s *domain.Schedule) { s.StartTime = "18:00:00" }, InvalidSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := Schedule(s)
			checkKind(t, err, tt.wantKind)
		})
	}
}

func TestIsKind(t *testing.T) {
	err := Name("")
	if !IsKind(err, InvalidName) {
		t.Error("IsKind(err, InvalidName) = false")
	}
	if IsKind(err, InvalidCode) {
		t.Error("IsKind(err, InvalidCode) = true")
	}
	if IsKind(nil, InvalidName) {
		t.Error("IsKind(nil, InvalidName) = true")
	}
}

func checkKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if want == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Errorf("expected %s error, got nil", want)
		return
	}
	if !IsKind(err, want) {
		t.Errorf("expected kind %s, got %v", want, err)
	}
}
