package account

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MaxNameLength     = 80
	MinPasswordLength = 8
	passwordCost      = 12
)

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleUser}

var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,31}$`)

// Domain errors
var (
	ErrInvalidUsername  = errors.New("username must be 2-32 lowercase letters, digits, '-' or '_'")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrInvalidRole      = errors.New("role must be one of: admin, user")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// Account is one of the named people who use the app.
// The username doubles as the primary key and as the owner key on every JSON file.
type Account struct {
	Username     string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if !usernamePattern.MatchString(a.Username) {
		return ErrInvalidUsername
	}
	if len(a.Name) > MaxNameLength {
		return errors.New("name cannot exceed 80 characters")
	}
	if a.Email != "" {
		if len(a.Email) > MaxEmailLength {
			return errors.New("email cannot exceed 254 characters")
		}
		if !strings.Contains(a.Email, "@") {
			return ErrInvalidEmail
		}
	}
	if !isValidRole(a.Role) {
		return ErrInvalidRole
	}
	return nil
}

// DisplayName returns the name if set, otherwise the username.
func (a *Account) DisplayName() string {
	if strings.TrimSpace(a.Name) != "" {
		return a.Name
	}
	return a.Username
}

// HashPassword returns a bcrypt hash suitable for auth.yaml.
// PRE: plaintext is at least MinPasswordLength characters
// POST: returns a bcrypt hash with cost 12
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SetPassword hashes and stores a password.
// PRE: plaintext is non-empty and >= MinPasswordLength characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	hash, err := HashPassword(plaintext)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked(now time.Time) bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return now.Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after 5 failures.
// PRE: Account exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (a *Account) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= 5 {
		a.LockedUntil = now.Add(15 * time.Minute)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// PRE: Account exists
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
