package account_test

import (
	"testing"
	"time"

	"matchhub/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{
			name:    "valid user",
			account: account.Account{Username: "martin", Name: "Martin", Email: "martin@example.com", Role: account.RoleUser},
			wantErr: false,
		},
		{
			name:    "valid admin without email",
			account: account.Account{Username: "christoph", Role: account.RoleAdmin},
			wantErr: false,
		},
		{
			name:    "uppercase username",
			account: account.Account{Username: "Martin", Role: account.RoleUser},
			wantErr: true,
		},
		{
			name:    "single letter username",
			account: account.Account{Username: "m", Role: account.RoleUser},
			wantErr: true,
		},
		{
			name:    "email without at sign",
			account: account.Account{Username: "martin", Email: "martin.example.com", Role: account.RoleUser},
			wantErr: true,
		},
		{
			name:    "invalid role",
			account: account.Account{Username: "martin", Role: "coach"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPasswordAndCheck tests the bcrypt round trip.
func TestAccount_SetPasswordAndCheck(t *testing.T) {
	a := account.Account{Username: "martin", Role: account.RoleUser}
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := a.SetPassword("martin-secret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := a.CheckPassword("martin-secret"); err != nil {
		t.Errorf("expected password to match, got %v", err)
	}
	if err := a.CheckPassword("wrong-secret"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout tests that five failures lock the account for 15 minutes.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC)
	a := account.Account{Username: "martin", Role: account.RoleUser}
	for i := 0; i < 4; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("account should not be locked after 4 failures")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now.Add(time.Minute)) {
		t.Fatal("account should be locked after 5 failures")
	}
	if a.IsLocked(now.Add(16 * time.Minute)) {
		t.Error("lock should expire after 15 minutes")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || !a.LockedUntil.IsZero() {
		t.Errorf("expected reset counters, got %d / %v", a.FailedLogins, a.LockedUntil)
	}
}

// TestAccount_DisplayName falls back to the username.
func TestAccount_DisplayName(t *testing.T) {
	a := account.Account{Username: "christoph"}
	if got := a.DisplayName(); got != "christoph" {
		t.Errorf("DisplayName() = %q, want christoph", got)
	}
	a.Name = "Christoph"
	if got := a.DisplayName(); got != "Christoph" {
		t.Errorf("DisplayName() = %q, want Christoph", got)
	}
}
