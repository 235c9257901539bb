package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	accountStore "matchhub/internal/adapters/storage/account"
	"matchhub/internal/domain/account"
)

// AccountStoreForSync defines the store interface needed by SyncAccounts.
type AccountStoreForSync interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// AccountSeed is one user entry from auth.yaml.
type AccountSeed struct {
	Username     string
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

// SyncAccountsInput carries the users declared in auth.yaml.
type SyncAccountsInput struct {
	Users []AccountSeed
}

// SyncAccountsResult lists what changed.
type SyncAccountsResult struct {
	Created []string
	Updated []string
}

// SyncAccountsDeps holds dependencies for SyncAccounts.
type SyncAccountsDeps struct {
	AccountStore AccountStoreForSync
	Now          func() time.Time
}

var ErrInvalidPasswordHash = errors.New("password must be a bcrypt hash")

// ExecuteSyncAccounts upserts the auth.yaml users into the account store.
// Existing accounts keep their lockout counters.
// PRE: every seed carries a bcrypt hash
// POST: one account per seed; accounts not in the file are left alone
func ExecuteSyncAccounts(ctx context.Context, input SyncAccountsInput, deps SyncAccountsDeps) (SyncAccountsResult, error) {
	var result SyncAccountsResult
	seeds := append([]AccountSeed(nil), input.Users...)
	sort.Slice(seeds, func(i, j int) bool { return seeds[i].Username < seeds[j].Username })

	for _, seed := range seeds {
		username := strings.ToLower(strings.TrimSpace(seed.Username))
		if _, err := bcrypt.Cost([]byte(seed.PasswordHash)); err != nil {
			return result, fmt.Errorf("%s: %w", username, ErrInvalidPasswordHash)
		}
		role := seed.Role
		if role == "" {
			role = account.RoleUser
		}

		acct, err := deps.AccountStore.GetByUsername(ctx, username)
		created := errors.Is(err, accountStore.ErrNotFound)
		switch {
		case created:
			acct = account.Account{Username: username, CreatedAt: deps.Now()}
		case err != nil:
			return result, err
		}
		acct.Name = strings.TrimSpace(seed.Name)
		acct.Email = strings.TrimSpace(seed.Email)
		acct.PasswordHash = seed.PasswordHash
		acct.Role = role

		if err := acct.Validate(); err != nil {
			return result, fmt.Errorf("%s: %w", username, err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return result, err
		}
		if created {
			result.Created = append(result.Created, username)
		} else {
			result.Updated = append(result.Updated, username)
		}
	}

	slog.Info("auth_event", "event", "accounts_synced", "created", len(result.Created), "updated", len(result.Updated))
	return result, nil
}
