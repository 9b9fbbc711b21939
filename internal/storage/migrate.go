package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrTargetNotEmpty is returned by Migrate when the target already holds
// state for a user and overwriting was not requested.
var ErrTargetNotEmpty = errors.New("target store already has state for this user")

// MigrateResult reports what was copied for one user.
type MigrateResult struct {
	User   string
	Events int
	Active bool
	// Account is set when the credential record and profile were copied
	// as well. Migrate itself only copies state.
	Account bool
}

// Migrate copies the state of each user from one store to another. With
// no users given, every user found in from is migrated. It stops at the
// first failure and returns the results so far.
func Migrate(ctx context.Context, from, to StateStore, users []string, overwrite bool) ([]MigrateResult, error) {
	if len(users) == 0 {
		var err error
		users, err = from.Users(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}
	}

	results := make([]MigrateResult, 0, len(users))
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		state, err := from.Load(ctx, user)
		if err != nil {
			return results, fmt.Errorf("loading %s: %w", user, err)
		}

		if !overwrite {
			existing, err := to.Load(ctx, user)
			if err != nil {
				return results, fmt.Errorf("checking target for %s: %w", user, err)
			}
			if existing.IsActive() || len(existing.Events) > 0 {
				return results, fmt.Errorf("%w: %s", ErrTargetNotEmpty, user)
			}
		}

		if err := to.Save(ctx, user, state); err != nil {
			return results, fmt.Errorf("saving %s: %w", user, err)
		}
		results = append(results, MigrateResult{User: user, Events: len(state.Events), Active: state.IsActive()})
	}
	return results, nil
}
