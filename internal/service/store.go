package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/kvstore"
	"github.com/xolan/locktime/internal/logging"
	"github.com/xolan/locktime/internal/storage"
)

// Store errors
var (
	ErrSameBackend         = errors.New("source and target backend are the same")
	ErrBackupsNotSupported = errors.New("backups are only kept by the file backend")
)

// StoreService provides health checks, migration and backup restore for
// the stored tracker state.
type StoreService struct {
	backends *backends
	backend  string
	state    storage.StateStore
	logger   *slog.Logger
}

func newStoreService(b *backends, backend string, state storage.StateStore, logger *slog.Logger) *StoreService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StoreService{backends: b, backend: backend, state: state, logger: logger}
}

// Backend returns the configured backend name.
func (s *StoreService) Backend() string {
	return s.backend
}

// Validate checks the stored state of user.
func (s *StoreService) Validate(ctx context.Context, user string) (ValidationResult, error) {
	h, err := storage.CheckHealth(ctx, s.state, user)
	if err != nil {
		return ValidationResult{}, err
	}
	if !h.Healthy() {
		s.logger.Warn("state has problems",
			slog.String("user", user),
			slog.Int("problems", len(h.Problems)),
			slog.Int("orphan_entries", h.OrphanEntries),
			slog.Int("dangling_events", h.DanglingEvents))
	}
	return ValidationResult{Health: h, Backend: s.backend}, nil
}

// Migrate copies tracker state, credentials and profiles from one backend
// to the other. With no users given every user of the source backend is
// copied, whether it has state, an account or both.
func (s *StoreService) Migrate(ctx context.Context, from, to string, users []string, overwrite bool) ([]storage.MigrateResult, error) {
	if from == to {
		return nil, fmt.Errorf("%w: %s", ErrSameBackend, from)
	}
	src, err := s.backends.state(from)
	if err != nil {
		return nil, err
	}
	dst, err := s.backends.state(to)
	if err != nil {
		return nil, err
	}
	srcAccounts, err := s.backends.accounts(from)
	if err != nil {
		return nil, err
	}
	dstAccounts, err := s.backends.accounts(to)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		if users, err = migrationUsers(ctx, src, srcAccounts); err != nil {
			return nil, err
		}
	}

	results := make([]storage.MigrateResult, 0, len(users))
	for _, user := range users {
		r, err := s.migrateUser(ctx, user, src, dst, srcAccounts, dstAccounts, overwrite)
		if err != nil {
			s.logger.Error("migration failed", slog.String("user", user), slog.String("error", err.Error()))
			return results, err
		}
		s.logger.Info("user migrated",
			slog.String("user", r.User),
			slog.String("from", from),
			slog.String("to", to),
			slog.Int("events", r.Events),
			slog.Bool("account", r.Account))
		results = append(results, r)
	}
	return results, nil
}

func (s *StoreService) migrateUser(ctx context.Context, user string, src, dst storage.StateStore, srcAccounts, dstAccounts kvstore.KV, overwrite bool) (storage.MigrateResult, error) {
	if !overwrite {
		exists, err := account.New(dstAccounts).Exists(ctx, user)
		if err != nil {
			return storage.MigrateResult{}, err
		}
		if exists {
			return storage.MigrateResult{}, fmt.Errorf("%w: account %s", storage.ErrTargetNotEmpty, user)
		}
	}
	results, err := storage.Migrate(ctx, src, dst, []string{user}, overwrite)
	if err != nil {
		return storage.MigrateResult{}, err
	}
	r := results[0]
	if r.Account, err = account.Transfer(ctx, srcAccounts, dstAccounts, user, overwrite); err != nil {
		return r, fmt.Errorf("copying account %s: %w", user, err)
	}
	return r, nil
}

// migrationUsers is every user with state or an account in the source.
func migrationUsers(ctx context.Context, state storage.StateStore, accounts kvstore.KV) ([]string, error) {
	withState, err := state.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	withAccount, err := account.New(accounts).Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	seen := make(map[string]bool, len(withState)+len(withAccount))
	var users []string
	for _, u := range append(withState, withAccount...) {
		if !seen[u] {
			seen[u] = true
			users = append(users, u)
		}
	}
	sort.Strings(users)
	return users, nil
}

func (s *StoreService) desktop() (*storage.DesktopStore, error) {
	d, ok := s.state.(*storage.DesktopStore)
	if !ok {
		return nil, ErrBackupsNotSupported
	}
	return d, nil
}

// Backups lists the backups of user's state file.
func (s *StoreService) Backups(user string) ([]storage.BackupInfo, error) {
	if err := storage.CheckUser(user); err != nil {
		return nil, err
	}
	d, err := s.desktop()
	if err != nil {
		return nil, err
	}
	return storage.ListBackups(d.Path(user))
}

// Restore replaces user's state file with backup n. The state is decoded
// first so a corrupt backup is rejected.
func (s *StoreService) Restore(ctx context.Context, user string, n int) error {
	if err := storage.CheckUser(user); err != nil {
		return err
	}
	d, err := s.desktop()
	if err != nil {
		return err
	}
	path := d.Path(user)
	if err := storage.CheckBackup(path, n); err != nil {
		return err
	}
	if err := storage.RestoreBackup(path, n); err != nil {
		return err
	}
	s.logger.Info("backup restored", slog.String("user", user), slog.Int("backup", n))
	return nil
}
