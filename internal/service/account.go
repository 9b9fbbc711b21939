package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/logging"
)

// AccountService provides registration, login and profile operations
type AccountService struct {
	manager *account.Manager
	logger  *slog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(manager *account.Manager, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AccountService{manager: manager, logger: logger}
}

// Register creates a new user.
func (s *AccountService) Register(ctx context.Context, user, password string) error {
	user = strings.TrimSpace(user)
	if err := s.manager.Register(ctx, user, password); err != nil {
		return err
	}
	s.logger.Info("user registered", slog.String("user", user))
	return nil
}

// Login verifies the credentials and makes user the current user.
func (s *AccountService) Login(ctx context.Context, user, password string, remember bool) error {
	user = strings.TrimSpace(user)
	if err := s.manager.Login(ctx, user, password, remember); err != nil {
		s.logger.Warn("login failed", slog.String("user", user), slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("user logged in", slog.String("user", user), slog.Bool("remember", remember))
	return nil
}

// Logout logs out the current user and returns who it was.
func (s *AccountService) Logout(ctx context.Context) (string, error) {
	user, err := s.manager.Current(ctx)
	if err != nil {
		return "", err
	}
	if err := s.manager.Logout(ctx); err != nil {
		return "", err
	}
	s.logger.Info("user logged out", slog.String("user", user))
	return user, nil
}

// Current returns the logged-in user or account.ErrNotLoggedIn.
func (s *AccountService) Current(ctx context.Context) (string, error) {
	return s.manager.Current(ctx)
}

// Remembered returns the remembered user, if any.
func (s *AccountService) Remembered(ctx context.Context) (string, bool, error) {
	return s.manager.Remembered(ctx)
}

// Users returns every registered user.
func (s *AccountService) Users(ctx context.Context) ([]string, error) {
	return s.manager.Users(ctx)
}

// Profile returns the profile of user.
func (s *AccountService) Profile(ctx context.Context, user string) (account.Profile, error) {
	return s.manager.LoadProfile(ctx, user)
}

// SaveProfile replaces the profile of user.
func (s *AccountService) SaveProfile(ctx context.Context, user string, p account.Profile) error {
	if err := s.manager.SaveProfile(ctx, user, p); err != nil {
		return err
	}
	s.logger.Info("profile saved", slog.String("user", user), slog.String("device", p.DeviceLabel()))
	return nil
}

// Whoami describes the current user.
type Whoami struct {
	User       string
	Profile    account.Profile
	Remembered bool
}

// Whoami returns the current user with their profile.
func (s *AccountService) Whoami(ctx context.Context) (Whoami, error) {
	user, err := s.manager.Current(ctx)
	if err != nil {
		return Whoami{}, err
	}
	p, err := s.manager.LoadProfile(ctx, user)
	if err != nil {
		return Whoami{}, err
	}
	remembered, ok, err := s.manager.Remembered(ctx)
	if err != nil {
		return Whoami{}, err
	}
	return Whoami{User: user, Profile: p, Remembered: ok && remembered == user}, nil
}
