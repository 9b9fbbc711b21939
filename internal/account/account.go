// Package account manages user credentials, the logged-in and remembered
// user, and user profiles. Everything is kept in a kvstore.KV under the
// keys the browser client used: users, currentUser, rememberedUser and
// profile_<user>.
package account

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xolan/locktime/internal/kvstore"
)

// Account errors
var (
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrInvalidUsername    = errors.New("username may not contain path separators")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("no user is logged in")
)

// Keys in the store.
const (
	UsersKey          = "users"
	CurrentUserKey    = "currentUser"
	RememberedUserKey = "rememberedUser"
	ProfileKeyPrefix  = "profile_"
)

// Credential is the stored record of one user. Password holds the unsalted
// SHA-256 hex digest written by the browser client; it is replaced by a
// bcrypt PasswordHash on the first successful login.
type Credential struct {
	Username     string `json:"username,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Password     string `json:"password,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

// Manager performs account operations against a KV store.
type Manager struct {
	kv   kvstore.KV
	now  func() time.Time
	cost int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithCost sets the bcrypt cost.
func WithCost(cost int) Option {
	return func(m *Manager) { m.cost = cost }
}

// New returns a Manager over kv.
func New(kv kvstore.KV, opts ...Option) *Manager {
	m := &Manager{kv: kv, now: time.Now, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CheckUsername validates a username for use as a key suffix and directory name.
func CheckUsername(user string) error {
	if strings.TrimSpace(user) == "" {
		return ErrEmptyUsername
	}
	if user == "." || user == ".." || strings.ContainsAny(user, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, user)
	}
	return nil
}

func (m *Manager) users(ctx context.Context) (map[string]Credential, error) {
	users := map[string]Credential{}
	if _, err := kvstore.GetJSON(ctx, m.kv, UsersKey, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = map[string]Credential{}
	}
	return users, nil
}

// Register creates a user with a bcrypt-hashed password.
func (m *Manager) Register(ctx context.Context, user, password string) error {
	if err := CheckUsername(user); err != nil {
		return err
	}
	if password == "" {
		return ErrEmptyPassword
	}

	users, err := m.users(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[user]; ok {
		return fmt.Errorf("%w: %s", ErrUserExists, user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	users[user] = Credential{
		PasswordHash: string(hash),
		CreatedAt:    m.now().UTC().Format(time.RFC3339),
	}
	return kvstore.SetJSON(ctx, m.kv, UsersKey, users)
}

// Login verifies the password and makes user the current user. With
// remember set the user is also remembered; otherwise any remembered user
// is forgotten.
func (m *Manager) Login(ctx context.Context, user, password string, remember bool) error {
	users, err := m.users(ctx)
	if err != nil {
		return err
	}
	cred, ok := users[user]
	if !ok {
		return ErrInvalidCredentials
	}

	switch {
	case cred.PasswordHash != "":
		if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
			return ErrInvalidCredentials
		}
	case cred.Password != "":
		if !legacyMatch(cred.Password, password) {
			return ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		cred.PasswordHash = string(hash)
		cred.Password = ""
		users[user] = cred
		if err := kvstore.SetJSON(ctx, m.kv, UsersKey, users); err != nil {
			return err
		}
	default:
		return ErrInvalidCredentials
	}

	if err := m.kv.Set(ctx, CurrentUserKey, user); err != nil {
		return err
	}
	if remember {
		return m.kv.Set(ctx, RememberedUserKey, user)
	}
	return m.kv.Delete(ctx, RememberedUserKey)
}

func legacyMatch(digest, password string) bool {
	sum := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(strings.ToLower(digest))) == 1
}

// Logout clears the current user. The remembered user is kept.
func (m *Manager) Logout(ctx context.Context) error {
	return m.kv.Delete(ctx, CurrentUserKey)
}

// Current returns the logged-in user or ErrNotLoggedIn.
func (m *Manager) Current(ctx context.Context) (string, error) {
	user, ok, err := m.kv.Get(ctx, CurrentUserKey)
	if err != nil {
		return "", err
	}
	if !ok || user == "" {
		return "", ErrNotLoggedIn
	}
	return user, nil
}

// Remembered returns the remembered user, if any.
func (m *Manager) Remembered(ctx context.Context) (string, bool, error) {
	user, ok, err := m.kv.Get(ctx, RememberedUserKey)
	if err != nil || !ok || user == "" {
		return "", false, err
	}
	return user, true, nil
}

// Exists reports whether user is registered.
func (m *Manager) Exists(ctx context.Context, user string) (bool, error) {
	users, err := m.users(ctx)
	if err != nil {
		return false, err
	}
	_, ok := users[user]
	return ok, nil
}

// Users returns all registered usernames in order.
func (m *Manager) Users(ctx context.Context) ([]string, error) {
	users, err := m.users(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreatedAt returns when user registered.
func (m *Manager) CreatedAt(ctx context.Context, user string) (time.Time, error) {
	users, err := m.users(ctx)
	if err != nil {
		return time.Time{}, err
	}
	cred, ok := users[user]
	if !ok {
		return time.Time{}, ErrInvalidCredentials
	}
	return time.Parse(time.RFC3339Nano, cred.CreatedAt)
}

// Transfer copies the credential record and profile of user from src to
// dst, along with the current and remembered markers when they name user
// and dst has none. Without overwrite an existing record in dst is
// ErrUserExists. It returns false when src has no record for user.
func Transfer(ctx context.Context, src, dst kvstore.KV, user string, overwrite bool) (bool, error) {
	from, to := New(src), New(dst)
	srcUsers, err := from.users(ctx)
	if err != nil {
		return false, err
	}
	cred, ok := srcUsers[user]
	if !ok {
		return false, nil
	}
	dstUsers, err := to.users(ctx)
	if err != nil {
		return false, err
	}
	if _, exists := dstUsers[user]; exists && !overwrite {
		return false, fmt.Errorf("%w: %s", ErrUserExists, user)
	}
	dstUsers[user] = cred
	if err := kvstore.SetJSON(ctx, dst, UsersKey, dstUsers); err != nil {
		return false, err
	}

	profileKey := ProfileKeyPrefix + user
	raw, ok, err := src.Get(ctx, profileKey)
	switch {
	case err != nil:
		return false, err
	case ok:
		err = dst.Set(ctx, profileKey, raw)
	default:
		err = dst.Delete(ctx, profileKey)
	}
	if err != nil {
		return false, err
	}

	for _, marker := range []string{CurrentUserKey, RememberedUserKey} {
		if err := copyMarker(ctx, src, dst, marker, user, overwrite); err != nil {
			return false, err
		}
	}
	return true, nil
}

func copyMarker(ctx context.Context, src, dst kvstore.KV, key, user string, overwrite bool) error {
	v, ok, err := src.Get(ctx, key)
	if err != nil || !ok || v != user {
		return err
	}
	existing, ok, err := dst.Get(ctx, key)
	if err != nil {
		return err
	}
	if ok && existing != "" && !overwrite {
		return nil
	}
	return dst.Set(ctx, key, user)
}
