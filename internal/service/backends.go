package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/xolan/locktime/internal/config"
	"github.com/xolan/locktime/internal/kvstore"
	"github.com/xolan/locktime/internal/storage"
)

// Files in the data directory.
const (
	DatabaseFile = "locktime.db"
	AccountsFile = "accounts.json"
)

// ErrUnknownBackend is returned for backend names other than file and kv.
var ErrUnknownBackend = errors.New("unknown storage backend")

// backends opens the stores below one data directory on first use.
type backends struct {
	dataDir  string
	sqlite   *kvstore.SQLite
	jsonFile *kvstore.JSONFile
}

func newBackends(dataDir string) *backends {
	return &backends{dataDir: dataDir}
}

func (b *backends) kv() (*kvstore.SQLite, error) {
	if b.sqlite == nil {
		db, err := kvstore.OpenSQLite(filepath.Join(b.dataDir, DatabaseFile))
		if err != nil {
			return nil, err
		}
		b.sqlite = db
	}
	return b.sqlite, nil
}

// state returns the tracker state store of the named backend.
func (b *backends) state(backend string) (storage.StateStore, error) {
	switch backend {
	case config.BackendFile:
		return storage.NewDesktopStore(b.dataDir), nil
	case config.BackendKV:
		db, err := b.kv()
		if err != nil {
			return nil, err
		}
		return storage.NewWebStore(db), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// accounts returns the key-value store holding credentials and profiles.
// The file backend keeps them in accounts.json, the kv backend in the
// same SQLite table as the tracker state.
func (b *backends) accounts(backend string) (kvstore.KV, error) {
	switch backend {
	case config.BackendFile:
		if b.jsonFile == nil {
			f, err := kvstore.OpenJSONFile(filepath.Join(b.dataDir, AccountsFile))
			if err != nil {
				return nil, err
			}
			b.jsonFile = f
		}
		return b.jsonFile, nil
	case config.BackendKV:
		return b.kv()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

func (b *backends) Close() error {
	var errs []error
	if b.sqlite != nil {
		errs = append(errs, b.sqlite.Close())
		b.sqlite = nil
	}
	if b.jsonFile != nil {
		errs = append(errs, b.jsonFile.Close())
		b.jsonFile = nil
	}
	return errors.Join(errs...)
}
