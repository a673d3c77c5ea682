// Package credstore persists the extension's auth credentials in a local
// BadgerDB so the agent survives restarts without re-login.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

var credentialsKey = []byte("credentials")

// ErrNoCredentials is returned when no credentials are stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is the persisted auth state.
type Credentials struct {
	Token  string `json:"authToken"`
	UserID string `json:"userId"`
}

// Store wraps a BadgerDB handle for credential persistence. The same DB may
// be shared with other agent stores; credstore only touches its own key.
type Store struct {
	db *badger.DB
}

// New creates a credential store on an already-open BadgerDB.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

// Open opens a BadgerDB at the given path, suitable for sharing between
// the credential store and the page cache.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true // credentials must survive a crash

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", path, err)
	}
	return db, nil
}

// Get returns the stored credentials, or ErrNoCredentials.
func (s *Store) Get() (*Credentials, error) {
	var creds Credentials
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(credentialsKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &creds)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}
	if creds.Token == "" {
		return nil, ErrNoCredentials
	}
	return &creds, nil
}

// Set stores credentials, replacing any previous ones. Logging in with a
// second account overwrites the first.
func (s *Store) Set(creds Credentials) error {
	b, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(credentialsKey, b))
	})
}

// Clear removes stored credentials. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(credentialsKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
