// Package pagecache caches per-page reputation lookups in BadgerDB with a
// TTL, so repeat visits to a page don't hit the backend.
package pagecache

import (
	"encoding/json"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

const keyPrefix = "page:"

// ErrMiss is returned when the page has no cached entry (or it expired).
var ErrMiss = errors.New("page cache miss")

// Entry is a cached reputation snapshot for one page identity.
type Entry struct {
	Posts      []model.Post `json:"posts"`
	Reputation float64      `json:"reputation"`
	FetchedAt  int64        `json:"fetchedAt"` // epoch millis
}

// Cache wraps a BadgerDB handle. Expiry is handled by Badger's native TTL;
// expired entries surface as misses.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// New creates a page cache on an already-open BadgerDB.
func New(db *badger.DB, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{db: db, ttl: ttl}
}

// Get returns the cached entry for a page identity hash, or ErrMiss.
func (c *Cache) Get(hash string) (*Entry, error) {
	var entry Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + hash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Set stores an entry for a page identity hash with the cache TTL.
func (c *Cache) Set(hash string, entry Entry) error {
	if entry.FetchedAt == 0 {
		entry.FetchedAt = time.Now().UnixMilli()
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+hash), b).WithTTL(c.ttl)
		return txn.SetEntry(e)
	})
}

// Invalidate drops the cached entry for a page identity hash. Used after the
// user submits a post or vote so the next lookup reflects it.
func (c *Cache) Invalidate(hash string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyPrefix + hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
