package pagecache

import (
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

func testCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, ttl)
}

func TestGet_Miss(t *testing.T) {
	c := testCache(t, time.Hour)
	_, err := c.Get("unknown-hash")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSetAndGet(t *testing.T) {
	c := testCache(t, time.Hour)

	entry := Entry{
		Posts:      []model.Post{{ID: "p1", Title: "report", Reputation: 4.2}},
		Reputation: 4.2,
	}
	require.NoError(t, c.Set("hash-1", entry))

	got, err := c.Get("hash-1")
	require.NoError(t, err)
	assert.Equal(t, 4.2, got.Reputation)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "p1", got.Posts[0].ID)
	assert.NotZero(t, got.FetchedAt, "FetchedAt is stamped on write")
}

func TestInvalidate(t *testing.T) {
	c := testCache(t, time.Hour)

	require.NoError(t, c.Set("hash-1", Entry{Reputation: 2.0}))
	require.NoError(t, c.Invalidate("hash-1"))

	_, err := c.Get("hash-1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInvalidate_MissingKeyIsNoop(t *testing.T) {
	c := testCache(t, time.Hour)
	assert.NoError(t, c.Invalidate("never-set"))
}

func TestExpiry(t *testing.T) {
	c := testCache(t, time.Second)

	require.NoError(t, c.Set("hash-1", Entry{Reputation: 1.0}))

	time.Sleep(1500 * time.Millisecond)

	_, err := c.Get("hash-1")
	assert.ErrorIs(t, err, ErrMiss, "expired entries surface as misses")
}

func TestKeysAreIndependent(t *testing.T) {
	c := testCache(t, time.Hour)

	require.NoError(t, c.Set("hash-a", Entry{Reputation: 1.0}))
	require.NoError(t, c.Set("hash-b", Entry{Reputation: 5.0}))
	require.NoError(t, c.Invalidate("hash-a"))

	got, err := c.Get("hash-b")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Reputation)
}
