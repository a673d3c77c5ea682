package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugackMiner53/CrowdTruth/internal/repository"
)

// ReputationWorker listens for PostgreSQL NOTIFY on the 'vote_changes'
// channel and batches denormalized reputation recalculations. If many votes
// hit one source inside a window, it recalculates once.
type ReputationWorker struct {
	pool    *pgxpool.Pool
	sources *repository.SourceRepo
	cache   *CacheService
	batchMs time.Duration

	mu      sync.Mutex
	pending map[string]struct{} // source IDs waiting for recalculation
}

// NewReputationWorker creates a reputation recalculation worker.
func NewReputationWorker(pool *pgxpool.Pool, sources *repository.SourceRepo, cache *CacheService) *ReputationWorker {
	return &ReputationWorker{
		pool:    pool,
		sources: sources,
		cache:   cache,
		batchMs: 5 * time.Second,
		pending: make(map[string]struct{}),
	}
}

// Start begins listening for vote_changes notifications and processing
// batches. Blocks until the context is cancelled.
func (w *ReputationWorker) Start(ctx context.Context) {
	log.Printf("reputation-worker: starting (batch window=%s)", w.batchMs)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("reputation-worker: stopping (context cancelled)")
				return
			}
			log.Printf("reputation-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("reputation-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on vote_changes, and
// collects notifications into the pending set.
func (w *ReputationWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN vote_changes")
	if err != nil {
		return err
	}
	log.Println("reputation-worker: listening on vote_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		sourceID := notification.Payload
		if sourceID == "" {
			continue
		}

		w.mu.Lock()
		w.pending[sourceID] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set.
func (w *ReputationWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and recalculates each source's reputation.
func (w *ReputationWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	recalculated := 0
	for sourceID := range batch {
		if err := w.sources.RecalculateReputation(ctx, sourceID); err != nil {
			log.Printf("reputation-worker: recalculate error for %s: %v", sourceID, err)
			continue
		}

		if w.cache != nil {
			if err := w.cache.InvalidateSource(ctx, sourceID); err != nil {
				log.Printf("reputation-worker: cache invalidate error for %s: %v", sourceID, err)
			}
		}

		recalculated++
	}

	if recalculated > 0 {
		log.Printf("reputation-worker: batch complete, %d sources recalculated (from %d notifications)",
			recalculated, len(batch))
	}
}
