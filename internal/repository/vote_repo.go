package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateVote is returned when a user votes twice on the same post.
// The unique (post_id, user_id) constraint is the source of truth.
var ErrDuplicateVote = errors.New("already voted on this post")

// ErrUnknownPost is returned when a vote targets a post that doesn't exist.
var ErrUnknownPost = errors.New("unknown post")

const uniqueViolation = "23505"
const foreignKeyViolation = "23503"

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// Submit inserts a vote. Duplicate votes and votes on missing posts are
// mapped to sentinel errors so the handler can produce distinguishable
// responses. Score recalculation runs async via the vote_inserted trigger
// and the reputation worker.
func (r *VoteRepo) Submit(ctx context.Context, postID, userID string, agree bool, rating int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO votes (id, post_id, user_id, agree, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), postID, userID, agree, rating, time.Now().UnixMilli())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return ErrDuplicateVote
			case foreignKeyViolation:
				return ErrUnknownPost
			}
		}
		return err
	}
	return nil
}

// CountByUser returns how many votes a user has cast.
func (r *VoteRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// SourceIDForPost resolves the source a post belongs to. Used by the vote
// service for cache invalidation after a vote lands.
func (r *VoteRepo) SourceIDForPost(ctx context.Context, postID string) (string, error) {
	var sourceID string
	err := r.pool.QueryRow(ctx, `SELECT source_id FROM posts WHERE id = $1`, postID).Scan(&sourceID)
	return sourceID, err
}
