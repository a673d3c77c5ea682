package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

type PostRepo struct {
	pool    *pgxpool.Pool
	sources *SourceRepo
}

func NewPostRepo(pool *pgxpool.Pool, sources *SourceRepo) *PostRepo {
	return &PostRepo{pool: pool, sources: sources}
}

// Create inserts a post, creating the source implicitly if this is the first
// post for the URL. Both writes happen in one transaction.
func (r *PostRepo) Create(ctx context.Context, userID, url, title, comment string) (*model.PostResponse, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sourceID, err := r.sources.Upsert(ctx, tx, url, &title)
	if err != nil {
		return nil, err
	}

	postID := uuid.NewString()
	createdAt := time.Now().UnixMilli()
	_, err = tx.Exec(ctx, `
		INSERT INTO posts (id, source_id, user_id, title, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		postID, sourceID, userID, title, comment, createdAt)
	if err != nil {
		return nil, err
	}

	var sourceURL string
	var sourceTitle *string
	err = tx.QueryRow(ctx, `SELECT url, title FROM sources WHERE id = $1`, sourceID).
		Scan(&sourceURL, &sourceTitle)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &model.PostResponse{
		OK:          true,
		PostID:      postID,
		SourceID:    sourceID,
		UserID:      userID,
		Title:       title,
		Comment:     comment,
		CreatedAt:   createdAt,
		SourceURL:   sourceURL,
		SourceTitle: sourceTitle,
	}, nil
}

// ListBySourceHash returns all posts for the source matching a page-identity
// hash, newest first, with vote aggregates. An unknown hash yields an empty
// slice, not an error.
func (r *PostRepo) ListBySourceHash(ctx context.Context, hash string) ([]model.Post, error) {
	sourceID, err := r.sources.FindIDByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []model.Post{}, nil
		}
		return nil, err
	}
	return listPostsBySource(ctx, r.pool, sourceID)
}

// ListByUser returns a user's posts, newest first, joined with their source
// and vote aggregates.
func (r *PostRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.source_id, p.title, p.comment, p.created_at,
		       s.url, s.title AS source_title,
		       COALESCE(AVG(v.rating), 0) AS avg_rating,
		       COALESCE(SUM(CASE WHEN v.agree THEN 1 ELSE 0 END), 0) AS agree_count,
		       COALESCE(SUM(CASE WHEN NOT v.agree THEN 1 ELSE 0 END), 0) AS disagree_count
		FROM posts p
		LEFT JOIN sources s ON s.id = p.source_id
		LEFT JOIN votes v ON v.post_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id, s.url, s.title
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		p.UserID = userID
		err := rows.Scan(
			&p.ID, &p.SourceID, &p.Title, &p.Comment, &p.CreatedAt,
			&p.SourceURL, &p.SourceTitle,
			&p.Reputation, &p.AgreeCount, &p.DisagreeCount,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Search returns posts whose title or comment matches the query.
func (r *PostRepo) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, p.comment, p.user_id, p.created_at,
		       COALESCE(s.url, ''), COALESCE(s.title, '')
		FROM posts p
		LEFT JOIN sources s ON s.id = p.source_id
		WHERE p.title ILIKE $1 OR p.comment ILIKE $1
		ORDER BY p.created_at DESC
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]model.SearchResult, 0)
	for rows.Next() {
		var sr model.SearchResult
		if err := rows.Scan(&sr.PostID, &sr.Title, &sr.Comment, &sr.UserID,
			&sr.CreatedAt, &sr.SourceURL, &sr.SourceTitle); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// listPostsBySource is shared between source info and hash lookups.
func listPostsBySource(ctx context.Context, pool *pgxpool.Pool, sourceID string) ([]model.Post, error) {
	rows, err := pool.Query(ctx, `
		SELECT p.id, p.title, p.comment, p.user_id, p.created_at,
		       COALESCE(AVG(v.rating), 0) AS avg_rating,
		       COALESCE(SUM(CASE WHEN v.agree THEN 1 ELSE 0 END), 0) AS agree_count,
		       COALESCE(SUM(CASE WHEN NOT v.agree THEN 1 ELSE 0 END), 0) AS disagree_count
		FROM posts p
		LEFT JOIN votes v ON v.post_id = p.id
		WHERE p.source_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		err := rows.Scan(
			&p.ID, &p.Title, &p.Comment, &p.UserID, &p.CreatedAt,
			&p.Reputation, &p.AgreeCount, &p.DisagreeCount,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
