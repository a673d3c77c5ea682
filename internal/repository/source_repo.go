package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/pkg/pageid"
)

type SourceRepo struct {
	pool *pgxpool.Pool
}

func NewSourceRepo(pool *pgxpool.Pool) *SourceRepo {
	return &SourceRepo{pool: pool}
}

// FindIDByURL returns the source id for an exact URL match.
func (r *SourceRepo) FindIDByURL(ctx context.Context, url string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM sources WHERE url = $1`, url).Scan(&id)
	return id, err
}

// FindIDByHash returns the source id for a page-identity hash.
func (r *SourceRepo) FindIDByHash(ctx context.Context, hash string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM sources WHERE url_hash = $1`, hash).Scan(&id)
	return id, err
}

// Upsert finds or creates the source for a URL. A title is only written when
// the source has none yet; the first poster's page title wins.
func (r *SourceRepo) Upsert(ctx context.Context, tx pgx.Tx, url string, title *string) (string, error) {
	var existingID string
	var existingTitle *string
	err := tx.QueryRow(ctx, `SELECT id, title FROM sources WHERE url = $1`, url).
		Scan(&existingID, &existingTitle)
	if err == nil {
		if title != nil && *title != "" && (existingTitle == nil || *existingTitle == "") {
			if _, err := tx.Exec(ctx, `UPDATE sources SET title = $1 WHERE id = $2`, title, existingID); err != nil {
				return "", err
			}
		}
		return existingID, nil
	}
	if err != pgx.ErrNoRows {
		return "", err
	}

	hash, err := pageid.FromURL(url)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO sources (id, url, url_hash, title) VALUES ($1, $2, $3, $4)`,
		id, url, hash, title)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetInfo assembles the full aggregate view of a source: average vote rating
// across all of the source's posts, agree/disagree totals, and the post list.
// Aggregates are computed from live vote rows so reads are always consistent
// with the latest mutation, regardless of worker lag.
func (r *SourceRepo) GetInfo(ctx context.Context, sourceID string) (*model.SourceInfoResponse, error) {
	var info model.SourceInfoResponse
	err := r.pool.QueryRow(ctx, `SELECT id, url, title FROM sources WHERE id = $1`, sourceID).
		Scan(&info.SourceID, &info.URL, &info.Title)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(v.rating), 0),
		       COALESCE(SUM(CASE WHEN v.agree THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN NOT v.agree THEN 1 ELSE 0 END), 0)
		FROM votes v
		JOIN posts p ON p.id = v.post_id
		WHERE p.source_id = $1`, sourceID).
		Scan(&info.Reputation, &info.AgreeCount, &info.DisagreeCount)
	if err != nil {
		return nil, err
	}

	posts, err := listPostsBySource(ctx, r.pool, sourceID)
	if err != nil {
		return nil, err
	}
	info.Posts = posts
	info.PostCount = len(posts)
	return &info, nil
}

// RecalculateReputation refreshes the denormalized reputation and post count
// columns for a source. Called by the reputation worker, never on the read
// path.
func (r *SourceRepo) RecalculateReputation(ctx context.Context, sourceID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sources SET
			reputation = COALESCE((
				SELECT AVG(v.rating)
				FROM votes v JOIN posts p ON p.id = v.post_id
				WHERE p.source_id = $1), 0),
			post_count = (SELECT COUNT(*) FROM posts WHERE source_id = $1),
			last_updated = NOW()
		WHERE id = $1`, sourceID)
	return err
}

// Search returns sources whose URL or title matches the query, case
// insensitively.
func (r *SourceRepo) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT id, url, COALESCE(title, '')
		FROM sources
		WHERE url ILIKE $1 OR title ILIKE $1
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]model.SearchResult, 0)
	for rows.Next() {
		var sr model.SearchResult
		if err := rows.Scan(&sr.SourceID, &sr.URL, &sr.Title); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// GetStats returns global table counts for the /stats endpoint.
func (r *SourceRepo) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM sources) AS total_sources,
			(SELECT COUNT(*) FROM posts) AS total_posts,
			(SELECT COUNT(*) FROM votes) AS total_votes`

	stats := model.StatsResponse{OK: true}
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers, &stats.TotalSources, &stats.TotalPosts, &stats.TotalVotes,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
