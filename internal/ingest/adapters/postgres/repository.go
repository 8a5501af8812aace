package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"stream-analytics-service/internal/ingest/core/domain"
	"stream-analytics-service/internal/ingest/core/ports"
)

// TableRepository reads raw rows from the hosted table store. Developer
// activity is excluded at the query level so it never reaches the cache.
// Rows are pulled with keyset pagination on (created_at, id) to keep result
// sets bounded regardless of table size.
type TableRepository struct {
	db           DB
	developerIDs []string
	pageSize     int
}

func NewTableRepository(db DB, developerIDs []string, pageSize int) *TableRepository {
	if pageSize <= 0 {
		pageSize = 5000
	}
	return &TableRepository{db: db, developerIDs: developerIDs, pageSize: pageSize}
}

var _ ports.TableSourcePort = (*TableRepository)(nil)

const selectTemplate = `
SELECT %s
FROM %s
WHERE (created_at, id) > ($1, $2)
  AND user_id <> ALL($3)
ORDER BY created_at, id
LIMIT %d`

func (r *TableRepository) query(ctx context.Context, columns, table string, since time.Time, afterID string) (RowScanner, error) {
	q := fmt.Sprintf(selectTemplate, columns, table, r.pageSize)
	return r.db.QueryContext(ctx, q, since, afterID, pq.Array(r.developerIDs))
}

func (r *TableRepository) FetchStreamsSince(ctx context.Context, since time.Time) ([]domain.StreamRow, error) {
	var out []domain.StreamRow
	cursor := keyset{at: since}
	for {
		rows, err := r.query(ctx, "id, user_id, created_at", "streams", cursor.at, cursor.id)
		if err != nil {
			return nil, fmt.Errorf("fetch streams: %w", err)
		}
		n := 0
		err = scanAll(rows, func(s RowScanner) error {
			var row domain.StreamRow
			if err := s.Scan(&row.ID, &row.UserID, &row.CreatedAt); err != nil {
				return err
			}
			row.CreatedAt = row.CreatedAt.UTC()
			out = append(out, row)
			cursor = keyset{at: row.CreatedAt, id: row.ID}
			n++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetch streams: %w", err)
		}
		if n < r.pageSize {
			return out, nil
		}
	}
}

func (r *TableRepository) FetchHighlightsSince(ctx context.Context, since time.Time) ([]domain.HighlightRow, error) {
	var out []domain.HighlightRow
	cursor := keyset{at: since}
	for {
		rows, err := r.query(ctx,
			"id, user_id, created_at, liked, downloaded, link_copied, stream_id, livestream_id",
			"highlights", cursor.at, cursor.id)
		if err != nil {
			return nil, fmt.Errorf("fetch highlights: %w", err)
		}
		n := 0
		err = scanAll(rows, func(s RowScanner) error {
			var row domain.HighlightRow
			var liked sql.NullBool
			var streamID, livestreamID sql.NullString
			if err := s.Scan(&row.ID, &row.UserID, &row.CreatedAt,
				&liked, &row.Downloaded, &row.LinkCopied, &streamID, &livestreamID); err != nil {
				return err
			}
			row.CreatedAt = row.CreatedAt.UTC()
			if liked.Valid {
				v := liked.Bool
				row.Liked = &v
			}
			row.StreamID = streamID.String
			row.LivestreamID = livestreamID.String
			out = append(out, row)
			cursor = keyset{at: row.CreatedAt, id: row.ID}
			n++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetch highlights: %w", err)
		}
		if n < r.pageSize {
			return out, nil
		}
	}
}

func (r *TableRepository) FetchLivestreamsSince(ctx context.Context, since time.Time) ([]domain.LivestreamRow, error) {
	var out []domain.LivestreamRow
	cursor := keyset{at: since}
	for {
		rows, err := r.query(ctx, "id, user_id, created_at", "livestreams", cursor.at, cursor.id)
		if err != nil {
			return nil, fmt.Errorf("fetch livestreams: %w", err)
		}
		n := 0
		err = scanAll(rows, func(s RowScanner) error {
			var row domain.LivestreamRow
			if err := s.Scan(&row.ID, &row.UserID, &row.CreatedAt); err != nil {
				return err
			}
			row.CreatedAt = row.CreatedAt.UTC()
			out = append(out, row)
			cursor = keyset{at: row.CreatedAt, id: row.ID}
			n++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetch livestreams: %w", err)
		}
		if n < r.pageSize {
			return out, nil
		}
	}
}

func (r *TableRepository) FetchBotsSince(ctx context.Context, since time.Time) ([]domain.BotRow, error) {
	var out []domain.BotRow
	cursor := keyset{at: since}
	for {
		rows, err := r.query(ctx, "id, user_id, created_at", "bots", cursor.at, cursor.id)
		if err != nil {
			return nil, fmt.Errorf("fetch bots: %w", err)
		}
		n := 0
		err = scanAll(rows, func(s RowScanner) error {
			var row domain.BotRow
			if err := s.Scan(&row.ID, &row.UserID, &row.CreatedAt); err != nil {
				return err
			}
			row.CreatedAt = row.CreatedAt.UTC()
			out = append(out, row)
			cursor = keyset{at: row.CreatedAt, id: row.ID}
			n++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetch bots: %w", err)
		}
		if n < r.pageSize {
			return out, nil
		}
	}
}

func (r *TableRepository) FetchURLsSince(ctx context.Context, since time.Time) ([]domain.URLRow, error) {
	var out []domain.URLRow
	cursor := keyset{at: since}
	for {
		rows, err := r.query(ctx, "id, user_id, created_at, view_count", "urls", cursor.at, cursor.id)
		if err != nil {
			return nil, fmt.Errorf("fetch urls: %w", err)
		}
		n := 0
		err = scanAll(rows, func(s RowScanner) error {
			var row domain.URLRow
			if err := s.Scan(&row.ID, &row.UserID, &row.CreatedAt, &row.ViewCount); err != nil {
				return err
			}
			row.CreatedAt = row.CreatedAt.UTC()
			out = append(out, row)
			cursor = keyset{at: row.CreatedAt, id: row.ID}
			n++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetch urls: %w", err)
		}
		if n < r.pageSize {
			return out, nil
		}
	}
}

// keyset is the pagination cursor: the last (created_at, id) pair seen.
type keyset struct {
	at time.Time
	id string
}

func scanAll(rows RowScanner, scan func(RowScanner) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
