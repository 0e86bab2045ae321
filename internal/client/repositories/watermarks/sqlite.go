package watermarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/groupshare/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, principalID, groupID string) (int64, error) {
	ms, err := readWatermark(ctx, r.db, principalID, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to read watermark: %w", err)
	}
	return ms, nil
}

// Set advances the stored watermark. Watermarks only move forward in time, so
// a value at or below the stored one is dropped inside the same transaction
// that read it.
func (r *SQLiteRepository) Set(ctx context.Context, principalID, groupID string, lastSeenMillis int64) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		stored, err := readWatermark(ctx, tx, principalID, groupID)
		if err != nil {
			return err
		}
		if stored >= lastSeenMillis {
			return nil
		}

		query := `INSERT INTO watermarks (principal_id, group_id, last_seen_ms)
			values (?, ?, ?)
			ON CONFLICT(principal_id, group_id) DO UPDATE SET last_seen_ms = excluded.last_seen_ms`
		_, err = tx.ExecContext(ctx, query, principalID, groupID, lastSeenMillis)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert watermark: %w", err)
	}

	return nil
}

func readWatermark(ctx context.Context, db dbx.DBTX, principalID, groupID string) (int64, error) {
	query := `select last_seen_ms from watermarks where principal_id=? and group_id=?`

	var ms int64
	err := db.QueryRowContext(ctx, query, principalID, groupID).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return ms, err
}
