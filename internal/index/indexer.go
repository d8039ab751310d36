package index

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sharpfind/sf/internal/model"
)

// UpdateStats summarizes one Indexer.Update run.
type UpdateStats struct {
	Upserted int
	Removed  int64
	Elapsed  time.Duration
}

// Stats summarizes the provider's contents.
type Stats struct {
	Files     int64
	Bytes     int64
	IndexedAt time.Time
}

// Indexer keeps the provider in step with the filesystem under a root.
type Indexer struct {
	store  *Store
	logger *slog.Logger
	now    func() time.Time
}

// NewIndexer creates an indexer writing to store.
func NewIndexer(store *Store, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{store: store, logger: logger, now: time.Now}
}

// Update upserts every file produced by files and then deletes rows below
// root that were not seen in this run. The whole update is one transaction;
// a failing file sequence rolls it back.
func (ix *Indexer) Update(ctx context.Context, root string, files iter.Seq2[model.Candidate, error]) (UpdateStats, error) {
	start := ix.now()
	stamp := start.UnixNano()

	tx, err := ix.store.db.BeginTx(ctx, nil)
	if err != nil {
		return UpdateStats{}, fmt.Errorf("begin transaction: %w", err)
	}

	stats, err := ix.update(ctx, tx, root, stamp, files)
	if err != nil {
		_ = tx.Rollback()
		return UpdateStats{}, err
	}

	if err := tx.Commit(); err != nil {
		return UpdateStats{}, fmt.Errorf("commit transaction: %w", err)
	}

	stats.Elapsed = ix.now().Sub(start)
	ix.logger.Info("index updated", "root", root, "upserted", stats.Upserted, "removed", stats.Removed, "elapsed", stats.Elapsed)
	return stats, nil
}

func (ix *Indexer) update(ctx context.Context, db executor, root string, stamp int64, files iter.Seq2[model.Candidate, error]) (UpdateStats, error) {
	var stats UpdateStats
	upsert := upsertStatement(ix.store.driver)

	for c, err := range files {
		if err != nil {
			return UpdateStats{}, fmt.Errorf("enumerate %s: %w", root, err)
		}
		name := filepath.Base(c.FullPath)
		if _, err := db.ExecContext(ctx, upsert,
			DisplayPath(c.FullPath),
			name,
			strings.ToLower(filepath.Ext(name)),
			c.Size,
			UnixNanos(c.ModifiedAt),
			stamp,
		); err != nil {
			return UpdateStats{}, fmt.Errorf("upsert %s: %w", c.FullPath, err)
		}
		stats.Upserted++
	}

	res, err := db.ExecContext(ctx,
		"DELETE FROM system_index WHERE "+ScopeClause(root)+" AND indexed_at < "+placeholder(ix.store.driver, 1),
		stamp,
	)
	if err != nil {
		return UpdateStats{}, fmt.Errorf("remove stale rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return UpdateStats{}, fmt.Errorf("rows affected: %w", err)
	}
	stats.Removed = n

	return stats, nil
}

func upsertStatement(driver string) string {
	p := make([]string, 6)
	for i := range p {
		p[i] = placeholder(driver, i+1)
	}
	return `INSERT INTO system_index (item_path_display, item_name, file_extension, size, date_modified, indexed_at)
		VALUES (` + strings.Join(p, ", ") + `)
		ON CONFLICT (item_path_display) DO UPDATE SET
			item_name = excluded.item_name,
			file_extension = excluded.file_extension,
			size = excluded.size,
			date_modified = excluded.date_modified,
			indexed_at = excluded.indexed_at`
}

// Stats reports the number of indexed files, their total size and the most
// recent indexing time.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		st        Stats
		indexedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0), COALESCE(MAX(indexed_at), 0) FROM system_index`,
	).Scan(&st.Files, &st.Bytes, &indexedAt)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: index stats: %w", ErrUnavailable, err)
	}
	if indexedAt > 0 {
		st.IndexedAt = time.Unix(0, indexedAt)
	}
	return st, nil
}
