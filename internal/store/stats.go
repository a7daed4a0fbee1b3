package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/shramba/internal/model"
)

// GroupCount is one row of a grouped count: Key is the grouping value
// (an item name or a YYYY-MM-DD date) and Status the item status.
type GroupCount struct {
	Key    string
	Status model.ItemStatus
	Count  int
}

// NameCount is a per-name tally.
type NameCount struct {
	Name  string
	Count int
}

// CountByStatusSince counts the owner's items added at or after since, by status.
func (s *Items) CountByStatusSince(ctx context.Context, ownerID int64, since time.Time) (map[model.ItemStatus]int, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM items
		 WHERE owner_id = ? AND date_added >= ?
		 GROUP BY status`,
		ownerID, FormatTime(since),
	)
	if err != nil {
		return nil, fmt.Errorf("counting items by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ItemStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[model.ItemStatus(status)] = n
	}
	return counts, rows.Err()
}

// CountByNameAndStatus counts all of the owner's used and wasted items,
// grouped by name and status.
func (s *Items) CountByNameAndStatus(ctx context.Context, ownerID int64) ([]GroupCount, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT name, status, COUNT(*) FROM items
		 WHERE owner_id = ? AND status IN ('used', 'wasted')
		 GROUP BY name, status
		 ORDER BY name, status`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting items by name: %w", err)
	}
	defer rows.Close()

	return scanGroupCounts(rows)
}

// CountByDayAndStatus counts the owner's used and wasted items added within
// [from, to], grouped by the UTC calendar date they were added and by status.
func (s *Items) CountByDayAndStatus(ctx context.Context, ownerID int64, from, to time.Time) ([]GroupCount, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT substr(date_added, 1, 10) AS day, status, COUNT(*) FROM items
		 WHERE owner_id = ? AND date_added >= ? AND date_added <= ?
		   AND status IN ('used', 'wasted')
		 GROUP BY day, status
		 ORDER BY day, status`,
		ownerID, FormatTime(from), FormatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("counting items by day: %w", err)
	}
	defer rows.Close()

	return scanGroupCounts(rows)
}

// CountByStatus counts all of the owner's items with the given status.
func (s *Items) CountByStatus(ctx context.Context, ownerID int64, status model.ItemStatus) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE owner_id = ? AND status = ?`,
		ownerID, string(status),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s items: %w", status, err)
	}
	return n, nil
}

// CountActiveExpiringBetween counts active items whose expiry date lies in
// [from, to]. Items without an expiry date never match.
func (s *Items) CountActiveExpiringBetween(ctx context.Context, ownerID int64, from, to time.Time) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items
		 WHERE owner_id = ? AND status = 'active'
		   AND expiry_date >= ? AND expiry_date <= ?`,
		ownerID, FormatTime(from), FormatTime(to),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting expiring items: %w", err)
	}
	return n, nil
}

// TopWastedNames returns up to limit names with the most wasted items,
// highest count first. Equal counts are ordered by name.
func (s *Items) TopWastedNames(ctx context.Context, ownerID int64, limit int) ([]NameCount, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT name, COUNT(*) AS n FROM items
		 WHERE owner_id = ? AND status = 'wasted'
		 GROUP BY name
		 ORDER BY n DESC, name ASC
		 LIMIT ?`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ranking wasted items: %w", err)
	}
	defer rows.Close()

	var out []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scanning wasted count: %w", err)
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

func scanGroupCounts(rows *sql.Rows) ([]GroupCount, error) {
	var out []GroupCount
	for rows.Next() {
		var gc GroupCount
		var status string
		if err := rows.Scan(&gc.Key, &status, &gc.Count); err != nil {
			return nil, fmt.Errorf("scanning group count: %w", err)
		}
		gc.Status = model.ItemStatus(status)
		out = append(out, gc)
	}
	return out, rows.Err()
}
