package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/shramba/internal/model"
)

// TimeLayout is the on-disk format of item timestamps. It is fixed-width UTC,
// so string comparison orders instants and the first ten bytes are the date.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

const itemColumns = `id, owner_id, name, quantity, expiry_date, date_added, status, updated_at`

// Items is the durable item collection. Every method is scoped by owner.
type Items struct {
	DB *sql.DB
}

// NewItems returns an item store backed by db.
func NewItems(db *sql.DB) *Items {
	return &Items{DB: db}
}

// Insert stores a new item. The caller assigns ID, DateAdded and Status.
func (s *Items) Insert(ctx context.Context, item *model.Item) error {
	var expiry any
	if item.ExpiryDate != nil {
		expiry = FormatTime(*item.ExpiryDate)
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.OwnerID, item.Name, item.Quantity, expiry,
		FormatTime(item.DateAdded), string(item.Status), FormatTime(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// Get returns the item with the given id if it belongs to ownerID, or nil.
func (s *Items) Get(ctx context.Context, ownerID int64, id string) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// Update sets quantity and/or expiry on an owned item in a single statement.
// Nil arguments leave the column unchanged. Returns nil when nothing matched.
func (s *Items) Update(ctx context.Context, ownerID int64, id string, quantity *float64, expiry *time.Time, now time.Time) (*model.Item, error) {
	var q, e any
	if quantity != nil {
		q = *quantity
	}
	if expiry != nil {
		e = FormatTime(*expiry)
	}

	row := s.DB.QueryRowContext(ctx,
		`UPDATE items
		 SET quantity = COALESCE(?, quantity),
		     expiry_date = COALESCE(?, expiry_date),
		     updated_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING `+itemColumns,
		q, e, FormatTime(now), id, ownerID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// SetStatus overwrites the status of an owned item. Returns nil when nothing matched.
func (s *Items) SetStatus(ctx context.Context, ownerID int64, id string, status model.ItemStatus, now time.Time) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`UPDATE items SET status = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING `+itemColumns,
		string(status), FormatTime(now), id, ownerID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("setting item status: %w", err)
	}
	return item, nil
}

// ListByStatus returns the owner's items with the given status, soonest
// expiry first. Items without an expiry date sort before dated ones.
func (s *Items) ListByStatus(ctx context.Context, ownerID int64, status model.ItemStatus) ([]model.Item, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE owner_id = ? AND status = ?
		 ORDER BY expiry_date ASC, date_added ASC, id ASC`,
		ownerID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ActiveNames returns the distinct names of the owner's active items.
func (s *Items) ActiveNames(ctx context.Context, ownerID int64) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT DISTINCT name FROM items WHERE owner_id = ? AND status = 'active' ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing active names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (*model.Item, error) {
	var (
		item                 model.Item
		status               string
		expiry               sql.NullString
		dateAdded, updatedAt string
	)
	if err := sc.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Quantity, &expiry, &dateAdded, &status, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if item.DateAdded, err = parseTime(dateAdded); err != nil {
		return nil, fmt.Errorf("parsing date_added: %w", err)
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if expiry.Valid {
		t, err := parseTime(expiry.String)
		if err != nil {
			return nil, fmt.Errorf("parsing expiry_date: %w", err)
		}
		item.ExpiryDate = &t
	}
	item.Status = model.ItemStatus(status)
	return &item, nil
}
