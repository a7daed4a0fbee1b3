package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/shramba/internal/model"
)

// ListGroceryItems returns the owner's shopping list in insertion order.
func ListGroceryItems(ctx context.Context, db *sql.DB, ownerID int64) ([]model.GroceryItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, owner_id, name, quantity, unit, added_at
		 FROM grocery_items WHERE owner_id = ? ORDER BY id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing grocery items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		var g model.GroceryItem
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Quantity, &g.Unit, &g.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning grocery item: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// FindGroceryItemByName returns the owner's grocery item whose name equals
// name ignoring case, or nil.
func FindGroceryItemByName(ctx context.Context, db *sql.DB, ownerID int64, name string) (*model.GroceryItem, error) {
	g := &model.GroceryItem{}
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, quantity, unit, added_at
		 FROM grocery_items WHERE owner_id = ? AND lower(name) = lower(?) LIMIT 1`,
		ownerID, name,
	).Scan(&g.ID, &g.OwnerID, &g.Name, &g.Quantity, &g.Unit, &g.AddedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding grocery item: %w", err)
	}
	return g, nil
}

// CreateGroceryItem adds an item to the owner's shopping list.
func CreateGroceryItem(ctx context.Context, db *sql.DB, ownerID int64, name string, quantity float64, unit string) (*model.GroceryItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO grocery_items (owner_id, name, quantity, unit) VALUES (?, ?, ?, ?)`,
		ownerID, name, quantity, unit,
	)
	if err != nil {
		return nil, fmt.Errorf("creating grocery item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting grocery item id: %w", err)
	}

	return GetGroceryItem(ctx, db, ownerID, id)
}

// GetGroceryItem returns an owned grocery item by ID, or nil.
func GetGroceryItem(ctx context.Context, db *sql.DB, ownerID, id int64) (*model.GroceryItem, error) {
	g := &model.GroceryItem{}
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, quantity, unit, added_at
		 FROM grocery_items WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&g.ID, &g.OwnerID, &g.Name, &g.Quantity, &g.Unit, &g.AddedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting grocery item: %w", err)
	}
	return g, nil
}

// UpdateGroceryItem replaces an owned grocery item's fields. Returns false
// when no item matched.
func UpdateGroceryItem(ctx context.Context, db *sql.DB, ownerID, id int64, name string, quantity float64, unit string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE grocery_items SET name = ?, quantity = ?, unit = ? WHERE id = ? AND owner_id = ?`,
		name, quantity, unit, id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("updating grocery item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking updated rows: %w", err)
	}
	return n > 0, nil
}

// DeleteGroceryItem removes an owned grocery item. Returns false when no item matched.
func DeleteGroceryItem(ctx context.Context, db *sql.DB, ownerID, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM grocery_items WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting grocery item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n > 0, nil
}
