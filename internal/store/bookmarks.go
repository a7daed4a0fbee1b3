package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/shramba/internal/model"
)

// ListBookmarks returns the owner's bookmarked recipes, newest first.
func ListBookmarks(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Bookmark, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT owner_id, recipe_id, recipe_data, created_at
		 FROM bookmarks WHERE owner_id = ? ORDER BY created_at DESC, recipe_id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	var out []model.Bookmark
	for rows.Next() {
		var b model.Bookmark
		var data string
		if err := rows.Scan(&b.OwnerID, &b.RecipeID, &data, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		b.RecipeData = []byte(data)
		out = append(out, b)
	}
	return out, rows.Err()
}

// ToggleBookmark removes the bookmark if it exists and creates it otherwise.
// It reports whether the recipe is bookmarked afterwards.
func ToggleBookmark(ctx context.Context, db *sql.DB, ownerID, recipeID int64, recipeData []byte) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE owner_id = ? AND recipe_id = ?`, ownerID, recipeID,
	)
	if err != nil {
		return false, fmt.Errorf("removing bookmark: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking removed bookmark: %w", err)
	}

	if removed == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO bookmarks (owner_id, recipe_id, recipe_data) VALUES (?, ?, ?)`,
			ownerID, recipeID, string(recipeData),
		)
		if err != nil {
			return false, fmt.Errorf("adding bookmark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing bookmark toggle: %w", err)
	}
	return removed == 0, nil
}
