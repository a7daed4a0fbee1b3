package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

func mustCreateUser(t *testing.T, database *sql.DB, email string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, "Test", email, "hash")
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", email, err)
	}
	return u
}

func mustInsertItem(t *testing.T, items *Items, ownerID int64, name string, status model.ItemStatus, added time.Time, expiry *time.Time) *model.Item {
	t.Helper()
	item := &model.Item{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Quantity:   1,
		ExpiryDate: expiry,
		DateAdded:  added,
		Status:     status,
		UpdatedAt:  added,
	}
	if err := items.Insert(context.Background(), item); err != nil {
		t.Fatalf("Insert(%q): %v", name, err)
	}
	return item
}

func ptrTime(t time.Time) *time.Time { return &t }
