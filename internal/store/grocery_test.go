package store

import (
	"context"
	"testing"

	"github.com/erazemk/shramba/internal/db"
)

func TestGroceryLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustCreateUser(t, database, "a@example.com")
	other := mustCreateUser(t, database, "b@example.com")

	item, err := CreateGroceryItem(ctx, database, owner.ID, "Oat Milk", 2, "l")
	if err != nil {
		t.Fatalf("CreateGroceryItem: %v", err)
	}

	found, err := FindGroceryItemByName(ctx, database, owner.ID, "oat milk")
	if err != nil {
		t.Fatalf("FindGroceryItemByName: %v", err)
	}
	if found == nil || found.ID != item.ID {
		t.Fatalf("expected case-insensitive match, got %+v", found)
	}

	partial, _ := FindGroceryItemByName(ctx, database, owner.ID, "oat")
	if partial != nil {
		t.Error("expected exact match only")
	}

	ok, err := UpdateGroceryItem(ctx, database, other.ID, item.ID, "Stolen", 1, "")
	if err != nil {
		t.Fatalf("UpdateGroceryItem: %v", err)
	}
	if ok {
		t.Error("expected update by another owner to match nothing")
	}

	ok, _ = UpdateGroceryItem(ctx, database, owner.ID, item.ID, "Oat Milk", 3, "l")
	if !ok {
		t.Error("expected owner update to succeed")
	}

	if ok, _ := DeleteGroceryItem(ctx, database, other.ID, item.ID); ok {
		t.Error("expected delete by another owner to match nothing")
	}
	if ok, _ := DeleteGroceryItem(ctx, database, owner.ID, item.ID); !ok {
		t.Error("expected owner delete to succeed")
	}
	list, _ := ListGroceryItems(ctx, database, owner.ID)
	if len(list) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(list))
	}
}
