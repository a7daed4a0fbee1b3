package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

var baseTime = time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)

func TestInsertAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	items := NewItems(database)
	ctx := context.Background()
	owner := mustCreateUser(t, database, "a@example.com")

	expiry := baseTime.Add(72 * time.Hour)
	inserted := mustInsertItem(t, items, owner.ID, "Milk", model.ItemStatusActive, baseTime, &expiry)

	got, err := items.Get(ctx, owner.ID, inserted.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Name != "Milk" || got.Status != model.ItemStatusActive {
		t.Errorf("unexpected item: %+v", got)
	}
	if !got.DateAdded.Equal(baseTime) {
		t.Errorf("expected date_added %v, got %v", baseTime, got.DateAdded)
	}
	if got.ExpiryDate == nil || !got.ExpiryDate.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, got.ExpiryDate)
	}
}

func TestGetItemIsOwnerScoped(t *testing.T) {
	database := db.NewTestDB(t)
	items := NewItems(database)
	ctx := context.Background()
	alice := mustCreateUser(t, database, "alice@example.com")
	bob := mustCreateUser(t, database, "bob@example.com")

	item := mustInsertItem(t, items, alice.ID, "Bread", model.ItemStatusActive, baseTime, nil)

	got, err := items.Get(ctx, bob.ID, item.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil for another owner's item")
	}

	updated, err := items.SetStatus(ctx, bob.ID, item.ID, model.ItemStatusWasted, baseTime)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated != nil {
		t.Error("expected no match when another owner sets status")
	}

	still, _ := items.Get(ctx, alice.ID, item.ID)
	if still.Status != model.ItemStatusActive {
		t.Errorf("expected status to stay active, got %q", still.Status)
	}
}

func TestUpdateItemPartial(t *testing.T) {
	database := db.NewTestDB(t)
	items := NewItems(database)
	ctx := context.Background()
	owner := mustCreateUser(t, database, "a@example.com")

	expiry := baseTime.Add(48 * time.Hour)
	item := mustInsertItem(t, items, owner.ID, "Eggs", model.ItemStatusActive, baseTime, &expiry)

	qty := 6.0
	got, err := items.Update(ctx, owner.ID, item.ID, &qty, nil, baseTime.Add(time.Hour))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Quantity != 6 {
		t.Errorf("expected quantity 6, got %v", got.Quantity)
	}
	if got.ExpiryDate == nil || !got.ExpiryDate.Equal(expiry) {
		t.Errorf("expected expiry unchanged, got %v", got.ExpiryDate)
	}
	if !got.DateAdded.Equal(baseTime) {
		t.Errorf("expected date_added unchanged, got %v", got.DateAdded)
	}

	newExpiry := baseTime.Add(96 * time.Hour)
	got, err = items.Update(ctx, owner.ID, item.ID, nil, &newExpiry, baseTime.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Quantity != 6 {
		t.Errorf("expected quantity to stay 6, got %v", got.Quantity)
	}
	if !got.ExpiryDate.Equal(newExpiry) {
		t.Errorf("expected expiry %v, got %v", newExpiry, got.ExpiryDate)
	}

	missing, err := items.Update(ctx, owner.ID, "no-such-id", &qty, nil, baseTime)
	if err != nil {
		t.Fatalf("Update missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestListByStatusSortsByExpiry(t *testing.T) {
	database := db.NewTestDB(t)
	items := NewItems(database)
	ctx := context.Background()
	owner := mustCreateUser(t, database, "a@example.com")

	mustInsertItem(t, items, owner.ID, "Late", model.ItemStatusActive, baseTime, ptrTime(baseTime.Add(10*24*time.Hour)))
	mustInsertItem(t, items, owner.ID, "Soon", model.ItemStatusActive, baseTime, ptrTime(baseTime.Add(24*time.Hour)))
	mustInsertItem(t, items, owner.ID, "Undated", model.ItemStatusActive, baseTime, nil)
	mustInsertItem(t, items, owner.ID, "Gone", model.ItemStatusUsed, baseTime, ptrTime(baseTime))

	active, err := items.ListByStatus(ctx, owner.ID, model.ItemStatusActive)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active items, got %d", len(active))
	}
	want := []string{"Undated", "Soon", "Late"}
	for i, name := range want {
		if active[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, active[i].Name)
		}
	}

	used, _ := items.ListByStatus(ctx, owner.ID, model.ItemStatusUsed)
	if len(used) != 1 || used[0].Name != "Gone" {
		t.Errorf("expected only 'Gone' in used, got %v", used)
	}
}

func TestActiveNames(t *testing.T) {
	database := db.NewTestDB(t)
	items := NewItems(database)
	owner := mustCreateUser(t, database, "a@example.com")

	mustInsertItem(t, items, owner.ID, "tomato", model.ItemStatusActive, baseTime, nil)
	mustInsertItem(t, items, owner.ID, "tomato", model.ItemStatusActive, baseTime, nil)
	mustInsertItem(t, items, owner.ID, "basil", model.ItemStatusActive, baseTime, nil)
	mustInsertItem(t, items, owner.ID, "cheese", model.ItemStatusWasted, baseTime, nil)

	names, err := items.ActiveNames(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ActiveNames: %v", err)
	}
	if len(names) != 2 || names[0] != "basil" || names[1] != "tomato" {
		t.Errorf("expected [basil tomato], got %v", names)
	}
}
