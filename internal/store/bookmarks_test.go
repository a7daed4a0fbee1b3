package store

import (
	"context"
	"testing"

	"github.com/erazemk/shramba/internal/db"
)

func TestToggleBookmark(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustCreateUser(t, database, "a@example.com")

	on, err := ToggleBookmark(ctx, database, owner.ID, 42, []byte(`{"title":"Soup"}`))
	if err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	if !on {
		t.Error("expected first toggle to bookmark")
	}

	list, _ := ListBookmarks(ctx, database, owner.ID)
	if len(list) != 1 || string(list[0].RecipeData) != `{"title":"Soup"}` {
		t.Fatalf("unexpected bookmarks: %+v", list)
	}

	on, err = ToggleBookmark(ctx, database, owner.ID, 42, nil)
	if err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	if on {
		t.Error("expected second toggle to remove bookmark")
	}

	list, _ = ListBookmarks(ctx, database, owner.ID)
	if len(list) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(list))
	}
}
