package model

import "time"

// GroceryItem is an entry on a user's shopping list.
type GroceryItem struct {
	ID       int64     `json:"id"`
	OwnerID  int64     `json:"-"`
	Name     string    `json:"name"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
	AddedAt  time.Time `json:"addedAt"`
}

// Bookmark is a saved recipe. RecipeData holds the raw recipe JSON as
// returned by the recipe provider.
type Bookmark struct {
	OwnerID    int64     `json:"-"`
	RecipeID   int64     `json:"recipeId"`
	RecipeData []byte    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
