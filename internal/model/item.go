package model

import "time"

// ItemStatus is the lifecycle state of a pantry item.
type ItemStatus string

// Item statuses. Used and wasted are terminal.
const (
	ItemStatusActive ItemStatus = "active"
	ItemStatusUsed   ItemStatus = "used"
	ItemStatusWasted ItemStatus = "wasted"
)

// Valid reports whether s is one of the known statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusActive, ItemStatusUsed, ItemStatusWasted:
		return true
	}
	return false
}

// Item is a perishable household item owned by a single user.
type Item struct {
	ID         string     `json:"id"`
	OwnerID    int64      `json:"ownerId"`
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	ExpiryDate *time.Time `json:"expiryDate"`
	DateAdded  time.Time  `json:"dateAdded"`
	Status     ItemStatus `json:"status"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
