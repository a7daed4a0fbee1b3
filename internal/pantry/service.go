// Package pantry manages the lifecycle of pantry items: creation, edits and
// the one-way transition of an active item to used or wasted.
package pantry

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

// Store is the persistence the service needs. Lookups and updates that match
// no (owner, id) pair return a nil item and a nil error.
type Store interface {
	Insert(ctx context.Context, item *model.Item) error
	Get(ctx context.Context, ownerID int64, id string) (*model.Item, error)
	Update(ctx context.Context, ownerID int64, id string, quantity *float64, expiry *time.Time, now time.Time) (*model.Item, error)
	SetStatus(ctx context.Context, ownerID int64, id string, status model.ItemStatus, now time.Time) (*model.Item, error)
	ListByStatus(ctx context.Context, ownerID int64, status model.ItemStatus) ([]model.Item, error)
}

// AddInput describes a new item.
type AddInput struct {
	Name       string
	Quantity   float64
	ExpiryDate *time.Time
}

// UpdateInput is a partial edit. Nil fields are left unchanged.
type UpdateInput struct {
	Quantity   *float64
	ExpiryDate *time.Time
}

// Service applies item lifecycle operations on behalf of a single owner per call.
type Service struct {
	store Store
	clock func() time.Time
}

// NewService returns a Service. A nil clock defaults to time.Now.
func NewService(store Store, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock}
}

func (s *Service) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// Add creates an active item for ownerID. Duplicate names are allowed.
func (s *Service) Add(ctx context.Context, ownerID int64, in AddInput) (*model.Item, error) {
	const op = "add item"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError(op, "name is required")
	}
	if err := checkQuantity(in.Quantity); err != nil {
		return nil, validationError(op, err.Error())
	}

	now := s.now()
	item := &model.Item{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Quantity:   in.Quantity,
		ExpiryDate: normalizeExpiry(in.ExpiryDate),
		DateAdded:  now,
		Status:     model.ItemStatusActive,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return nil, storageError(op, err)
	}
	return item, nil
}

// Update edits quantity and/or expiry date. Status is never touched, so
// used and wasted items may still be corrected.
func (s *Service) Update(ctx context.Context, ownerID int64, id string, in UpdateInput) (*model.Item, error) {
	const op = "update item"

	if in.Quantity == nil && in.ExpiryDate == nil {
		return nil, validationError(op, "nothing to update")
	}
	if in.Quantity != nil {
		if err := checkQuantity(*in.Quantity); err != nil {
			return nil, validationError(op, err.Error())
		}
	}

	item, err := s.store.Update(ctx, ownerID, id, in.Quantity, normalizeExpiry(in.ExpiryDate), s.now())
	if err != nil {
		return nil, storageError(op, err)
	}
	if item == nil {
		return nil, notFoundError(op, id)
	}
	return item, nil
}

// MarkUsed records that the item was consumed.
func (s *Service) MarkUsed(ctx context.Context, ownerID int64, id string) (*model.Item, error) {
	return s.transition(ctx, "mark used", ownerID, id, model.ItemStatusUsed)
}

// MarkWasted records that the item was thrown away.
func (s *Service) MarkWasted(ctx context.Context, ownerID int64, id string) (*model.Item, error) {
	return s.transition(ctx, "mark wasted", ownerID, id, model.ItemStatusWasted)
}

// AutoWaste marks an expired item as wasted in place. The item stays
// queryable and counts towards waste statistics like any other wasted item.
func (s *Service) AutoWaste(ctx context.Context, ownerID int64, id string) (*model.Item, error) {
	return s.transition(ctx, "auto waste", ownerID, id, model.ItemStatusWasted)
}

// transition overwrites the status unconditionally. Two concurrent
// transitions on the same item resolve as last write wins.
func (s *Service) transition(ctx context.Context, op string, ownerID int64, id string, status model.ItemStatus) (*model.Item, error) {
	item, err := s.store.SetStatus(ctx, ownerID, id, status, s.now())
	if err != nil {
		return nil, storageError(op, err)
	}
	if item == nil {
		return nil, notFoundError(op, id)
	}
	return item, nil
}

// List returns the owner's items in the given status, soonest expiry first.
func (s *Service) List(ctx context.Context, ownerID int64, status model.ItemStatus) ([]model.Item, error) {
	const op = "list items"

	if !status.Valid() {
		return nil, validationError(op, "unknown status "+string(status))
	}
	items, err := s.store.ListByStatus(ctx, ownerID, status)
	if err != nil {
		return nil, storageError(op, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func checkQuantity(q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return errQuantityNotFinite
	}
	if q <= 0 {
		return errQuantityNotPositive
	}
	return nil
}

func normalizeExpiry(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Millisecond)
	return &u
}
