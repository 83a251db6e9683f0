package service

import (
	"context"
	"fmt"

	"github.com/msomdec/game-list/internal/domain"
)

// ItemService handles item CRUD for the authenticated user. Ownership is
// resolved through the item's list.
type ItemService struct {
	items domain.ItemRepository
}

// NewItemService creates a new ItemService.
func NewItemService(items domain.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

// Create adds an item to one of the user's lists. A list the user does not
// own is ErrNotFound.
func (s *ItemService) Create(ctx context.Context, userID int64, in domain.ItemInput) (*domain.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := in.Item()
	if err := s.items.Create(ctx, userID, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *ItemService) Find(ctx context.Context, userID int64, filter domain.ItemFilter) ([]domain.Item, error) {
	return s.items.Find(ctx, userID, filter)
}

func (s *ItemService) Get(ctx context.Context, userID, id int64) (*domain.Item, error) {
	return s.items.GetByID(ctx, userID, id)
}

// Update applies a partial update. Moving the item to another list requires
// owning that list too.
func (s *ItemService) Update(ctx context.Context, userID, id int64, patch domain.ItemPatch) (*domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(item)

	if err := s.items.Update(ctx, userID, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, userID, id int64) error {
	return s.items.Delete(ctx, userID, id)
}
