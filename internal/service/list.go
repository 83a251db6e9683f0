package service

import (
	"context"
	"fmt"

	"github.com/msomdec/game-list/internal/domain"
)

// ListService handles list CRUD for the authenticated user.
type ListService struct {
	lists domain.ListRepository
	items domain.ItemRepository
}

// NewListService creates a new ListService.
func NewListService(lists domain.ListRepository, items domain.ItemRepository) *ListService {
	return &ListService{lists: lists, items: items}
}

// Create validates the input and stores a new list owned by userID.
func (s *ListService) Create(ctx context.Context, userID int64, in domain.ListInput) (*domain.List, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	list := &domain.List{
		UserID:      userID,
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		Items:       []domain.Item{},
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return list, nil
}

// ListByUser returns the user's lists, newest first, each with its items.
// A nil listType returns every list.
func (s *ListService) ListByUser(ctx context.Context, userID int64, listType *domain.ListType) ([]domain.List, error) {
	lists, err := s.lists.ListByUser(ctx, userID, listType)
	if err != nil {
		return nil, err
	}

	// Same type filter as the lists, so items of excluded lists are never read.
	items, err := s.items.Find(ctx, userID, domain.ItemFilter{ListType: listType})
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	byList := make(map[int64][]domain.Item, len(lists))
	for _, it := range items {
		byList[it.ListID] = append(byList[it.ListID], it)
	}
	for i := range lists {
		lists[i].Items = byList[lists[i].ID]
		if lists[i].Items == nil {
			lists[i].Items = []domain.Item{}
		}
	}
	return lists, nil
}

// Get returns one of the user's lists with its items. Lists owned by someone
// else are ErrNotFound.
func (s *ListService) Get(ctx context.Context, userID, id int64) (*domain.List, error) {
	list, err := s.lists.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	list.Items, err = s.items.ListByList(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return list, nil
}

// Update applies a partial update to one of the user's lists.
func (s *ListService) Update(ctx context.Context, userID, id int64, patch domain.ListPatch) (*domain.List, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	list, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(list)

	if err := s.lists.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	return list, nil
}

// Delete removes one of the user's lists together with its items.
func (s *ListService) Delete(ctx context.Context, userID, id int64) error {
	return s.lists.Delete(ctx, userID, id)
}
