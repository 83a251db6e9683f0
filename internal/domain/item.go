package domain

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

type ItemType string

const (
	ItemTypeGame   ItemType = "game"
	ItemTypeMovie  ItemType = "movie"
	ItemTypeSeries ItemType = "series"
)

var ItemTypes = []ItemType{ItemTypeGame, ItemTypeMovie, ItemTypeSeries}

func (t ItemType) Valid() bool {
	for _, it := range ItemTypes {
		if t == it {
			return true
		}
	}
	return false
}

type ItemStatus string

const (
	ItemStatusCompleted       ItemStatus = "completed"
	ItemStatusWantToPlayWatch ItemStatus = "want_to_play_watch"
	ItemStatusInProgress      ItemStatus = "in_progress"
	ItemStatusDropped         ItemStatus = "dropped"
)

var ItemStatuses = []ItemStatus{
	ItemStatusCompleted,
	ItemStatusWantToPlayWatch,
	ItemStatusInProgress,
	ItemStatusDropped,
}

func (s ItemStatus) Valid() bool {
	for _, st := range ItemStatuses {
		if s == st {
			return true
		}
	}
	return false
}

const (
	maxItemTitleLength       = 200
	maxItemDescriptionLength = 1000
	maxItemNotesLength       = 1000
	MinReleaseYear           = 1900
	MaxReleaseYear           = 2030
	MinRating                = 0.0
	MaxRating                = 10.0
)

// Item is a single game, movie or series inside a list.
type Item struct {
	ID          int64
	ListID      int64
	Title       string
	Type        ItemType
	Status      ItemStatus
	Description *string
	Genre       *string
	ReleaseYear *int
	Rating      *float64
	Notes       *string
	ImageURL    *string
	Platform    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemFilter selects the items returned by ItemRepository.Find. Filters are
// applied together; the zero value matches every item the user owns.
type ItemFilter struct {
	ListID *int64
	// ListType matches on the parent list's type rather than the item's.
	ListType *ListType
	Type     *ItemType
	Status   *ItemStatus
	Search   string
}

// ItemRepository persists items. Ownership is resolved through the parent list:
// an item whose list belongs to another user is reported as ErrNotFound.
type ItemRepository interface {
	Create(ctx context.Context, userID int64, item *Item) error
	GetByID(ctx context.Context, userID, id int64) (*Item, error)
	Find(ctx context.Context, userID int64, filter ItemFilter) ([]Item, error)
	ListByList(ctx context.Context, userID, listID int64) ([]Item, error)
	Update(ctx context.Context, userID int64, item *Item) error
	Delete(ctx context.Context, userID, id int64) error
}

// ItemInput is the payload for creating an item.
type ItemInput struct {
	Title       string     `json:"title"`
	Type        ItemType   `json:"type"`
	Status      ItemStatus `json:"status"`
	Description *string    `json:"description,omitempty"`
	Genre       *string    `json:"genre,omitempty"`
	ReleaseYear *int       `json:"releaseYear,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	Platform    *string    `json:"platform,omitempty"`
	ListID      int64      `json:"listId"`
}

func (in ItemInput) Validate() error {
	v := &ValidationError{}
	validateTitle(v, in.Title)
	if !in.Type.Valid() {
		v.Add("type", fmt.Sprintf("must be one of %s", joinValues(ItemTypes)))
	}
	if !in.Status.Valid() {
		v.Add("status", fmt.Sprintf("must be one of %s", joinValues(ItemStatuses)))
	}
	validateItemOptionals(v, in.Description, in.ReleaseYear, in.Rating, in.Notes, in.ImageURL)
	if in.ListID <= 0 {
		v.Add("listId", "must be a positive integer")
	}
	return v.Err()
}

// Item builds the entity described by the input.
func (in ItemInput) Item() *Item {
	return &Item{
		ListID:      in.ListID,
		Title:       in.Title,
		Type:        in.Type,
		Status:      in.Status,
		Description: in.Description,
		Genre:       in.Genre,
		ReleaseYear: in.ReleaseYear,
		Rating:      in.Rating,
		Notes:       in.Notes,
		ImageURL:    in.ImageURL,
		Platform:    in.Platform,
	}
}

// ItemPatch carries a partial item update; nil fields are left unchanged.
type ItemPatch struct {
	Title       *string     `json:"title,omitempty"`
	Type        *ItemType   `json:"type,omitempty"`
	Status      *ItemStatus `json:"status,omitempty"`
	Description *string     `json:"description,omitempty"`
	Genre       *string     `json:"genre,omitempty"`
	ReleaseYear *int        `json:"releaseYear,omitempty"`
	Rating      *float64    `json:"rating,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
	ImageURL    *string     `json:"imageUrl,omitempty"`
	Platform    *string     `json:"platform,omitempty"`
	ListID      *int64      `json:"listId,omitempty"`
}

func (p ItemPatch) Validate() error {
	v := &ValidationError{}
	if p.Title != nil {
		validateTitle(v, *p.Title)
	}
	if p.Type != nil && !p.Type.Valid() {
		v.Add("type", fmt.Sprintf("must be one of %s", joinValues(ItemTypes)))
	}
	if p.Status != nil && !p.Status.Valid() {
		v.Add("status", fmt.Sprintf("must be one of %s", joinValues(ItemStatuses)))
	}
	validateItemOptionals(v, p.Description, p.ReleaseYear, p.Rating, p.Notes, p.ImageURL)
	if p.ListID != nil && *p.ListID <= 0 {
		v.Add("listId", "must be a positive integer")
	}
	return v.Err()
}

// Apply copies the set fields of the patch onto the item.
func (p ItemPatch) Apply(it *Item) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Description != nil {
		it.Description = p.Description
	}
	if p.Genre != nil {
		it.Genre = p.Genre
	}
	if p.ReleaseYear != nil {
		it.ReleaseYear = p.ReleaseYear
	}
	if p.Rating != nil {
		it.Rating = p.Rating
	}
	if p.Notes != nil {
		it.Notes = p.Notes
	}
	if p.ImageURL != nil {
		it.ImageURL = p.ImageURL
	}
	if p.Platform != nil {
		it.Platform = p.Platform
	}
	if p.ListID != nil {
		it.ListID = *p.ListID
	}
}

// ParseItemType converts a raw filter value, rejecting anything outside ItemTypes.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.Valid() {
		v := &ValidationError{}
		v.Add("type", fmt.Sprintf("must be one of %s", joinValues(ItemTypes)))
		return "", v
	}
	return t, nil
}

// ParseItemStatus converts a raw filter value, rejecting anything outside ItemStatuses.
func ParseItemStatus(s string) (ItemStatus, error) {
	st := ItemStatus(s)
	if !st.Valid() {
		v := &ValidationError{}
		v.Add("status", fmt.Sprintf("must be one of %s", joinValues(ItemStatuses)))
		return "", v
	}
	return st, nil
}

func validateTitle(v *ValidationError, title string) {
	if strings.TrimSpace(title) == "" {
		v.Add("title", "must not be empty")
		return
	}
	if utf8.RuneCountInString(title) > maxItemTitleLength {
		v.Add("title", fmt.Sprintf("must be at most %d characters", maxItemTitleLength))
	}
}

func validateItemOptionals(v *ValidationError, description *string, releaseYear *int, rating *float64, notes, imageURL *string) {
	validateMaxLength(v, "description", description, maxItemDescriptionLength)
	if releaseYear != nil && (*releaseYear < MinReleaseYear || *releaseYear > MaxReleaseYear) {
		v.Add("releaseYear", fmt.Sprintf("must be between %d and %d", MinReleaseYear, MaxReleaseYear))
	}
	if rating != nil {
		r := *rating
		if math.IsNaN(r) || r < MinRating || r > MaxRating {
			v.Add("rating", "must be between 0 and 10")
		} else if scaled := r * 10; math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			v.Add("rating", "must have at most one decimal place")
		}
	}
	validateMaxLength(v, "notes", notes, maxItemNotesLength)
	if imageURL != nil && !isHTTPURL(*imageURL) {
		v.Add("imageUrl", "must be a valid http or https URL")
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
