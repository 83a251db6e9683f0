package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type ListType string

const (
	ListTypeGamesPlayed   ListType = "games_played"
	ListTypeGamesToPlay   ListType = "games_to_play"
	ListTypeMoviesWatched ListType = "movies_watched"
	ListTypeMoviesToWatch ListType = "movies_to_watch"
	ListTypeSeriesWatched ListType = "series_watched"
	ListTypeSeriesToWatch ListType = "series_to_watch"
)

// ListTypes is the closed set of accepted list types.
var ListTypes = []ListType{
	ListTypeGamesPlayed,
	ListTypeGamesToPlay,
	ListTypeMoviesWatched,
	ListTypeMoviesToWatch,
	ListTypeSeriesWatched,
	ListTypeSeriesToWatch,
}

func (t ListType) Valid() bool {
	for _, lt := range ListTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// ParseListType converts a raw filter value, rejecting anything outside ListTypes.
func ParseListType(s string) (ListType, error) {
	t := ListType(s)
	if !t.Valid() {
		v := &ValidationError{}
		v.Add("type", fmt.Sprintf("must be one of %s", joinValues(ListTypes)))
		return "", v
	}
	return t, nil
}

const (
	maxListNameLength        = 100
	maxListDescriptionLength = 500
)

// List is a user-owned, typed collection of items.
type List struct {
	ID          int64
	UserID      int64
	Name        string
	Type        ListType
	Description *string
	Items       []Item
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListRepository persists lists. Every method is scoped to the owning user; a
// list owned by someone else is reported as ErrNotFound.
type ListRepository interface {
	Create(ctx context.Context, list *List) error
	GetByID(ctx context.Context, userID, id int64) (*List, error)
	ListByUser(ctx context.Context, userID int64, listType *ListType) ([]List, error)
	Update(ctx context.Context, list *List) error
	Delete(ctx context.Context, userID, id int64) error
}

// ListInput is the payload for creating a list.
type ListInput struct {
	Name        string   `json:"name"`
	Type        ListType `json:"type"`
	Description *string  `json:"description,omitempty"`
}

func (in ListInput) Validate() error {
	v := &ValidationError{}
	validateListName(v, in.Name)
	if !in.Type.Valid() {
		v.Add("type", fmt.Sprintf("must be one of %s", joinValues(ListTypes)))
	}
	validateMaxLength(v, "description", in.Description, maxListDescriptionLength)
	return v.Err()
}

// ListPatch carries a partial list update; nil fields are left unchanged.
type ListPatch struct {
	Name        *string   `json:"name,omitempty"`
	Type        *ListType `json:"type,omitempty"`
	Description *string   `json:"description,omitempty"`
}

func (p ListPatch) Validate() error {
	v := &ValidationError{}
	if p.Name != nil {
		validateListName(v, *p.Name)
	}
	if p.Type != nil && !p.Type.Valid() {
		v.Add("type", fmt.Sprintf("must be one of %s", joinValues(ListTypes)))
	}
	validateMaxLength(v, "description", p.Description, maxListDescriptionLength)
	return v.Err()
}

// Apply copies the set fields of the patch onto the list.
func (p ListPatch) Apply(l *List) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Description != nil {
		l.Description = p.Description
	}
}

func validateListName(v *ValidationError, name string) {
	if strings.TrimSpace(name) == "" {
		v.Add("name", "must not be empty")
		return
	}
	if utf8.RuneCountInString(name) > maxListNameLength {
		v.Add("name", fmt.Sprintf("must be at most %d characters", maxListNameLength))
	}
}

func validateMaxLength(v *ValidationError, field string, value *string, max int) {
	if value != nil && utf8.RuneCountInString(*value) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, val := range values {
		s[i] = string(val)
	}
	return strings.Join(s, ", ")
}
