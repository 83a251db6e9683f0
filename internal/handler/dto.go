package handler

import (
	"time"

	"github.com/msomdec/game-list/internal/domain"
)

// UserDTO is the JSON representation of a user. It never carries the password hash.
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// AuthResponseDTO is returned by register and login.
type AuthResponseDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// ListDTO is the JSON representation of a list and, where loaded, its items.
type ListDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
	Items       []ItemDTO `json:"items"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

func toListDTO(l *domain.List) ListDTO {
	return ListDTO{
		ID:          l.ID,
		UserID:      l.UserID,
		Name:        l.Name,
		Type:        string(l.Type),
		Description: l.Description,
		Items:       toItemDTOs(l.Items),
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
}

func toListDTOs(lists []domain.List) []ListDTO {
	dtos := make([]ListDTO, len(lists))
	for i := range lists {
		dtos[i] = toListDTO(&lists[i])
	}
	return dtos
}

// ItemDTO is the JSON representation of an item. Optional fields are null when unset.
type ItemDTO struct {
	ID          int64    `json:"id"`
	ListID      int64    `json:"listId"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Description *string  `json:"description"`
	Genre       *string  `json:"genre"`
	ReleaseYear *int     `json:"releaseYear"`
	Rating      *float64 `json:"rating"`
	Notes       *string  `json:"notes"`
	ImageURL    *string  `json:"imageUrl"`
	Platform    *string  `json:"platform"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toItemDTO(it *domain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID,
		ListID:      it.ListID,
		Title:       it.Title,
		Type:        string(it.Type),
		Status:      string(it.Status),
		Description: it.Description,
		Genre:       it.Genre,
		ReleaseYear: it.ReleaseYear,
		Rating:      it.Rating,
		Notes:       it.Notes,
		ImageURL:    it.ImageURL,
		Platform:    it.Platform,
		CreatedAt:   it.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   it.UpdatedAt.Format(time.RFC3339),
	}
}

func toItemDTOs(items []domain.Item) []ItemDTO {
	dtos := make([]ItemDTO, len(items))
	for i := range items {
		dtos[i] = toItemDTO(&items[i])
	}
	return dtos
}
