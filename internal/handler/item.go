package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/game-list/internal/domain"
	"github.com/msomdec/game-list/internal/service"
)

// ItemHandler handles item-related HTTP requests.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// HandleCreate adds an item to one of the caller's lists.
// POST /items
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.ItemInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.items.Create(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(item))
}

// HandleList returns the caller's items matching every supplied filter.
// GET /items?listId=1&type=game&status=completed&search=zelda
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseItemFilter(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items, err := h.items.Find(r.Context(), UserIDFromContext(r.Context()), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTOs(items))
}

// HandleGet returns one item.
// GET /items/{id}
func (h *ItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.items.Get(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleUpdate applies a partial update.
// PATCH /items/{id}
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.ItemPatch
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.items.Update(r.Context(), UserIDFromContext(r.Context()), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleDelete removes an item.
// DELETE /items/{id}
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.items.Delete(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseItemFilter(r *http.Request) (domain.ItemFilter, error) {
	q := r.URL.Query()
	var filter domain.ItemFilter
	v := &domain.ValidationError{}

	if raw := q.Get("listId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			v.Add("listId", "must be a positive integer")
		} else {
			filter.ListID = &id
		}
	}
	if raw := q.Get("type"); raw != "" {
		t, err := domain.ParseItemType(raw)
		if err != nil {
			v.Merge(err)
		} else {
			filter.Type = &t
		}
	}
	if raw := q.Get("status"); raw != "" {
		st, err := domain.ParseItemStatus(raw)
		if err != nil {
			v.Merge(err)
		} else {
			filter.Status = &st
		}
	}
	filter.Search = strings.TrimSpace(q.Get("search"))

	return filter, v.Err()
}
