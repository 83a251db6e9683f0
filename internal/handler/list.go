package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/msomdec/game-list/internal/domain"
	"github.com/msomdec/game-list/internal/service"
)

// ListHandler handles list-related HTTP requests. Every route runs behind
// RequireAuth and acts on the caller's own lists only.
type ListHandler struct {
	lists *service.ListService
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists *service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

// HandleCreate creates a list.
// POST /lists
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.ListInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.lists.Create(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListDTO(list))
}

// HandleList returns the caller's lists with their items.
// GET /lists?type=games_played
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var listType *domain.ListType
	if raw := r.URL.Query().Get("type"); raw != "" {
		lt, err := domain.ParseListType(raw)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		listType = &lt
	}

	lists, err := h.lists.ListByUser(r.Context(), UserIDFromContext(r.Context()), listType)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTOs(lists))
}

// HandleGet returns one list with its items.
// GET /lists/{id}
func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := h.lists.Get(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(list))
}

// HandleUpdate applies a partial update.
// PATCH /lists/{id}
func (h *ListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.ListPatch
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.lists.Update(r.Context(), UserIDFromContext(r.Context()), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(list))
}

// HandleDelete removes a list and its items.
// DELETE /lists/{id}
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.lists.Delete(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} URL parameter, writing a 400 when it is not a
// positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
