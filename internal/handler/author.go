package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/book-catalog/internal/service"
)

// AuthorHandler manages CRUD operations for authors. All routes require
// authentication; the middleware has already rejected anonymous requests
// by the time these run.
type AuthorHandler struct {
	authors *service.AuthorService
	logger  *slog.Logger
}

func NewAuthorHandler(authors *service.AuthorService, logger *slog.Logger) *AuthorHandler {
	return &AuthorHandler{authors: authors, logger: logger}
}

type createAuthorRequest struct {
	Name      string `json:"name" validate:"required"`
	Biography string `json:"biography"`
}

type updateAuthorRequest struct {
	Name      *string `json:"name"`
	Biography *string `json:"biography"`
}

// HandleList returns all authors.
//
// HTTP: GET /authors
func (h *AuthorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authors.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list authors", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authors)
}

// HandleGet returns a single author.
//
// HTTP: GET /authors/{id}
func (h *AuthorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	author, err := h.authors.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, author)
}

// HandleCreate creates an author.
//
// HTTP: POST /authors
// Body: {"name": ..., "biography"?: ...} → 201 + created author
func (h *AuthorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAuthorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	author, err := h.authors.Create(r.Context(), req.Name, req.Biography)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, author)
}

// HandleUpdate applies a partial update. Both PUT and PATCH land here;
// absent fields are left unchanged.
//
// HTTP: PUT/PATCH /authors/{id}
func (h *AuthorHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateAuthorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	author, err := h.authors.Update(r.Context(), r.PathValue("id"), service.UpdateAuthorParams{
		Name:      req.Name,
		Biography: req.Biography,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, author)
}

// HandleDelete removes an author and, through the storage cascade, all of
// their books.
//
// HTTP: DELETE /authors/{id} → 204
func (h *AuthorHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.authors.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
