package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/book-catalog/internal/auth"
	"github.com/sakif/book-catalog/internal/service"
)

// BookHandler manages CRUD operations for books plus the search and
// recommendation reads.
type BookHandler struct {
	books  *service.BookService
	logger *slog.Logger
}

func NewBookHandler(books *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{books: books, logger: logger}
}

type createBookRequest struct {
	Title         string `json:"title" validate:"required"`
	AuthorID      string `json:"author_id" validate:"required"`
	PublishedDate string `json:"published_date" validate:"required"`
	Description   string `json:"description"`
}

type updateBookRequest struct {
	Title         *string `json:"title"`
	AuthorID      *string `json:"author_id"`
	PublishedDate *string `json:"published_date"`
	Description   *string `json:"description"`
}

// HandleList returns all books, or only matches when ?search=Q is present.
// The filter is a case-insensitive substring test on the title or the
// author name. Each book nests its full author object.
//
// HTTP: GET /books[?search=Q]
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list books", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// HandleRecommendations returns up to 5 books the caller has not favorited.
// An empty list is a normal 200.
//
// HTTP: GET /books/recommendations
func (h *BookHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't serve a nil user.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	books, err := h.books.Recommendations(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list recommendations",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// HandleGet returns a single book.
//
// HTTP: GET /books/{id}
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// HandleCreate creates a book. An author_id that resolves to no author is a
// 400 validation error.
//
// HTTP: POST /books
// Body: {"title", "author_id", "published_date", "description"?} → 201
func (h *BookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.books.Create(r.Context(), service.CreateBookParams{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		PublishedDate: req.PublishedDate,
		Description:   req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

// HandleUpdate applies a partial update. Both PUT and PATCH land here;
// absent fields are left unchanged.
//
// HTTP: PUT/PATCH /books/{id}
func (h *BookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.books.Update(r.Context(), r.PathValue("id"), service.UpdateBookParams{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		PublishedDate: req.PublishedDate,
		Description:   req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// HandleDelete removes a book.
//
// HTTP: DELETE /books/{id} → 204
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
