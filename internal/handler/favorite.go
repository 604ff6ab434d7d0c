package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/book-catalog/internal/auth"
	"github.com/sakif/book-catalog/internal/service"
)

// FavoriteHandler manages the caller's favorite list. The authenticated
// userID comes from the request context and is passed explicitly to the
// service — there is no way to name another user in these requests.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	logger    *slog.Logger
}

func NewFavoriteHandler(favorites *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

type createFavoriteRequest struct {
	BookID string `json:"book_id" validate:"required"`
}

// HandleList returns the caller's favorites.
//
// HTTP: GET /favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	favorites, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list favorites",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, favorites)
}

// HandleCreate adds a book to the caller's favorites. Favoriting the same
// book twice is a 409; an unknown book is a 400.
//
// HTTP: POST /favorites
// Body: {"book_id": ...} → 201
func (h *FavoriteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req createFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	favorite, err := h.favorites.Create(r.Context(), userID, req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, favorite)
}

// HandleDelete removes one of the caller's favorites. Another user's
// favorite id gets the same 404 as a nonexistent one.
//
// HTTP: DELETE /favorites/{id} → 204
func (h *FavoriteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	if err := h.favorites.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
