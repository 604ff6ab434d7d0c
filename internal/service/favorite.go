package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

// FavoriteService manages a user's favorite list. Every operation takes the
// authenticated userID explicitly — the caller can only ever touch their
// own rows, and the scoping happens in the queries, not in handler checks.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	logger    *slog.Logger
}

func NewFavoriteService(favorites repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, logger: logger}
}

// List returns the caller's favorites only.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.UserFavorite, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("user", "user ID is required")
	}

	favorites, err := s.favorites.ListFavoritesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return favorites, nil
}

// Create marks a book as a favorite of the caller. A duplicate (user, book)
// pair is a conflict; an unknown book is a validation error. Both come from
// the storage constraints, so concurrent duplicates store exactly one row.
func (s *FavoriteService) Create(ctx context.Context, userID, bookID string) (*model.UserFavorite, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("user", "user ID is required")
	}
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, apperror.ValidationFailed("book_id", "book_id is required")
	}

	favorite := &model.UserFavorite{
		UserID: userID,
		BookID: bookID,
	}
	if err := s.favorites.CreateFavorite(ctx, favorite); err != nil {
		return nil, fmt.Errorf("creating favorite: %w", err)
	}

	s.logger.Info("favorite created",
		slog.String("id", favorite.ID),
		slog.String("userID", userID),
		slog.String("bookID", bookID),
	)

	return favorite, nil
}

// Delete removes one of the caller's favorites. A favorite that does not
// exist or belongs to another user is NotFound either way — the response
// never confirms that someone else's row exists.
func (s *FavoriteService) Delete(ctx context.Context, userID, favoriteID string) error {
	if userID == "" {
		return apperror.ValidationFailed("user", "user ID is required")
	}
	favoriteID = strings.TrimSpace(favoriteID)
	if favoriteID == "" {
		return apperror.ValidationFailed("id", "favorite ID is required")
	}

	if err := s.favorites.DeleteOwnedFavorite(ctx, userID, favoriteID); err != nil {
		return err
	}

	s.logger.Info("favorite deleted",
		slog.String("id", favoriteID),
		slog.String("userID", userID),
	)
	return nil
}
