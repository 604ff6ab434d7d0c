package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

// compile-time check that *DB implements repository.FavoriteRepository
var _ repository.FavoriteRepository = (*DB)(nil)

// CreateFavorite inserts a favorite row. Two constraint translations:
//   - UNIQUE(user_id, book_id) → apperror.ErrConflict. The constraint, not
//     an application-level check, guards against duplicates, so concurrent
//     identical requests leave exactly one row.
//   - FOREIGN KEY on book_id → apperror.ErrValidation (unknown book).
func (db *DB) CreateFavorite(ctx context.Context, favorite *model.UserFavorite) error {
	favorite.ID = xid.New().String()
	favorite.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_favorites (id, user_id, book_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		favorite.ID,
		favorite.UserID,
		favorite.BookID,
		favorite.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("favorite",
				fmt.Sprintf("book %s is already a favorite", favorite.BookID))
		}
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("book_id",
				fmt.Sprintf("book %s does not exist", favorite.BookID))
		}
		return fmt.Errorf("sqlite: creating favorite: %w", err)
	}

	return nil
}

// ListFavoritesByUser returns only the given user's favorites. The scoping
// lives here, not in the handler — there is no unscoped listing at all.
func (db *DB) ListFavoritesByUser(ctx context.Context, userID string) ([]model.UserFavorite, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, book_id, created_at
		 FROM user_favorites
		 WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	favorites := []model.UserFavorite{}
	for rows.Next() {
		var f model.UserFavorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.BookID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating favorites: %w", err)
	}

	return favorites, nil
}

// DeleteOwnedFavorite deletes a favorite only if it belongs to userID. The
// WHERE clause cannot tell "no such row" from "someone else's row", and
// neither can the caller: both come back as NotFound, so guessing ids
// reveals nothing about other users' favorites.
func (db *DB) DeleteOwnedFavorite(ctx context.Context, userID, favoriteID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE id = ? AND user_id = ?`,
		favoriteID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting favorite %s: %w", favoriteID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("favorite", favoriteID)
	}

	return nil
}
