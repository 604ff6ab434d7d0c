// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation, but
// the services never import it directly — tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/book-catalog/internal/model"
)

// BookFilter narrows a book listing. An empty Search means "everything".
type BookFilter struct {
	// Search matches as a case-insensitive substring against the book title
	// OR the author name.
	Search string
}

type AuthorRepository interface {
	CreateAuthor(ctx context.Context, author *model.Author) error
	GetAuthorByID(ctx context.Context, id string) (*model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	UpdateAuthor(ctx context.Context, author *model.Author) error
	// DeleteAuthor removes the author and, via ON DELETE CASCADE, all of
	// their books and those books' favorites.
	DeleteAuthor(ctx context.Context, id string) error
}

type BookRepository interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByID(ctx context.Context, id string) (*model.Book, error)
	ListBooks(ctx context.Context, filter BookFilter) ([]model.Book, error)
	// ListBooksExcludingFavorites returns up to limit books that the given
	// user has not favorited, in storage order.
	ListBooksExcludingFavorites(ctx context.Context, userID string, limit int) ([]model.Book, error)
	UpdateBook(ctx context.Context, book *model.Book) error
	DeleteBook(ctx context.Context, id string) error
}

type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if the
	// username is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type FavoriteRepository interface {
	// CreateFavorite inserts a favorite. Returns apperror.ErrConflict if
	// the (user, book) pair already exists and apperror.ErrValidation if
	// the book does not exist. Uniqueness is enforced by the database, so
	// concurrent duplicates collapse to a single row.
	CreateFavorite(ctx context.Context, favorite *model.UserFavorite) error
	ListFavoritesByUser(ctx context.Context, userID string) ([]model.UserFavorite, error)
	// DeleteOwnedFavorite removes a favorite only if it belongs to userID.
	// A row that is absent or owned by someone else yields
	// apperror.ErrNotFound either way, so non-owners learn nothing.
	DeleteOwnedFavorite(ctx context.Context, userID, favoriteID string) error
}
