package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/auth"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

// In-memory fakes for the repository interfaces. They mirror the storage
// semantics the services rely on (conflicts, not-found, scoping) without a
// database.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int
	// getErr, when set, is returned by every lookup. Simulates storage
	// failure paths.
	getErr error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", fmt.Sprintf("username %q is already taken", user.Username))
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

type fakeAuthorRepo struct {
	authors map[string]*model.Author
	nextID  int
}

var _ repository.AuthorRepository = (*fakeAuthorRepo)(nil)

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{authors: map[string]*model.Author{}}
}

func (f *fakeAuthorRepo) CreateAuthor(_ context.Context, author *model.Author) error {
	f.nextID++
	author.ID = fmt.Sprintf("author-%d", f.nextID)
	author.CreatedAt = time.Now()
	author.UpdatedAt = author.CreatedAt
	stored := *author
	f.authors[author.ID] = &stored
	return nil
}

func (f *fakeAuthorRepo) GetAuthorByID(_ context.Context, id string) (*model.Author, error) {
	if a, ok := f.authors[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, apperror.NotFound("author", id)
}

func (f *fakeAuthorRepo) ListAuthors(_ context.Context) ([]model.Author, error) {
	authors := []model.Author{}
	for _, a := range f.authors {
		authors = append(authors, *a)
	}
	return authors, nil
}

func (f *fakeAuthorRepo) UpdateAuthor(_ context.Context, author *model.Author) error {
	if _, ok := f.authors[author.ID]; !ok {
		return apperror.NotFound("author", author.ID)
	}
	author.UpdatedAt = time.Now()
	stored := *author
	f.authors[author.ID] = &stored
	return nil
}

func (f *fakeAuthorRepo) DeleteAuthor(_ context.Context, id string) error {
	if _, ok := f.authors[id]; !ok {
		return apperror.NotFound("author", id)
	}
	delete(f.authors, id)
	return nil
}

type fakeBookRepo struct {
	books  map[string]*model.Book
	nextID int
}

var _ repository.BookRepository = (*fakeBookRepo)(nil)

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[string]*model.Book{}}
}

func (f *fakeBookRepo) CreateBook(_ context.Context, book *model.Book) error {
	f.nextID++
	book.ID = fmt.Sprintf("book-%d", f.nextID)
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) GetBookByID(_ context.Context, id string) (*model.Book, error) {
	if b, ok := f.books[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, apperror.NotFound("book", id)
}

func (f *fakeBookRepo) ListBooks(_ context.Context, _ repository.BookFilter) ([]model.Book, error) {
	books := []model.Book{}
	for _, b := range f.books {
		books = append(books, *b)
	}
	return books, nil
}

func (f *fakeBookRepo) ListBooksExcludingFavorites(_ context.Context, _ string, limit int) ([]model.Book, error) {
	books := []model.Book{}
	for _, b := range f.books {
		if len(books) == limit {
			break
		}
		books = append(books, *b)
	}
	return books, nil
}

func (f *fakeBookRepo) UpdateBook(_ context.Context, book *model.Book) error {
	if _, ok := f.books[book.ID]; !ok {
		return apperror.NotFound("book", book.ID)
	}
	book.UpdatedAt = time.Now()
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) DeleteBook(_ context.Context, id string) error {
	if _, ok := f.books[id]; !ok {
		return apperror.NotFound("book", id)
	}
	delete(f.books, id)
	return nil
}

type fakeFavoriteRepo struct {
	favorites map[string]*model.UserFavorite
	nextID    int
}

var _ repository.FavoriteRepository = (*fakeFavoriteRepo)(nil)

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: map[string]*model.UserFavorite{}}
}

func (f *fakeFavoriteRepo) CreateFavorite(_ context.Context, favorite *model.UserFavorite) error {
	for _, existing := range f.favorites {
		if existing.UserID == favorite.UserID && existing.BookID == favorite.BookID {
			return apperror.Conflict("favorite",
				fmt.Sprintf("book %s is already a favorite", favorite.BookID))
		}
	}
	f.nextID++
	favorite.ID = fmt.Sprintf("favorite-%d", f.nextID)
	favorite.CreatedAt = time.Now()
	stored := *favorite
	f.favorites[favorite.ID] = &stored
	return nil
}

func (f *fakeFavoriteRepo) ListFavoritesByUser(_ context.Context, userID string) ([]model.UserFavorite, error) {
	favorites := []model.UserFavorite{}
	for _, fav := range f.favorites {
		if fav.UserID == userID {
			favorites = append(favorites, *fav)
		}
	}
	return favorites, nil
}

func (f *fakeFavoriteRepo) DeleteOwnedFavorite(_ context.Context, userID, favoriteID string) error {
	fav, ok := f.favorites[favoriteID]
	if !ok || fav.UserID != userID {
		return apperror.NotFound("favorite", favoriteID)
	}
	delete(f.favorites, favoriteID)
	return nil
}

// Keep bcrypt cheap in tests.
func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceForTest(bcrypt.MinCost)
}
