package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/book-catalog/internal/model"
)

// newTestDB opens an in-memory database with the full schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(\":memory:\"): %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func seedAuthor(t *testing.T, db *DB, name string) *model.Author {
	t.Helper()

	author := &model.Author{Name: name, Biography: "bio of " + name}
	if err := db.CreateAuthor(context.Background(), author); err != nil {
		t.Fatalf("seeding author %q: %v", name, err)
	}
	return author
}

func seedBook(t *testing.T, db *DB, title, authorID string) *model.Book {
	t.Helper()

	book := &model.Book{
		Title:         title,
		AuthorID:      authorID,
		Description:   "about " + title,
		PublishedDate: "2020-01-15",
	}
	if err := db.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("seeding book %q: %v", title, err)
	}
	return book
}

func seedUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()

	user := &model.User{Username: username, PasswordHash: "$2a$04$fakefakefakefakefakefake"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %q: %v", username, err)
	}
	return user
}

func seedFavorite(t *testing.T, db *DB, userID, bookID string) *model.UserFavorite {
	t.Helper()

	fav := &model.UserFavorite{UserID: userID, BookID: bookID}
	if err := db.CreateFavorite(context.Background(), fav); err != nil {
		t.Fatalf("seeding favorite (user %s, book %s): %v", userID, bookID, err)
	}
	return fav
}
