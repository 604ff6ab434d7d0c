package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

func TestCreateBook_AssignsID(t *testing.T) {
	db := newTestDB(t)
	author := seedAuthor(t, db, "Some Author")

	book := &model.Book{
		Title:         "A Title",
		AuthorID:      author.ID,
		PublishedDate: "1999-12-31",
	}
	if err := db.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	if book.ID == "" {
		t.Error("CreateBook() did not assign an ID")
	}
}

func TestCreateBook_UnknownAuthor(t *testing.T) {
	db := newTestDB(t)

	book := &model.Book{
		Title:         "Orphan",
		AuthorID:      "no-such-author",
		PublishedDate: "2001-01-01",
	}
	err := db.CreateBook(context.Background(), book)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("CreateBook() error = %v, want ErrValidation for unknown author", err)
	}
}

func TestGetBookByID_NestsAuthor(t *testing.T) {
	db := newTestDB(t)
	author := seedAuthor(t, db, "N. K. Jemisin")
	seeded := seedBook(t, db, "The Fifth Season", author.ID)

	got, err := db.GetBookByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetBookByID() error = %v", err)
	}
	if got.Title != "The Fifth Season" {
		t.Errorf("Title = %q, want %q", got.Title, "The Fifth Season")
	}
	if got.Author == nil {
		t.Fatal("GetBookByID() did not nest the author")
	}
	if got.Author.ID != author.ID || got.Author.Name != "N. K. Jemisin" {
		t.Errorf("nested author = %+v, want id=%s name=%q", got.Author, author.ID, "N. K. Jemisin")
	}
}

func TestGetBookByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetBookByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetBookByID() error = %v, want ErrNotFound", err)
	}
}

// The search filter matches a case-insensitive substring of either the book
// title or the author name.
func TestListBooks_SearchFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tolkien := seedAuthor(t, db, "J.R.R. Tolkien")
	herbert := seedAuthor(t, db, "Frank Herbert")
	seedBook(t, db, "The Hobbit", tolkien.ID)
	seedBook(t, db, "The Silmarillion", tolkien.ID)
	seedBook(t, db, "Dune", herbert.ID)

	tests := []struct {
		name       string
		search     string
		wantTitles []string
	}{
		{
			name:       "no filter returns everything",
			search:     "",
			wantTitles: []string{"The Hobbit", "The Silmarillion", "Dune"},
		},
		{
			name:       "matches title substring",
			search:     "hobbit",
			wantTitles: []string{"The Hobbit"},
		},
		{
			name:       "matches author name substring",
			search:     "tolkien",
			wantTitles: []string{"The Hobbit", "The Silmarillion"},
		},
		{
			name:       "case-insensitive",
			search:     "DUNE",
			wantTitles: []string{"Dune"},
		},
		{
			name:       "no match returns empty list",
			search:     "austen",
			wantTitles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := db.ListBooks(ctx, repository.BookFilter{Search: tt.search})
			if err != nil {
				t.Fatalf("ListBooks() error = %v", err)
			}

			got := make(map[string]bool, len(books))
			for _, b := range books {
				got[b.Title] = true
			}
			if len(books) != len(tt.wantTitles) {
				t.Fatalf("ListBooks(%q) = %d books, want %d", tt.search, len(books), len(tt.wantTitles))
			}
			for _, title := range tt.wantTitles {
				if !got[title] {
					t.Errorf("ListBooks(%q) missing %q", tt.search, title)
				}
			}
		})
	}
}

func TestListBooksExcludingFavorites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	author := seedAuthor(t, db, "Prolific Author")
	favored := seedBook(t, db, "Already Favorited", author.ID)
	seedBook(t, db, "Fresh Pick One", author.ID)
	seedBook(t, db, "Fresh Pick Two", author.ID)

	user := seedUser(t, db, "reader")
	seedFavorite(t, db, user.ID, favored.ID)

	books, err := db.ListBooksExcludingFavorites(ctx, user.ID, 5)
	if err != nil {
		t.Fatalf("ListBooksExcludingFavorites() error = %v", err)
	}

	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	for _, b := range books {
		if b.ID == favored.ID {
			t.Errorf("favorited book %q leaked into the results", b.Title)
		}
	}
}

func TestListBooksExcludingFavorites_RespectsLimit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	author := seedAuthor(t, db, "Prolific Author")
	for _, title := range []string{"One", "Two", "Three", "Four"} {
		seedBook(t, db, title, author.ID)
	}
	user := seedUser(t, db, "reader")

	books, err := db.ListBooksExcludingFavorites(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("ListBooksExcludingFavorites() error = %v", err)
	}
	if len(books) != 2 {
		t.Errorf("got %d books, want the limit of 2", len(books))
	}
}

func TestListBooksExcludingFavorites_EmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "reader")

	books, err := db.ListBooksExcludingFavorites(context.Background(), user.ID, 5)
	if err != nil {
		t.Fatalf("ListBooksExcludingFavorites() error = %v", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books from an empty catalog, want 0", len(books))
	}
}

func TestUpdateBook(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	author := seedAuthor(t, db, "Author A")
	other := seedAuthor(t, db, "Author B")
	book := seedBook(t, db, "First Draft", author.ID)

	book.Title = "Final Title"
	book.AuthorID = other.ID
	book.PublishedDate = "2022-06-01"
	if err := db.UpdateBook(ctx, book); err != nil {
		t.Fatalf("UpdateBook() error = %v", err)
	}

	got, err := db.GetBookByID(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBookByID() error = %v", err)
	}
	if got.Title != "Final Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Final Title")
	}
	if got.Author == nil || got.Author.Name != "Author B" {
		t.Errorf("nested author after reassignment = %+v, want Author B", got.Author)
	}
	if got.PublishedDate != "2022-06-01" {
		t.Errorf("PublishedDate = %q, want %q", got.PublishedDate, "2022-06-01")
	}
}

func TestUpdateBook_NotFound(t *testing.T) {
	db := newTestDB(t)
	author := seedAuthor(t, db, "Author A")

	err := db.UpdateBook(context.Background(), &model.Book{
		ID:            "no-such-id",
		Title:         "Ghost",
		AuthorID:      author.ID,
		PublishedDate: "2000-01-01",
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateBook() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteBook_CascadesToFavorites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	author := seedAuthor(t, db, "Author A")
	book := seedBook(t, db, "Short-lived", author.ID)
	user := seedUser(t, db, "reader")
	seedFavorite(t, db, user.ID, book.ID)

	if err := db.DeleteBook(ctx, book.ID); err != nil {
		t.Fatalf("DeleteBook() error = %v", err)
	}

	favorites, err := db.ListFavoritesByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListFavoritesByUser() error = %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("favorites survived the book delete: %d rows", len(favorites))
	}
}

func TestDeleteBook_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteBook(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteBook() error = %v, want ErrNotFound", err)
	}
}
