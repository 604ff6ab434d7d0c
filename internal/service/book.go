package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

const (
	MaxBookTitleLength = 255

	// RecommendationLimit caps the recommendation result. The selection is
	// pure exclusion: up to this many books the user has not favorited, in
	// storage order, no ranking.
	RecommendationLimit = 5

	// publishedDateLayout is the wire and storage format for the
	// publication date — a calendar date, no time component.
	publishedDateLayout = time.DateOnly
)

// BookService handles business logic for catalog entries.
type BookService struct {
	books   repository.BookRepository
	authors repository.AuthorRepository
	logger  *slog.Logger
}

func NewBookService(books repository.BookRepository, authors repository.AuthorRepository, logger *slog.Logger) *BookService {
	return &BookService{books: books, authors: authors, logger: logger}
}

// CreateBookParams carries the fields for a new book.
type CreateBookParams struct {
	Title         string
	AuthorID      string
	PublishedDate string
	Description   string
}

// UpdateBookParams carries a partial update. Nil means "leave unchanged".
type UpdateBookParams struct {
	Title         *string
	AuthorID      *string
	PublishedDate *string
	Description   *string
}

// Create validates and stores a new book. The author must exist — an
// unknown author_id is a validation error (400), not a 404: the missing
// resource is a field of the request, not the request target.
func (s *BookService) Create(ctx context.Context, params CreateBookParams) (*model.Book, error) {
	title := strings.TrimSpace(params.Title)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "book title is required")
	}
	if len(title) > MaxBookTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("book title must be %d characters or less", MaxBookTitleLength))
	}
	if params.AuthorID == "" {
		return nil, apperror.ValidationFailed("author_id", "author_id is required")
	}
	if err := validatePublishedDate(params.PublishedDate); err != nil {
		return nil, err
	}

	author, err := s.authors.GetAuthorByID(ctx, params.AuthorID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("author_id",
				fmt.Sprintf("author %s does not exist", params.AuthorID))
		}
		return nil, fmt.Errorf("checking author %s: %w", params.AuthorID, err)
	}

	book := &model.Book{
		Title:         title,
		AuthorID:      author.ID,
		Author:        author,
		Description:   strings.TrimSpace(params.Description),
		PublishedDate: params.PublishedDate,
	}
	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("creating book: %w", err)
	}

	s.logger.Info("book created",
		slog.String("id", book.ID),
		slog.String("title", book.Title),
		slog.String("authorID", book.AuthorID),
	)

	return book, nil
}

func (s *BookService) GetByID(ctx context.Context, id string) (*model.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "book ID is required")
	}

	return s.books.GetBookByID(ctx, id)
}

// List returns all books, or only the search matches when search is
// non-empty. The filter is a case-insensitive substring test on the title
// or the author's name; everything else is storage order.
func (s *BookService) List(ctx context.Context, search string) ([]model.Book, error) {
	books, err := s.books.ListBooks(ctx, repository.BookFilter{
		Search: strings.TrimSpace(search),
	})
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

// Recommendations returns up to RecommendationLimit books the user has not
// favorited. An empty result is a normal response, never an error.
func (s *BookService) Recommendations(ctx context.Context, userID string) ([]model.Book, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("user", "user ID is required")
	}

	books, err := s.books.ListBooksExcludingFavorites(ctx, userID, RecommendationLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations for user %s: %w", userID, err)
	}
	return books, nil
}

// Update applies a partial update (fetch then update). Changing author_id
// re-runs the author existence check and refreshes the nested author in
// the returned representation.
func (s *BookService) Update(ctx context.Context, id string, params UpdateBookParams) (*model.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "book ID is required")
	}

	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "book title must not be empty")
		}
		if len(title) > MaxBookTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("book title must be %d characters or less", MaxBookTitleLength))
		}
		book.Title = title
	}
	if params.AuthorID != nil && *params.AuthorID != book.AuthorID {
		author, err := s.authors.GetAuthorByID(ctx, *params.AuthorID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.ValidationFailed("author_id",
					fmt.Sprintf("author %s does not exist", *params.AuthorID))
			}
			return nil, fmt.Errorf("checking author %s: %w", *params.AuthorID, err)
		}
		book.AuthorID = author.ID
		book.Author = author
	}
	if params.PublishedDate != nil {
		if err := validatePublishedDate(*params.PublishedDate); err != nil {
			return nil, err
		}
		book.PublishedDate = *params.PublishedDate
	}
	if params.Description != nil {
		book.Description = strings.TrimSpace(*params.Description)
	}

	if err := s.books.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("updating book %s: %w", id, err)
	}

	s.logger.Info("book updated", slog.String("id", book.ID))

	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "book ID is required")
	}

	if err := s.books.DeleteBook(ctx, id); err != nil {
		return err
	}

	s.logger.Info("book deleted", slog.String("id", id))
	return nil
}

func validatePublishedDate(value string) error {
	if value == "" {
		return apperror.ValidationFailed("published_date", "published_date is required")
	}
	if _, err := time.Parse(publishedDateLayout, value); err != nil {
		return apperror.ValidationFailed("published_date",
			"published_date must be a calendar date in YYYY-MM-DD format")
	}
	return nil
}
