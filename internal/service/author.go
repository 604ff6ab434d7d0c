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

const MaxAuthorNameLength = 255

// AuthorService handles business logic for authors.
type AuthorService struct {
	authors repository.AuthorRepository
	logger  *slog.Logger
}

func NewAuthorService(authors repository.AuthorRepository, logger *slog.Logger) *AuthorService {
	return &AuthorService{authors: authors, logger: logger}
}

// UpdateAuthorParams carries a partial update. Nil means "leave unchanged".
type UpdateAuthorParams struct {
	Name      *string
	Biography *string
}

func (s *AuthorService) Create(ctx context.Context, name, biography string) (*model.Author, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "author name is required")
	}
	if len(name) > MaxAuthorNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("author name must be %d characters or less", MaxAuthorNameLength))
	}

	author := &model.Author{
		Name:      name,
		Biography: strings.TrimSpace(biography),
	}
	if err := s.authors.CreateAuthor(ctx, author); err != nil {
		return nil, fmt.Errorf("creating author: %w", err)
	}

	s.logger.Info("author created",
		slog.String("id", author.ID),
		slog.String("name", author.Name),
	)

	return author, nil
}

func (s *AuthorService) GetByID(ctx context.Context, id string) (*model.Author, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "author ID is required")
	}

	return s.authors.GetAuthorByID(ctx, id)
}

func (s *AuthorService) List(ctx context.Context) ([]model.Author, error) {
	authors, err := s.authors.ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	return authors, nil
}

// Update applies a partial update using the fetch-then-update strategy:
// confirm the author exists, overlay the provided fields, save. The
// NotFound for an unknown id falls out of the initial fetch.
func (s *AuthorService) Update(ctx context.Context, id string, params UpdateAuthorParams) (*model.Author, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "author ID is required")
	}

	author, err := s.authors.GetAuthorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "author name must not be empty")
		}
		if len(name) > MaxAuthorNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("author name must be %d characters or less", MaxAuthorNameLength))
		}
		author.Name = name
	}
	if params.Biography != nil {
		author.Biography = strings.TrimSpace(*params.Biography)
	}

	if err := s.authors.UpdateAuthor(ctx, author); err != nil {
		return nil, fmt.Errorf("updating author %s: %w", id, err)
	}

	s.logger.Info("author updated", slog.String("id", author.ID))

	return author, nil
}

// Delete removes an author. The storage cascade deletes their books and,
// transitively, any favorites of those books.
func (s *AuthorService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "author ID is required")
	}

	if err := s.authors.DeleteAuthor(ctx, id); err != nil {
		return err
	}

	s.logger.Info("author deleted", slog.String("id", id))
	return nil
}
