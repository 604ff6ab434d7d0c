package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

// compile-time check that *DB implements repository.AuthorRepository
var _ repository.AuthorRepository = (*DB)(nil)

// CreateAuthor inserts a new author, generating the ID and timestamps in
// place so the caller gets the canonical record back.
func (db *DB) CreateAuthor(ctx context.Context, author *model.Author) error {
	author.ID = xid.New().String()
	now := time.Now()
	author.CreatedAt = now
	author.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO authors (id, name, biography, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		author.ID,
		author.Name,
		author.Biography,
		author.CreatedAt,
		author.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating author: %w", err)
	}

	return nil
}

// GetAuthorByID retrieves a single author. Returns apperror.ErrNotFound if
// no author exists with that ID.
func (db *DB) GetAuthorByID(ctx context.Context, id string) (*model.Author, error) {
	var a model.Author

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, biography, created_at, updated_at
		 FROM authors
		 WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Name, &a.Biography, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("author", id)
		}
		return nil, fmt.Errorf("sqlite: getting author %s: %w", id, err)
	}

	return &a, nil
}

// ListAuthors returns all authors in storage order.
func (db *DB) ListAuthors(ctx context.Context) ([]model.Author, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, biography, created_at, updated_at FROM authors`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing authors: %w", err)
	}
	defer rows.Close()

	authors := []model.Author{}
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Biography, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning author row: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating authors: %w", err)
	}

	return authors, nil
}

// UpdateAuthor rewrites an author's mutable fields. RowsAffected
// distinguishes "updated" from "no such author".
func (db *DB) UpdateAuthor(ctx context.Context, author *model.Author) error {
	author.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE authors
		 SET name = ?, biography = ?, updated_at = ?
		 WHERE id = ?`,
		author.Name,
		author.Biography,
		author.UpdatedAt,
		author.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating author %s: %w", author.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("author", author.ID)
	}

	return nil
}

// DeleteAuthor removes an author. ON DELETE CASCADE takes the author's
// books and those books' favorites with it.
func (db *DB) DeleteAuthor(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM authors WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting author %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("author", id)
	}

	return nil
}
