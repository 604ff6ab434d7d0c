package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/xid"
	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

// compile-time check that *DB implements repository.BookRepository
var _ repository.BookRepository = (*DB)(nil)

// bookColumns is the SELECT list shared by every book read. Reads join the
// authors table so the API can nest the full author object in each book.
var bookColumns = []string{
	"b.id", "b.title", "b.author_id", "b.description", "b.published_date",
	"b.created_at", "b.updated_at",
	"a.name", "a.biography", "a.created_at", "a.updated_at",
}

// scanBook reads one joined row into a Book with its Author populated.
func scanBook(scan func(dest ...any) error) (*model.Book, error) {
	var (
		b model.Book
		a model.Author
	)
	err := scan(
		&b.ID, &b.Title, &b.AuthorID, &b.Description, &b.PublishedDate,
		&b.CreatedAt, &b.UpdatedAt,
		&a.Name, &a.Biography, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = b.AuthorID
	b.Author = &a
	return &b, nil
}

// CreateBook inserts a new book. The author must already exist; a foreign
// key violation is translated to a validation error in case the row was
// deleted between the service's existence check and this insert.
func (db *DB) CreateBook(ctx context.Context, book *model.Book) error {
	book.ID = xid.New().String()
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO books (id, title, author_id, description, published_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.AuthorID,
		book.Description,
		book.PublishedDate,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("author_id",
				fmt.Sprintf("author %s does not exist", book.AuthorID))
		}
		return fmt.Errorf("sqlite: creating book: %w", err)
	}

	return nil
}

// GetBookByID retrieves a single book with its author nested. Returns
// apperror.ErrNotFound if no book exists with that ID.
func (db *DB) GetBookByID(ctx context.Context, id string) (*model.Book, error) {
	query, args, err := sq.Select(bookColumns...).
		From("books b").
		Join("authors a ON a.id = b.author_id").
		Where(sq.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building book query: %w", err)
	}

	book, err := scanBook(db.conn.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("book", id)
		}
		return nil, fmt.Errorf("sqlite: getting book %s: %w", id, err)
	}

	return book, nil
}

// ListBooks returns books in storage order. With a Search filter, only
// books whose title or author name contains the query (case-insensitive
// substring) are returned — the same semantics for both columns.
func (db *DB) ListBooks(ctx context.Context, filter repository.BookFilter) ([]model.Book, error) {
	qb := sq.Select(bookColumns...).
		From("books b").
		Join("authors a ON a.id = b.author_id")

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		qb = qb.Where(sq.Or{
			sq.Like{"lower(b.title)": pattern},
			sq.Like{"lower(a.name)": pattern},
		})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building books query: %w", err)
	}

	return db.queryBooks(ctx, query, args...)
}

// ListBooksExcludingFavorites returns up to limit books the user has not
// favorited, in storage order. A user with no favorites simply gets the
// first limit books; fewer eligible rows than limit is not an error.
func (db *DB) ListBooksExcludingFavorites(ctx context.Context, userID string, limit int) ([]model.Book, error) {
	query, args, err := sq.Select(bookColumns...).
		From("books b").
		Join("authors a ON a.id = b.author_id").
		Where(sq.Expr(
			"b.id NOT IN (SELECT book_id FROM user_favorites WHERE user_id = ?)",
			userID,
		)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building recommendations query: %w", err)
	}

	return db.queryBooks(ctx, query, args...)
}

func (db *DB) queryBooks(ctx context.Context, query string, args ...any) ([]model.Book, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing books: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning book row: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating books: %w", err)
	}

	return books, nil
}

// UpdateBook rewrites a book's mutable fields. RowsAffected distinguishes
// "updated" from "no such book".
func (db *DB) UpdateBook(ctx context.Context, book *model.Book) error {
	book.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE books
		 SET title = ?, author_id = ?, description = ?, published_date = ?, updated_at = ?
		 WHERE id = ?`,
		book.Title,
		book.AuthorID,
		book.Description,
		book.PublishedDate,
		book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("author_id",
				fmt.Sprintf("author %s does not exist", book.AuthorID))
		}
		return fmt.Errorf("sqlite: updating book %s: %w", book.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("book", book.ID)
	}

	return nil
}

// DeleteBook removes a book; favorites referencing it go with it via the
// cascade.
func (db *DB) DeleteBook(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM books WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting book %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("book", id)
	}

	return nil
}
