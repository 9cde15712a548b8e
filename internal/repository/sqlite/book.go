package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bookRepo implements domain.BookRepository using SQLite.
type bookRepo struct {
	db *sql.DB
}

func (r *bookRepo) Create(ctx context.Context, book *domain.Book) error {
	if book.ID.IsZero() {
		book.ID = domain.NewID()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (id, title, author, published_year, genre, read_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID.Hex(), book.Title, book.Author, book.PublishedYear, book.Genre, int(book.Read), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

func (r *bookRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Book, error) {
	if len(ids) == 0 {
		return []domain.Book{}, nil
	}

	placeholders, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, title, author, published_year, genre, read_status, created_at, updated_at
		 FROM books WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("query books by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[primitive.ObjectID]domain.Book, len(ids))
	for rows.Next() {
		var (
			b     domain.Book
			idHex string
			read  int
		)
		if err := rows.Scan(&idHex, &b.Title, &b.Author, &b.PublishedYear, &b.Genre, &read, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			return nil, fmt.Errorf("decode book id %q: %w", idHex, err)
		}
		b.ID = id
		b.Read = domain.ReadStatus(read)
		byID[id] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	books := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			books = append(books, b)
		}
	}
	return books, nil
}

func (r *bookRepo) SetRead(ctx context.Context, id primitive.ObjectID, status domain.ReadStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE books SET read_status = ?, updated_at = ? WHERE id = ?`,
		int(status), time.Now().UTC(), id.Hex(),
	)
	if err != nil {
		return fmt.Errorf("update read status: %w", err)
	}
	return requireRow(result)
}

func (r *bookRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id.Hex())
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return requireRow(result)
}
