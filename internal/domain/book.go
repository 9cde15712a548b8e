package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadStatus tracks how far a user is through a book.
type ReadStatus int

const (
	ReadStatusUnread     ReadStatus = 0
	ReadStatusInProgress ReadStatus = 1
	ReadStatusFinished   ReadStatus = 2
)

// Valid reports whether s is one of the three known statuses.
func (s ReadStatus) Valid() bool {
	return s >= ReadStatusUnread && s <= ReadStatusFinished
}

// Book is a single title on a user's shelf.
type Book struct {
	ID            primitive.ObjectID
	Title         string
	Author        string
	PublishedYear int
	Genre         string
	Read          ReadStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookRepository defines persistence operations for books.
type BookRepository interface {
	Create(ctx context.Context, book *Book) error
	// GetByIDs resolves references in the order given. Ids with no matching
	// document are skipped.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Book, error)
	SetRead(ctx context.Context, id primitive.ObjectID, status ReadStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
