package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user of the application.
type User struct {
	ID           primitive.ObjectID
	Fullname     string
	Email        string
	PasswordHash string
	BookIDs      []primitive.ObjectID // owned books, in insertion order
	FriendIDs    []primitive.ObjectID // one-directional: A listing B says nothing about B
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasBook reports whether the user's shelf references the book.
func (u *User) HasBook(id primitive.ObjectID) bool {
	return containsID(u.BookIDs, id)
}

// HasFriend reports whether id is in the user's friends list.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	return containsID(u.FriendIDs, id)
}

// PopulatedUser is a user with its book references resolved.
type PopulatedUser struct {
	User
	Books []Book
}

// FriendBooks is one friend's shelf as seen from the user who follows them.
type FriendBooks struct {
	FriendID   primitive.ObjectID
	FriendName string
	Books      []Book
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByIDs resolves references in the order given, skipping missing ids.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)
	List(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	AppendBook(ctx context.Context, userID, bookID primitive.ObjectID) error
	// RemoveBook reports false when the user had no such reference.
	RemoveBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error)
}
