package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// findUser resolves a hex id to a user. Malformed ids cannot name a stored
// user, so they report the same ErrUserNotFound as a missing one.
func findUser(ctx context.Context, users domain.UserRepository, id string) (*domain.User, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// populateUsers resolves the book references of every user with one batch
// fetch against the book store.
func populateUsers(ctx context.Context, books domain.BookRepository, users []domain.User) ([]domain.PopulatedUser, error) {
	var ids []primitive.ObjectID
	for _, u := range users {
		ids = append(ids, u.BookIDs...)
	}

	found, err := books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate books: %w", err)
	}
	byID := make(map[primitive.ObjectID]domain.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	populated := make([]domain.PopulatedUser, len(users))
	for i, u := range users {
		shelf := make([]domain.Book, 0, len(u.BookIDs))
		for _, id := range u.BookIDs {
			if b, ok := byID[id]; ok {
				shelf = append(shelf, b)
			}
		}
		populated[i] = domain.PopulatedUser{User: u, Books: shelf}
	}
	return populated, nil
}

func populateUser(ctx context.Context, books domain.BookRepository, user *domain.User) (*domain.PopulatedUser, error) {
	populated, err := populateUsers(ctx, books, []domain.User{*user})
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}
