package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/shelfmate/internal/domain"
)

// FriendService manages one-directional friend lists.
type FriendService struct {
	users domain.UserRepository
	books domain.BookRepository
}

// NewFriendService creates a new FriendService.
func NewFriendService(users domain.UserRepository, books domain.BookRepository) *FriendService {
	return &FriendService{users: users, books: books}
}

// Add puts friendID on userID's friends list and returns the friend with
// books resolved. The friend's own list is not touched.
func (s *FriendService) Add(ctx context.Context, userID, friendID string) (*domain.PopulatedUser, error) {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	friend, err := findUser(ctx, s.users, friendID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrFriendNotFound
		}
		return nil, err
	}

	if friend.ID == user.ID {
		return nil, domain.ErrSelfFriend
	}
	if user.HasFriend(friend.ID) {
		return nil, domain.ErrAlreadyFriend
	}

	if err := s.users.AddFriend(ctx, user.ID, friend.ID); err != nil {
		if errors.Is(err, domain.ErrAlreadyFriend) {
			return nil, err
		}
		return nil, fmt.Errorf("add friend: %w", err)
	}

	return populateUser(ctx, s.books, friend)
}

// Remove takes friendID off userID's list. It returns the removed friend as
// loaded just before removal, or nil if that user no longer exists.
func (s *FriendService) Remove(ctx context.Context, userID, friendID string) (*domain.PopulatedUser, error) {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	fid, err := domain.ParseID(friendID)
	if err != nil || !user.HasFriend(fid) {
		return nil, domain.ErrNotFriend
	}

	var removed *domain.PopulatedUser
	friend, err := s.users.GetByID(ctx, fid)
	switch {
	case err == nil:
		removed, err = populateUser(ctx, s.books, friend)
		if err != nil {
			return nil, err
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get friend: %w", err)
	}

	ok, err := s.users.RemoveFriend(ctx, user.ID, fid)
	if err != nil {
		return nil, fmt.Errorf("remove friend: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFriend
	}

	return removed, nil
}

// ListFriendsBooks returns every friend's shelf, in friends-list order.
func (s *FriendService) ListFriendsBooks(ctx context.Context, userID string) ([]domain.FriendBooks, error) {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.users.GetByIDs(ctx, user.FriendIDs)
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}

	populated, err := populateUsers(ctx, s.books, friends)
	if err != nil {
		return nil, err
	}

	result := make([]domain.FriendBooks, len(populated))
	for i, f := range populated {
		result[i] = domain.FriendBooks{
			FriendID:   f.ID,
			FriendName: f.Fullname,
			Books:      f.Books,
		}
	}
	return result, nil
}
