package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/shelfmate/internal/domain"
)

// BookService manages the books on a user's shelf.
type BookService struct {
	users domain.UserRepository
	books domain.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(users domain.UserRepository, books domain.BookRepository) *BookService {
	return &BookService{users: users, books: books}
}

// NewBook holds the fields a client supplies when adding a book.
type NewBook struct {
	Title         string
	Author        string
	PublishedYear *int
	Genre         string
}

// ListForUser returns the user's books in shelf order.
func (s *BookService) ListForUser(ctx context.Context, userID string) ([]domain.Book, error) {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	populated, err := populateUser(ctx, s.books, user)
	if err != nil {
		return nil, err
	}
	return populated.Books, nil
}

// Add creates a book and appends it to the user's shelf. The user is
// resolved first so an unknown user never leaves an orphaned book behind.
func (s *BookService) Add(ctx context.Context, userID string, in NewBook) (*domain.Book, error) {
	if in.Title == "" || in.Author == "" || in.Genre == "" || in.PublishedYear == nil {
		return nil, fmt.Errorf("%w: title, author, publishedYear, and genre are required", domain.ErrInvalidInput)
	}

	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:         in.Title,
		Author:        in.Author,
		PublishedYear: *in.PublishedYear,
		Genre:         in.Genre,
		Read:          domain.ReadStatusUnread,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if err := s.users.AppendBook(ctx, user.ID, book.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("append book: %w", err)
	}

	return book, nil
}

// Delete removes the book from the user's shelf and then deletes the book
// itself. Input is validated before anything is mutated; the two writes are
// not atomic.
func (s *BookService) Delete(ctx context.Context, userID, bookID string) error {
	bid, err := domain.ParseID(bookID)
	if err != nil {
		return err
	}

	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if !user.HasBook(bid) {
		return domain.ErrBookNotFound
	}

	removed, err := s.users.RemoveBook(ctx, user.ID, bid)
	if err != nil {
		return fmt.Errorf("remove book reference: %w", err)
	}
	if !removed {
		return domain.ErrBookNotFound
	}

	if err := s.books.Delete(ctx, bid); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// SetReadStatus updates the read flag of a book on the user's shelf.
func (s *BookService) SetReadStatus(ctx context.Context, userID, bookID string, status domain.ReadStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: read must be 0, 1, or 2", domain.ErrInvalidInput)
	}

	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return err
	}

	bid, err := domain.ParseID(bookID)
	if err != nil {
		return domain.ErrBookNotFound
	}

	populated, err := populateUser(ctx, s.books, user)
	if err != nil {
		return err
	}
	owned := false
	for _, b := range populated.Books {
		if b.ID == bid {
			owned = true
			break
		}
	}
	if !owned {
		return domain.ErrBookNotFound
	}

	if err := s.books.SetRead(ctx, bid, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrBookNotFound
		}
		return fmt.Errorf("set read status: %w", err)
	}
	return nil
}
