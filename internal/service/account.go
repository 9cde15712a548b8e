package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/shelfmate/internal/domain"
)

// AccountService handles signup, login, password reset and user lookups.
type AccountService struct {
	users  domain.UserRepository
	books  domain.BookRepository
	hasher *PasswordHasher
}

// NewAccountService creates a new AccountService.
func NewAccountService(users domain.UserRepository, books domain.BookRepository, bcryptCost int) *AccountService {
	return &AccountService{
		users:  users,
		books:  books,
		hasher: NewPasswordHasher(bcryptCost),
	}
}

// Signup creates a new user account. The password is stored only as a hash.
func (s *AccountService) Signup(ctx context.Context, fullname, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if fullname == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: fullname, email, and password are required", domain.ErrInvalidInput)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Seal(PlainCredential(password))
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hash,
	}
	// Create maps a lost race on the unique email index to ErrDuplicateEmail.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the matching user.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// CheckEmailExists returns ErrUserNotFound when no account uses email.
func (s *AccountService) CheckEmailExists(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	return nil
}

// ResetPassword replaces the stored hash for email. The new password is
// hashed exactly once here and persisted as a sealed credential.
func (s *AccountService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	sealed, err := s.hasher.Seal(PlainCredential(newPassword))
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, sealed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ListUsers returns every user with books resolved.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.PopulatedUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return populateUsers(ctx, s.books, users)
}

// GetUser returns one user with books resolved.
func (s *AccountService) GetUser(ctx context.Context, id string) (*domain.PopulatedUser, error) {
	user, err := findUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}
	return populateUser(ctx, s.books, user)
}

// VerifyPassword reports whether plain matches hash.
func (s *AccountService) VerifyPassword(plain, hash string) (bool, error) {
	return s.hasher.Verify(plain, hash)
}
