package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyFriend      = errors.New("user is already a friend")
	ErrNotFriend          = errors.New("friend not found in user's list")
)

// Narrower errors callers can tell apart while still matching the sentinel
// they wrap with errors.Is.
var (
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrBookNotFound   = fmt.Errorf("book %w", ErrNotFound)
	ErrFriendNotFound = fmt.Errorf("friend %w", ErrNotFound)

	ErrInvalidID  = fmt.Errorf("%w: malformed id", ErrInvalidInput)
	ErrSelfFriend = fmt.Errorf("%w: cannot add yourself as a friend", ErrInvalidInput)
)
