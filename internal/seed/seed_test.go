package seed_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/repository/sqlite"
	"github.com/msomdec/shelfmate/internal/seed"
	"github.com/msomdec/shelfmate/internal/service"
)

func newTestSeeder(t *testing.T) (*seed.Seeder, *service.AccountService, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	accounts := service.NewAccountService(db.Users(), db.Books(), 4)
	s := seed.New(accounts, service.NewBookService(db.Users(), db.Books()), service.NewFriendService(db.Users(), db.Books()))
	return s, accounts, db
}

func TestSeeder_CreatesRequestedCounts(t *testing.T) {
	s, accounts, db := newTestSeeder(t)
	ctx := context.Background()

	res, err := s.Run(ctx, seed.Options{Users: 4, BooksPerUser: 3, FriendsPerUser: 2, Seed: 42})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Users) != 4 || res.Books != 12 {
		t.Fatalf("expected 4 users and 12 books, got %d and %d", len(res.Users), res.Books)
	}
	if res.Friendships > 4*2 {
		t.Fatalf("expected at most 8 friendships, got %d", res.Friendships)
	}

	users, err := accounts.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("expected 4 stored users, got %d", len(users))
	}
	friendships := 0
	for _, u := range users {
		if len(u.Books) != 3 {
			t.Errorf("%s: expected 3 books, got %d", u.Email, len(u.Books))
		}
		if u.HasFriend(u.ID) {
			t.Errorf("%s befriended themselves", u.Email)
		}
		friendships += len(u.FriendIDs)
	}
	if friendships != res.Friendships {
		t.Fatalf("stored friendships %d do not match reported %d", friendships, res.Friendships)
	}

	// Seeded accounts log in with the default password.
	if _, err := accounts.Login(ctx, res.Users[0].Email, seed.DefaultPassword); err != nil {
		t.Fatalf("Login seeded user: %v", err)
	}

	shelf, err := service.NewBookService(db.Users(), db.Books()).ListForUser(ctx, res.Users[0].ID.Hex())
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	for _, b := range shelf {
		if b.Title == "" || b.Author == "" || b.Genre == "" {
			t.Errorf("seeded book has empty fields: %+v", b)
		}
		if b.PublishedYear < 1850 || b.PublishedYear > 2024 {
			t.Errorf("seeded year %d out of range", b.PublishedYear)
		}
	}

	var books int
	if err := db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&books); err != nil {
		t.Fatalf("count books: %v", err)
	}
	if books != 12 {
		t.Fatalf("expected 12 book rows, got %d", books)
	}
}

func TestSeeder_RejectsNegativeCounts(t *testing.T) {
	s, _, _ := newTestSeeder(t)

	_, err := s.Run(context.Background(), seed.Options{Users: -1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
