// Package seed fills a store with generated demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"
	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/service"
)

// DefaultPassword is the password every seeded account gets unless
// Options.Password says otherwise.
const DefaultPassword = "password123"

var genres = []string{
	"Fantasy", "Science Fiction", "Mystery", "Romance", "Historical Fiction",
	"Biography", "Horror", "Poetry", "Thriller", "Non-fiction",
}

// Options controls how much data Run generates.
type Options struct {
	Users          int
	BooksPerUser   int
	FriendsPerUser int
	Password       string
	// Seed makes the generated data reproducible. Zero picks a random seed.
	Seed int64
}

// Result summarizes what Run created.
type Result struct {
	Users       []domain.User
	Books       int
	Friendships int
}

// Seeder creates demo accounts through the regular services, so passwords
// are hashed and shelf rules apply exactly as they do for API clients.
type Seeder struct {
	accounts *service.AccountService
	books    *service.BookService
	friends  *service.FriendService
}

// New creates a Seeder.
func New(accounts *service.AccountService, books *service.BookService, friends *service.FriendService) *Seeder {
	return &Seeder{accounts: accounts, books: books, friends: friends}
}

// Run generates opts.Users accounts with opts.BooksPerUser books each and up
// to opts.FriendsPerUser one-directional friendships per account.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Users < 0 || opts.BooksPerUser < 0 || opts.FriendsPerUser < 0 {
		return Result{}, fmt.Errorf("%w: counts must not be negative", domain.ErrInvalidInput)
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}

	var fake faker.Faker
	var rng *rand.Rand
	if opts.Seed != 0 {
		fake = faker.NewWithSeed(rand.NewSource(opts.Seed))
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		fake = faker.New()
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	var res Result
	for i := range opts.Users {
		first, last := fake.Person().FirstName(), fake.Person().LastName()
		email := fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i)

		user, err := s.accounts.Signup(ctx, first+" "+last, email, opts.Password)
		if err != nil {
			return res, fmt.Errorf("seed user %d: %w", i, err)
		}
		res.Users = append(res.Users, *user)

		for range opts.BooksPerUser {
			year := fake.IntBetween(1850, 2024)
			_, err := s.books.Add(ctx, user.ID.Hex(), service.NewBook{
				Title:         bookTitle(fake),
				Author:        fake.Person().Name(),
				PublishedYear: &year,
				Genre:         fake.RandomStringElement(genres),
			})
			if err != nil {
				return res, fmt.Errorf("seed book for %s: %w", email, err)
			}
			res.Books++
		}
	}

	for _, u := range res.Users {
		for _, j := range rng.Perm(len(res.Users))[:min(opts.FriendsPerUser, len(res.Users))] {
			friend := res.Users[j]
			if friend.ID == u.ID {
				continue
			}
			_, err := s.friends.Add(ctx, u.ID.Hex(), friend.ID.Hex())
			if errors.Is(err, domain.ErrAlreadyFriend) {
				continue
			}
			if err != nil {
				return res, fmt.Errorf("seed friendship: %w", err)
			}
			res.Friendships++
		}
	}

	slog.Info("seed complete", "users", len(res.Users), "books", res.Books, "friendships", res.Friendships)
	return res, nil
}

func bookTitle(fake faker.Faker) string {
	words := strings.Fields(strings.TrimSuffix(fake.Lorem().Sentence(3), "."))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
