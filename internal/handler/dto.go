package handler

import (
	"time"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookDTO is the JSON representation of a book.
type BookDTO struct {
	ID            string `json:"_id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"publishedYear"`
	Genre         string `json:"genre"`
	Read          int    `json:"read"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toBookDTO(b domain.Book) BookDTO {
	return BookDTO{
		ID:            b.ID.Hex(),
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Genre:         b.Genre,
		Read:          int(b.Read),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBookDTOs(books []domain.Book) []BookDTO {
	dtos := make([]BookDTO, len(books))
	for i, b := range books {
		dtos[i] = toBookDTO(b)
	}
	return dtos
}

// UserDTO is the JSON representation of a user with books resolved.
// The password hash is never part of it.
type UserDTO struct {
	ID        string    `json:"_id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Books     []BookDTO `json:"books"`
	Friends   []string  `json:"friends"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

func toUserDTO(u domain.PopulatedUser) UserDTO {
	return UserDTO{
		ID:        u.ID.Hex(),
		Fullname:  u.Fullname,
		Email:     u.Email,
		Books:     toBookDTOs(u.Books),
		Friends:   hexIDs(u.FriendIDs),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.PopulatedUser) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos
}

// LoginUserDTO is the subset of a user returned after a successful login.
type LoginUserDTO struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// ProfileDTO is the public view served by GET /api/users/{id}.
type ProfileDTO struct {
	Name  string    `json:"name"`
	Books []BookDTO `json:"books"`
}

// FriendBooksDTO is one entry of the friends' books listing.
type FriendBooksDTO struct {
	FriendID   string    `json:"friendId"`
	FriendName string    `json:"friendName"`
	Books      []BookDTO `json:"books"`
}

func toFriendBooksDTOs(shelves []domain.FriendBooks) []FriendBooksDTO {
	dtos := make([]FriendBooksDTO, len(shelves))
	for i, s := range shelves {
		dtos[i] = FriendBooksDTO{
			FriendID:   s.FriendID.Hex(),
			FriendName: s.FriendName,
			Books:      toBookDTOs(s.Books),
		}
	}
	return dtos
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
