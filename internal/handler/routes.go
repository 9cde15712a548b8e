package handler

import (
	"net/http"

	"github.com/msomdec/shelfmate/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Credential
// endpoints go through limiter; pass nil to disable rate limiting.
func RegisterRoutes(mux *http.ServeMux, store Pinger, accounts *service.AccountService, books *service.BookService, friends *service.FriendService, limiter Limiter) {
	health := NewHealthHandler(store)
	accountHandler := NewAccountHandler(accounts)
	bookHandler := NewBookHandler(books)
	friendHandler := NewFriendHandler(friends)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimit(limiter, h)
	}

	mux.HandleFunc("GET /{$}", HandleHome)
	mux.HandleFunc("GET /healthz", health.HandleHealthz)

	// Accounts.
	mux.Handle("POST /api/users/signup", limited(accountHandler.HandleSignup))
	mux.Handle("POST /api/users/login", limited(accountHandler.HandleLogin))
	mux.Handle("POST /api/users/check", limited(accountHandler.HandleCheckEmail))
	mux.Handle("POST /api/users/password-reset", limited(accountHandler.HandlePasswordReset))
	mux.Handle("POST /api/test-password", limited(accountHandler.HandleTestPassword))
	mux.HandleFunc("GET /api/users", accountHandler.HandleListUsers)
	mux.HandleFunc("GET /api/users/{id}", accountHandler.HandleGetUser)

	// Books.
	mux.HandleFunc("GET /api/users/books/{id}", bookHandler.HandleList)
	mux.HandleFunc("POST /api/users/books/{id}", bookHandler.HandleAdd)
	mux.HandleFunc("DELETE /api/users/{userId}/books/{bookId}", bookHandler.HandleDelete)
	mux.HandleFunc("PUT /api/users/{userId}/books/{bookId}", bookHandler.HandleSetRead)

	// Friends.
	mux.HandleFunc("POST /api/users/{userId}/friends/{friendId}", friendHandler.HandleAdd)
	mux.HandleFunc("DELETE /api/users/{userId}/friends/{friendId}", friendHandler.HandleRemove)
	mux.HandleFunc("GET /api/users/friends/books/{id}", friendHandler.HandleFriendsBooks)
}
