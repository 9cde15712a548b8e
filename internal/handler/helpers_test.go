package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/shelfmate/internal/handler"
	"github.com/msomdec/shelfmate/internal/repository/sqlite"
	"github.com/msomdec/shelfmate/internal/service"
)

// newTestServer wires a fresh SQLite-backed API behind the full middleware
// chain. Pass a nil limiter to disable rate limiting.
func newTestServer(t *testing.T, limiter handler.Limiter) *httptest.Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Use cost 4 for fast tests.
	accounts := service.NewAccountService(db.Users(), db.Books(), 4)
	books := service.NewBookService(db.Users(), db.Books())
	friends := service.NewFriendService(db.Users(), db.Books())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, db, accounts, books, friends, limiter)

	srv := httptest.NewServer(handler.Middleware(mux, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends body (if non-nil) as JSON and decodes the response into out
// (if non-nil). It returns the status code.
func doJSON(t *testing.T, method, url string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type loginBody struct {
	Message string `json:"message"`
	User    struct {
		ID       string `json:"id"`
		Fullname string `json:"fullname"`
		Email    string `json:"email"`
	} `json:"user"`
}

type bookBody struct {
	ID            string `json:"_id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"publishedYear"`
	Genre         string `json:"genre"`
	Read          int    `json:"read"`
}

// signupAndLogin creates an account and returns its id.
func signupAndLogin(t *testing.T, baseURL, fullname, email string) string {
	t.Helper()
	creds := map[string]string{"fullname": fullname, "email": email, "password": "pw1"}
	if status := doJSON(t, http.MethodPost, baseURL+"/api/users/signup", creds, nil); status != http.StatusOK {
		t.Fatalf("signup %s: expected 200, got %d", email, status)
	}
	var login loginBody
	if status := doJSON(t, http.MethodPost, baseURL+"/api/users/login", creds, &login); status != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", email, status)
	}
	return login.User.ID
}

func addBook(t *testing.T, baseURL, userID, title string) bookBody {
	t.Helper()
	var resp struct {
		Message string   `json:"message"`
		Book    bookBody `json:"book"`
	}
	body := map[string]any{"title": title, "author": "Au", "publishedYear": 2020, "genre": "Fi"}
	if status := doJSON(t, http.MethodPost, baseURL+"/api/users/books/"+userID, body, &resp); status != http.StatusOK {
		t.Fatalf("add book %s: expected 200, got %d", title, status)
	}
	return resp.Book
}
