package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/service"
)

// BookHandler handles requests against a user's shelf.
type BookHandler struct {
	books *service.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(books *service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// yearValue decodes publishedYear from a JSON number or a numeric string
// such as "2020". null and "" leave it unset.
type yearValue struct {
	year *int
}

func (y *yearValue) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("publishedYear: %w", err)
	}
	y.year = &n
	return nil
}

// HandleList returns the books on a user's shelf.
// GET /api/users/books/{id}
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListForUser(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "User not found")
			return
		}
		writeInternalError(w, r, "list books", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Books fetched successfully",
		"books":   toBookDTOs(books),
	})
}

// HandleAdd creates a book on a user's shelf.
// POST /api/users/books/{id}
// Request:  {"title":"...","author":"...","publishedYear":2020,"genre":"..."}
// Response: {"message":"Book added successfully","book":{...}}
func (h *BookHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string    `json:"title"`
		Author        string    `json:"author"`
		PublishedYear yearValue `json:"publishedYear"`
		Genre         string    `json:"genre"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Invalid request body.")
		return
	}

	book, err := h.books.Add(r.Context(), r.PathValue("id"), service.NewBook{
		Title:         req.Title,
		Author:        req.Author,
		PublishedYear: req.PublishedYear.year,
		Genre:         req.Genre,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, codeValidation, "Please enter all fields")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "User not found")
		default:
			writeInternalError(w, r, "add book", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Book added successfully",
		"book":    toBookDTO(*book),
	})
}

// HandleDelete removes a book from a user's shelf and deletes it.
// DELETE /api/users/{userId}/books/{bookId}
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.books.Delete(r.Context(), r.PathValue("userId"), r.PathValue("bookId"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidID):
			writeError(w, http.StatusBadRequest, codeValidation, "Invalid book ID format")
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "User not found")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "Book not found in user's books")
		default:
			writeInternalError(w, r, "delete book", err)
		}
		return
	}

	writeMessage(w, "Book deleted successfully")
}

// HandleSetRead changes the read status of a book on a user's shelf.
// PUT /api/users/{userId}/books/{bookId}
// Request:  {"read":0|1|2}
// Response: {"message":"bookStatus: <read>"}
func (h *BookHandler) HandleSetRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Read *int `json:"read"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Invalid request body.")
		return
	}
	if req.Read == nil {
		writeError(w, http.StatusBadRequest, codeValidation, "read must be 0, 1, or 2")
		return
	}

	status := domain.ReadStatus(*req.Read)
	err := h.books.SetReadStatus(r.Context(), r.PathValue("userId"), r.PathValue("bookId"), status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, codeValidation, "read must be 0, 1, or 2")
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "User not found")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "book not found")
		default:
			writeInternalError(w, r, "set read status", err)
		}
		return
	}

	writeMessage(w, fmt.Sprintf("bookStatus: %d", status))
}
