package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/service"
)

// AccountHandler handles signup, login, and user lookup requests.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type credentialsRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup creates an account.
// POST /api/users/signup
// Request:  {"fullname":"...","email":"...","password":"..."}
// Response: {"message":"User created successfully"}
func (h *AccountHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Invalid request body.")
		return
	}

	if _, err := h.accounts.Signup(r.Context(), req.Fullname, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, codeConflict, "Email already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, codeValidation, "Please enter all fields")
		default:
			writeInternalError(w, r, "signup user", err)
		}
		return
	}

	writeMessage(w, "User created successfully")
}

// HandleLogin checks credentials.
// POST /api/users/login
// Request:  {"email":"...","password":"..."}
// Response: {"message":"Login successful","user":{"id","fullname","email"}}
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Invalid request body.")
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Clients of this API expect 400 rather than 404 here.
			writeError(w, http.StatusBadRequest, codeNotFound, "User does not exist")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, codeAuthFailed, "Invalid password")
		default:
			writeInternalError(w, r, "login user", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": LoginUserDTO{
			ID:       user.ID.Hex(),
			Fullname: user.Fullname,
			Email:    user.Email,
		},
	})
}

// HandleListUsers returns every user with books populated.
// GET /api/users
func (h *AccountHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		writeInternalError(w, r, "list users", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Users fetched successfully",
		"users":   toUserDTOs(users),
	})
}

// HandleCheckEmail reports whether an account uses the given email.
// POST /api/users/check
func (h *AccountHandler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Invalid request body.")
		return
	}

	if err := h.accounts.CheckEmailExists(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "User doesn't exist. Please create an account")
			return
		}
		writeInternalError(w, r, "check email", err)
		return
	}

	writeMessage(w, "User does exist")
}

// HandlePasswordReset replaces the password for an email address.
// POST /api/users/password-reset
// Request: {"email":"...","password":"..."}
func (h *AccountHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Invalid request body.")
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "User doesn't exist")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, codeValidation, "Please enter all fields")
		default:
			writeInternalError(w, r, "reset password", err)
		}
		return
	}

	writeMessage(w, "Password reset successfully")
}

// HandleGetUser returns a user's name and books.
// GET /api/users/{id}
// Response: {"user":{"name":"...","books":[...]}}
func (h *AccountHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "User doesn't exist")
			return
		}
		writeInternalError(w, r, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": ProfileDTO{Name: user.Fullname, Books: toBookDTOs(user.Books)},
	})
}

// HandleTestPassword compares a plain password against a bcrypt hash.
// POST /api/test-password
// Request:  {"plainPassword":"...","hashedPassword":"..."}
// Response: {"match":true|false}
func (h *AccountHandler) HandleTestPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlainPassword  string `json:"plainPassword"`
		HashedPassword string `json:"hashedPassword"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "Invalid request body.")
		return
	}

	match, err := h.accounts.VerifyPassword(req.PlainPassword, req.HashedPassword)
	if err != nil {
		writeInternalError(w, r, "compare passwords", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"match": match})
}
