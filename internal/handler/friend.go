package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/service"
)

// FriendHandler handles friend list requests.
type FriendHandler struct {
	friends *service.FriendService
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(friends *service.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// HandleAdd puts a user on another user's friends list.
// POST /api/users/{userId}/friends/{friendId}
// Response: {"message":"Friend added successfully","friend":{...}}
func (h *FriendHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	friend, err := h.friends.Add(r.Context(), r.PathValue("userId"), r.PathValue("friendId"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "User not found")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "Friend doesn't exist")
		case errors.Is(err, domain.ErrAlreadyFriend):
			writeError(w, http.StatusBadRequest, codeConflict, "User is already a friend")
		case errors.Is(err, domain.ErrSelfFriend):
			writeError(w, http.StatusBadRequest, codeValidation, "You cannot add yourself as a friend")
		default:
			writeInternalError(w, r, "add friend", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Friend added successfully",
		"friend":  toUserDTO(*friend),
	})
}

// HandleRemove takes a user off another user's friends list.
// DELETE /api/users/{userId}/friends/{friendId}
// Response: {"message":"Friend removed successfully","deletedFriend":{...}|null}
func (h *FriendHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	removed, err := h.friends.Remove(r.Context(), r.PathValue("userId"), r.PathValue("friendId"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFriend):
			writeError(w, http.StatusBadRequest, codeValidation, "Friend not found in user's list")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, "User not found")
		default:
			writeInternalError(w, r, "remove friend", err)
		}
		return
	}

	var deleted *UserDTO
	if removed != nil {
		dto := toUserDTO(*removed)
		deleted = &dto
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Friend removed successfully",
		"deletedFriend": deleted,
	})
}

// HandleFriendsBooks lists the shelves of everyone on a user's friends list.
// GET /api/users/friends/books/{id}
// Response: {"friendsBooks":[{"friendId","friendName","books"}]}
func (h *FriendHandler) HandleFriendsBooks(w http.ResponseWriter, r *http.Request) {
	shelves, err := h.friends.ListFriendsBooks(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "User doesn't exist")
			return
		}
		writeInternalError(w, r, "list friends books", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"friendsBooks": toFriendBooksDTOs(shelves),
	})
}
