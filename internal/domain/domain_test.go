package domain_test

import (
	"errors"
	"testing"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseID(t *testing.T) {
	id := domain.NewID()

	got, err := domain.ParseID(id.Hex())
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id.Hex(), got.Hex())
	}

	for _, bad := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "0"} {
		_, err := domain.ParseID(bad)
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("ParseID(%q): expected ErrInvalidID, got %v", bad, err)
		}
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("ParseID(%q): expected error to match ErrInvalidInput", bad)
		}
	}
}

func TestReadStatus_Valid(t *testing.T) {
	tests := []struct {
		status domain.ReadStatus
		want   bool
	}{
		{-1, false},
		{domain.ReadStatusUnread, true},
		{domain.ReadStatusInProgress, true},
		{domain.ReadStatusFinished, true},
		{3, false},
	}
	for _, tc := range tests {
		if got := tc.status.Valid(); got != tc.want {
			t.Errorf("ReadStatus(%d).Valid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestUser_Membership(t *testing.T) {
	book, friend := domain.NewID(), domain.NewID()
	u := domain.User{BookIDs: []primitive.ObjectID{book}, FriendIDs: []primitive.ObjectID{friend}}

	if !u.HasBook(book) || u.HasBook(friend) {
		t.Fatal("HasBook reports the wrong membership")
	}
	if !u.HasFriend(friend) || u.HasFriend(book) {
		t.Fatal("HasFriend reports the wrong membership")
	}
}

func TestNarrowErrorsMatchSentinels(t *testing.T) {
	for _, err := range []error{domain.ErrUserNotFound, domain.ErrBookNotFound, domain.ErrFriendNotFound} {
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%v should match ErrNotFound", err)
		}
	}
	if !errors.Is(domain.ErrSelfFriend, domain.ErrInvalidInput) {
		t.Error("ErrSelfFriend should match ErrInvalidInput")
	}
}
