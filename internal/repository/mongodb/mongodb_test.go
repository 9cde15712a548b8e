package mongodb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/shelfmate/internal/domain"
	"github.com/msomdec/shelfmate/internal/repository/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Compile-time check that *mongodb.DB satisfies domain.Store.
var _ domain.Store = (*mongodb.DB)(nil)

func newMock(t *testing.T) *mtest.T {
	t.Helper()
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		t.Cleanup(func() { mt.Client.Disconnect(context.Background()) })
	}
	return mt
}

func userDocument(id primitive.ObjectID, fullname, email string, books ...primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "fullname", Value: fullname},
		{Key: "email", Value: email},
		{Key: "password", Value: "$2a$04$hash"},
		{Key: "books", Value: books},
		{Key: "createdAt", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Key: "updatedAt", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func bookDocument(id primitive.ObjectID, title string, read int) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "author", Value: "Au"},
		{Key: "publishedYear", Value: 2020},
		{Key: "genre", Value: "Fi"},
		{Key: "read", Value: read},
	}
}

func updated(n int) []bson.E {
	return []bson.E{{Key: "n", Value: n}, {Key: "nModified", Value: n}}
}

func TestDB_MigrateAndPing(t *testing.T) {
	mt := newMock(t)

	mt.Run("creates email index", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := mongodb.New(mt.DB).Migrate(context.Background()); err != nil {
			mt.Fatalf("Migrate: %v", err)
		}
	})

	mt.Run("ping", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := mongodb.New(mt.DB).Ping(context.Background()); err != nil {
			mt.Fatalf("Ping: %v", err)
		}
	})
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMock(t)

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		user := &domain.User{Fullname: "Ann", Email: "a@x.com", PasswordHash: "h"}
		if err := mongodb.New(mt.DB).Users().Create(context.Background(), user); err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if user.ID.IsZero() {
			mt.Fatal("expected an id to be assigned")
		}
		if user.BookIDs == nil || user.FriendIDs == nil {
			mt.Fatal("expected empty, non-nil reference lists")
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_1",
		}))
		err := mongodb.New(mt.DB).Users().Create(context.Background(), &domain.User{Fullname: "A", Email: "a@x.com"})
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			mt.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	mt := newMock(t)
	id := primitive.NewObjectID()
	bookID := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shelfmate.users", mtest.FirstBatch,
			userDocument(id, "Ann", "a@x.com", bookID)))

		got, err := mongodb.New(mt.DB).Users().GetByID(context.Background(), id)
		if err != nil {
			mt.Fatalf("GetByID: %v", err)
		}
		if got.Fullname != "Ann" || got.PasswordHash != "$2a$04$hash" {
			mt.Fatalf("unexpected user: %+v", got)
		}
		if len(got.BookIDs) != 1 || got.BookIDs[0] != bookID {
			mt.Fatalf("unexpected book refs: %v", got.BookIDs)
		}
		if got.FriendIDs == nil {
			mt.Fatal("expected non-nil friend list for a document without one")
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shelfmate.users", mtest.FirstBatch))

		_, err := mongodb.New(mt.DB).Users().GetByID(context.Background(), id)
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUserRepository_GetByIDs_PreservesOrder(t *testing.T) {
	mt := newMock(t)
	a, b, missing := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("reorders and skips", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shelfmate.users", mtest.FirstBatch,
			userDocument(a, "Ann", "a@x.com"),
			userDocument(b, "Bob", "b@x.com"),
		))

		got, err := mongodb.New(mt.DB).Users().GetByIDs(context.Background(), []primitive.ObjectID{b, missing, a})
		if err != nil {
			mt.Fatalf("GetByIDs: %v", err)
		}
		if len(got) != 2 || got[0].ID != b || got[1].ID != a {
			mt.Fatalf("expected [Bob, Ann], got %+v", got)
		}
	})

	mt.Run("no ids skips the round trip", func(mt *mtest.T) {
		got, err := mongodb.New(mt.DB).Users().GetByIDs(context.Background(), nil)
		if err != nil {
			mt.Fatalf("GetByIDs: %v", err)
		}
		if got == nil || len(got) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %v", got)
		}
	})
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mt := newMock(t)

	mt.Run("updated", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(updated(1)...))
		if err := mongodb.New(mt.DB).Users().UpdatePassword(context.Background(), primitive.NewObjectID(), "h"); err != nil {
			mt.Fatalf("UpdatePassword: %v", err)
		}
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(updated(0)...))
		err := mongodb.New(mt.DB).Users().UpdatePassword(context.Background(), primitive.NewObjectID(), "h")
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUserRepository_BookReferences(t *testing.T) {
	mt := newMock(t)
	userID, bookID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("append to unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(updated(0)...))
		err := mongodb.New(mt.DB).Users().AppendBook(context.Background(), userID, bookID)
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("remove present reference", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(updated(1)...))
		removed, err := mongodb.New(mt.DB).Users().RemoveBook(context.Background(), userID, bookID)
		if err != nil || !removed {
			mt.Fatalf("expected removal, got %v, %v", removed, err)
		}
	})

	mt.Run("remove absent reference", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(updated(0)...))
		removed, err := mongodb.New(mt.DB).Users().RemoveBook(context.Background(), userID, bookID)
		if err != nil || removed {
			mt.Fatalf("expected no removal, got %v, %v", removed, err)
		}
	})
}

func TestUserRepository_AddFriend(t *testing.T) {
	mt := newMock(t)
	userID, friendID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("added", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(updated(1)...))
		if err := mongodb.New(mt.DB).Users().AddFriend(context.Background(), userID, friendID); err != nil {
			mt.Fatalf("AddFriend: %v", err)
		}
	})

	mt.Run("already a friend", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(updated(0)...),
			mtest.CreateCursorResponse(0, "shelfmate.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)
		err := mongodb.New(mt.DB).Users().AddFriend(context.Background(), userID, friendID)
		if !errors.Is(err, domain.ErrAlreadyFriend) {
			mt.Fatalf("expected ErrAlreadyFriend, got %v", err)
		}
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(updated(0)...),
			mtest.CreateCursorResponse(0, "shelfmate.users", mtest.FirstBatch),
		)
		err := mongodb.New(mt.DB).Users().AddFriend(context.Background(), userID, friendID)
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBookRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		book := &domain.Book{Title: "T", Author: "Au", PublishedYear: 2020, Genre: "Fi"}
		if err := mongodb.New(mt.DB).Books().Create(context.Background(), book); err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if book.ID.IsZero() || book.CreatedAt.IsZero() {
			mt.Fatalf("expected id and timestamps, got %+v", book)
		}
	})

	mt.Run("get by ids", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shelfmate.books", mtest.FirstBatch,
			bookDocument(a, "A", 0),
			bookDocument(b, "B", 2),
		))

		got, err := mongodb.New(mt.DB).Books().GetByIDs(context.Background(), []primitive.ObjectID{b, a})
		if err != nil {
			mt.Fatalf("GetByIDs: %v", err)
		}
		if len(got) != 2 || got[0].Title != "B" || got[0].Read != domain.ReadStatusFinished {
			mt.Fatalf("unexpected books: %+v", got)
		}
	})

	mt.Run("set read on missing book", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(updated(0)...))
		err := mongodb.New(mt.DB).Books().SetRead(context.Background(), primitive.NewObjectID(), domain.ReadStatusInProgress)
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		if err := mongodb.New(mt.DB).Books().Delete(context.Background(), primitive.NewObjectID()); err != nil {
			mt.Fatalf("Delete: %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := mongodb.New(mt.DB).Books().Delete(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
