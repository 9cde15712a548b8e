package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID        primitive.ObjectID   `bson:"_id"`
	Fullname  string               `bson:"fullname"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password"`
	Books     []primitive.ObjectID `bson:"books"`
	Friends   []primitive.ObjectID `bson:"friends"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d userDoc) toDomain() domain.User {
	u := domain.User{
		ID:           d.ID,
		Fullname:     d.Fullname,
		Email:        d.Email,
		PasswordHash: d.Password,
		BookIDs:      d.Books,
		FriendIDs:    d.Friends,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if u.BookIDs == nil {
		u.BookIDs = []primitive.ObjectID{}
	}
	if u.FriendIDs == nil {
		u.FriendIDs = []primitive.ObjectID{}
	}
	return u
}

// userRepo implements domain.UserRepository using MongoDB.
type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = domain.NewID()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDoc{
		ID:        user.ID,
		Fullname:  user.Fullname,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Books:     []primitive.ObjectID{},
		Friends:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.BookIDs = doc.Books
	user.FriendIDs = doc.Friends
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := doc.toDomain()
	return &u, nil
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	docs, err := findByIDs(ctx, r.coll, ids, func(d userDoc) primitive.ObjectID { return d.ID })
	if err != nil {
		return nil, err
	}
	return toUsers(docs), nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return toUsers(docs), nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) AppendBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$push": bson.M{"books": bookID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("append book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) RemoveBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	return r.pull(ctx, userID, "books", bookID)
}

// AddFriend appends friendID unless it is already listed. The membership
// test and the push happen in one update.
func (r *userRepo) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "friends": bson.M{"$ne": friendID}},
		bson.M{
			"$push": bson.M{"friends": friendID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("count user: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrAlreadyFriend
}

func (r *userRepo) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) (bool, error) {
	return r.pull(ctx, userID, "friends", friendID)
}

// pull removes ref from the named array. It reports false when the user
// does not exist or the array never held ref.
func (r *userRepo) pull(ctx context.Context, userID primitive.ObjectID, field string, ref primitive.ObjectID) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, field: ref},
		bson.M{
			"$pull": bson.M{field: ref},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return false, fmt.Errorf("pull %s: %w", field, err)
	}
	return res.ModifiedCount > 0, nil
}

func toUsers(docs []userDoc) []domain.User {
	users := make([]domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toDomain()
	}
	return users
}
