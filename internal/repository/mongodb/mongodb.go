// Package mongodb stores users and books as MongoDB documents. Book and
// friend references live as ObjectID arrays on the user document.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	booksCollection = "books"
)

// DB wraps a MongoDB database and hands out the repositories built on it.
type DB struct {
	db *mongo.Database
}

// Connect dials uri, verifies the deployment answers, and returns a DB bound
// to the named database.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return New(client.Database(dbName)), nil
}

// New wraps an existing database handle.
func New(db *mongo.Database) *DB {
	return &DB{db: db}
}

// Migrate creates the unique index on user email. Creating an index that
// already exists is a no-op, so this is safe on every start.
func (db *DB) Migrate(ctx context.Context) error {
	name, err := db.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	slog.Debug("mongodb indexes ensured", "index", name)
	return nil
}

// Ping reports whether the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.Client().Ping(ctx, readpref.Primary())
}

func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.db.Client().Disconnect(ctx)
}

func (db *DB) Users() domain.UserRepository {
	return &userRepo{coll: db.db.Collection(usersCollection)}
}

func (db *DB) Books() domain.BookRepository {
	return &bookRepo{coll: db.db.Collection(booksCollection)}
}

// findByIDs loads the documents whose _id is in ids and returns them in the
// order of ids, skipping any that are missing.
func findByIDs[D any](ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID, idOf func(D) primitive.ObjectID) ([]D, error) {
	if len(ids) == 0 {
		return []D{}, nil
	}

	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find %s by ids: %w", coll.Name(), err)
	}
	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}

	byID := make(map[primitive.ObjectID]D, len(docs))
	for _, d := range docs {
		byID[idOf(d)] = d
	}
	ordered := make([]D, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}
