package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/msomdec/shelfmate/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	PublishedYear int                `bson:"publishedYear"`
	Genre         string             `bson:"genre"`
	Read          int                `bson:"read"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d bookDoc) toDomain() domain.Book {
	return domain.Book{
		ID:            d.ID,
		Title:         d.Title,
		Author:        d.Author,
		PublishedYear: d.PublishedYear,
		Genre:         d.Genre,
		Read:          domain.ReadStatus(d.Read),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// bookRepo implements domain.BookRepository using MongoDB.
type bookRepo struct {
	coll *mongo.Collection
}

func (r *bookRepo) Create(ctx context.Context, book *domain.Book) error {
	if book.ID.IsZero() {
		book.ID = domain.NewID()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.coll.InsertOne(ctx, bookDoc{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		PublishedYear: book.PublishedYear,
		Genre:         book.Genre,
		Read:          int(book.Read),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

func (r *bookRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Book, error) {
	docs, err := findByIDs(ctx, r.coll, ids, func(d bookDoc) primitive.ObjectID { return d.ID })
	if err != nil {
		return nil, err
	}
	books := make([]domain.Book, len(docs))
	for i, d := range docs {
		books[i] = d.toDomain()
	}
	return books, nil
}

func (r *bookRepo) SetRead(ctx context.Context, id primitive.ObjectID, status domain.ReadStatus) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"read": int(status), "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set read status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
