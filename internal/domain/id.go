package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh ObjectID. Ids are generated by the application so
// every store adapter hands out the same 24-character hex format.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// ParseID parses a 24-character hex id. Anything else is ErrInvalidID.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
