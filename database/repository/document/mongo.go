package documentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStore struct {
	coll *mongo.Collection
	name string
}

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Data      bson.Raw  `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoStore returns a Store that keeps the document named name in the
// "documents" collection of db.
func NewMongoStore(db *mongo.Database, name string) Store {
	return &mongoStore{
		coll: db.Collection("documents"),
		name: name,
	}
}

func (s *mongoStore) Name() string { return "mongo:" + s.name }

func (s *mongoStore) Load(ctx context.Context, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", s.name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find %s: %w", s.name, err)
	}
	if err := bson.Unmarshal(doc.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", s.name, err)
	}
	return nil
}

func (s *mongoStore) Save(ctx context.Context, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := bson.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.name, err)
	}
	doc := mongoDocument{ID: s.name, Data: data, UpdatedAt: time.Now()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": s.name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s: %w", s.name, err)
	}
	return nil
}
