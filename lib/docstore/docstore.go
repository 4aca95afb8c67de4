package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Record is a schema-less document. Field order is the order the store returned it in.
type Record = bson.D

type FindOptions struct {
	Projection bson.M
	Sort       bson.D
	Skip       int64
	Limit      int64
}

type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Provider is the document store every agent talks to.
// FindOne returns a nil Record and no error when nothing matches.
type Provider interface {
	ListCollections(ctx context.Context) ([]string, error)
	FindOne(ctx context.Context, collection string, filter bson.M) (Record, error)
	Find(ctx context.Context, collection string, filter bson.M, opts FindOptions) ([]Record, error)
	InsertOne(ctx context.Context, collection string, doc interface{}) (id string, err error)
	UpdateOne(ctx context.Context, collection string, filter bson.M, update bson.M) (UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter bson.M) (deleted int64, err error)
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, collection string, pipeline []bson.M) ([]Record, error)
}

var Instance Provider
