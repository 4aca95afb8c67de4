package docstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoImpl struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo opens the client and checks the connection with a ping.
func ConnectMongo(ctx context.Context, url, database string, timeout time.Duration) (Provider, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	if err = client.Ping(connectCtx, nil); err != nil {
		return nil, errors.Wrap(err, "mongo ping")
	}
	log.WithField("database", database).Info("document store connected")
	return &mongoImpl{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (i *mongoImpl) ListCollections(ctx context.Context) ([]string, error) {
	names, err := i.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "list collections")
	}
	return names, nil
}

func (i *mongoImpl) FindOne(ctx context.Context, collection string, filter bson.M) (Record, error) {
	var rec Record
	err := i.db.Collection(collection).FindOne(ctx, nonNil(filter)).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find one in %s", collection)
	}
	return rec, nil
}

func (i *mongoImpl) Find(ctx context.Context, collection string, filter bson.M, opts FindOptions) ([]Record, error) {
	findOpts := options.Find()
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	cursor, err := i.db.Collection(collection).Find(ctx, nonNil(filter), findOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "find in %s", collection)
	}
	list := []Record{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, errors.Wrapf(err, "read cursor of %s", collection)
	}
	return list, nil
}

func (i *mongoImpl) InsertOne(ctx context.Context, collection string, doc interface{}) (string, error) {
	res, err := i.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", errors.Wrapf(err, "insert into %s", collection)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return String(res.InsertedID), nil
}

func (i *mongoImpl) UpdateOne(ctx context.Context, collection string, filter bson.M, update bson.M) (UpdateResult, error) {
	res, err := i.db.Collection(collection).UpdateOne(ctx, nonNil(filter), update)
	if err != nil {
		return UpdateResult{}, errors.Wrapf(err, "update in %s", collection)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (i *mongoImpl) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	res, err := i.db.Collection(collection).DeleteOne(ctx, nonNil(filter))
	if err != nil {
		return 0, errors.Wrapf(err, "delete in %s", collection)
	}
	return res.DeletedCount, nil
}

func (i *mongoImpl) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	count, err := i.db.Collection(collection).CountDocuments(ctx, nonNil(filter))
	if err != nil {
		return 0, errors.Wrapf(err, "count in %s", collection)
	}
	return count, nil
}

func (i *mongoImpl) Aggregate(ctx context.Context, collection string, pipeline []bson.M) ([]Record, error) {
	cursor, err := i.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "aggregate %s", collection)
	}
	list := []Record{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, errors.Wrapf(err, "read aggregate cursor of %s", collection)
	}
	return list, nil
}

func nonNil(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}
