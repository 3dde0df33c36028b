package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/omniscale/osmdocs/database"
)

const (
	DefaultConnection = "mongodb://localhost:27017"
	DefaultDatabase   = "openStreetMapData"
	DefaultCollection = "largeData"
)

func init() {
	database.Register("mongodb", New)
	database.Register("mongodb+srv", New)
}

// Store inserts documents into a single MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func New(ctx context.Context, conf database.Config) (database.Store, error) {
	if conf.Database == "" {
		conf.Database = DefaultDatabase
	}
	if conf.Collection == "" {
		conf.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.ConnectionParams))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, "connecting to MongoDB")
	}
	return &Store{
		client: client,
		coll:   client.Database(conf.Database).Collection(conf.Collection),
	}, nil
}

// InsertMany inserts all docs in one ordered bulk insert. No documents are
// reported as inserted if the bulk insert fails.
func (s *Store) InsertMany(ctx context.Context, docs []interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, errors.Wrapf(err, "inserting %d documents into %s.%s",
			len(docs), s.coll.Database().Name(), s.coll.Name())
	}
	return len(res.InsertedIDs), nil
}

// Sample returns any document of the collection as relaxed extended JSON.
func (s *Store) Sample(ctx context.Context) (string, error) {
	var doc bson.D
	err := s.coll.FindOne(ctx, bson.D{}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "fetching sample document")
	}
	b, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
