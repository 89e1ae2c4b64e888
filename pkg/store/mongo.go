package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	jerrors "github.com/matzehuels/jsonlens/pkg/errors"
)

// MongoCollection is the collection documents are kept in.
const MongoCollection = "documents"

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "jsonlens"

// mongoRecord is the stored shape of a document.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo keeps the document as one record in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	id     string
}

// NewMongo connects to uri and binds the document id.
func NewMongo(ctx context.Context, uri, database, id string) (*Mongo, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeStore, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, jerrors.Wrap(jerrors.ErrCodeStore, err, "ping mongo")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
		id:     id,
	}, nil
}

func mongoFilter(id string) bson.M {
	return bson.M{"_id": id}
}

func mongoUpdate(text string, now time.Time) bson.M {
	return bson.M{"$set": bson.M{"body": text, "updated_at": now}}
}

func (m *Mongo) Text(ctx context.Context) (string, error) {
	var rec mongoRecord
	err := m.coll.FindOne(ctx, mongoFilter(m.id)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", notFound(m.id)
	}
	if err != nil {
		return "", jerrors.Wrap(jerrors.ErrCodeStore, err, "find document %s", m.id)
	}
	return rec.Body, nil
}

func (m *Mongo) SetContents(ctx context.Context, text string) error {
	_, err := m.coll.UpdateOne(ctx, mongoFilter(m.id), mongoUpdate(text, time.Now().UTC()),
		options.Update().SetUpsert(true))
	if err != nil {
		return jerrors.Wrap(jerrors.ErrCodeStore, err, "upsert document %s", m.id)
	}
	return nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
