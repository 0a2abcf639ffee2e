// Package mongo stores GFA documents in MongoDB, one BSON document per GFA
// document keyed by name.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/sink"
)

// DefaultDatabase and DefaultCollection are used when Options leaves them empty.
const (
	DefaultDatabase   = "gfabridge"
	DefaultCollection = "documents"
)

// Options configures the connection.
type Options struct {
	URI        string
	Database   string
	Collection string
}

// record is the stored shape. Field names match the JSON export.
type record struct {
	Name      string          `bson:"_id"`
	WrittenAt time.Time       `bson:"written_at"`
	Segments  []graph.Segment `bson:"segments"`
	Links     []graph.Link    `bson:"links"`
	Paths     []graph.Path    `bson:"paths"`
}

// Sink writes documents to a MongoDB collection.
type Sink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to opts.URI and verifies the connection.
func Open(ctx context.Context, opts Options) (*Sink, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo sink: empty URI")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo sink: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo sink: ping: %w", err)
	}
	return &Sink{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Close disconnects the client.
func (s *Sink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Write upserts st under name.
func (s *Sink) Write(ctx context.Context, name string, st *graph.Store) (sink.Summary, error) {
	doc := st.Export()
	rec := record{
		Name:      name,
		WrittenAt: time.Now().UTC(),
		Segments:  doc.Segments,
		Links:     doc.Links,
		Paths:     doc.Paths,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return sink.Summary{}, fmt.Errorf("mongo sink: write %s: %w", name, err)
	}
	return sink.Summarize(name, st), nil
}

// Read loads the document stored under name.
func (s *Sink) Read(ctx context.Context, name string) (*graph.Store, error) {
	var rec record
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", sink.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo sink: read %s: %w", name, err)
	}
	return graph.Import(graph.Document{
		Segments: rec.Segments,
		Links:    rec.Links,
		Paths:    rec.Paths,
	}), nil
}

// Delete removes the document stored under name.
func (s *Sink) Delete(ctx context.Context, name string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	return err
}

var _ sink.Sink = (*Sink)(nil)
