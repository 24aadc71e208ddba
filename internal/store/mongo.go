package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nibzard/capplan-go/internal/config"
	"github.com/nibzard/capplan-go/internal/planner"
)

// MongoStore keeps one MongoDB document per record. Every call goes through a
// circuit breaker so that an unreachable server fails fast.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
	timeout    time.Duration
}

// mongoRecord is the stored shape: the document fields at the top level plus
// the MongoDB _id.
type mongoRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	planner.Document `bson:",inline"`
}

// OpenMongo connects to the server in cfg and pings it.
func OpenMongo(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (*MongoStore, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultStoreTimeout * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.MongoURI, err)
	}
	if logger != nil {
		logger.Info("connected to MongoDB", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
		breaker:    newBreaker("mongo-store", logger),
		timeout:    timeout,
	}, nil
}

func newBreaker(name string, logger *log.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			// a missing record says nothing about the server's health
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
	})
}

// call runs fn through the breaker with the store timeout applied.
func (s *MongoStore) call(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
}

// Insert stores doc and returns the hex ObjectID.
func (s *MongoStore) Insert(ctx context.Context, doc *planner.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("insert: nil document")
	}
	res, err := s.call(ctx, func(ctx context.Context) (interface{}, error) {
		return s.collection.InsertOne(ctx, mongoRecord{Document: *doc})
	})
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid, ok := res.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo insert: unexpected id type %T", res.(*mongo.InsertOneResult).InsertedID)
	}
	return oid.Hex(), nil
}

// Find returns matching records ordered by _id, which is insertion order.
func (s *MongoStore) Find(ctx context.Context, q Query) ([]Record, error) {
	res, err := s.call(ctx, func(ctx context.Context) (interface{}, error) {
		cursor, err := s.collection.Find(ctx, buildFilter(q), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var out []Record
		for cursor.Next(ctx) {
			var rec mongoRecord
			if err := cursor.Decode(&rec); err != nil {
				return nil, err
			}
			doc := rec.Document
			out = append(out, Record{ID: rec.ID.Hex(), Document: &doc})
		}
		return out, cursor.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	recs, _ := res.([]Record)
	return recs, nil
}

// Replace overwrites the document stored under id.
func (s *MongoStore) Replace(ctx context.Context, id string, doc *planner.Document) error {
	if doc == nil {
		return fmt.Errorf("replace: nil document")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	_, err = s.call(ctx, func(ctx context.Context) (interface{}, error) {
		res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": oid}, mongoRecord{ID: oid, Document: *doc})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		return res, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// buildFilter translates q into a MongoDB filter. An unfinished filter also
// matches documents that carry no finished field.
func buildFilter(q Query) bson.M {
	filter := bson.M{}
	if q.Kind != "" {
		filter["activity_type"] = string(q.Kind)
	}
	if q.Finished != nil {
		if *q.Finished {
			filter["finished"] = true
		} else {
			filter["finished"] = bson.M{"$ne": true}
		}
	}
	for k, v := range q.Metadata {
		filter["metadata."+k] = v
	}
	return filter
}
