// Package store persists project documents and answers the queries the HTTP
// API and the CLI need: documents by kind, by finished flag and by metadata.
//
// Two backends exist. FileStore keeps every record in one JSON file and
// suits a single user. MongoStore keeps one MongoDB document per record.
// Callers receive a Store from Open and pass it along; there is no package
// level handle.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/nibzard/capplan-go/internal/config"
	"github.com/nibzard/capplan-go/internal/planner"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("not found")

// Record is a stored document and its backend-assigned id.
type Record struct {
	ID       string
	Document *planner.Document
}

// Query selects records. Zero fields match everything.
type Query struct {
	Kind     planner.Kind
	Finished *bool
	// Metadata entries must all be equal to the record's metadata values.
	// Numbers compare by value, so 3 matches 3.0.
	Metadata map[string]any
}

// Store is a document store.
type Store interface {
	Insert(ctx context.Context, doc *planner.Document) (string, error)
	Find(ctx context.Context, q Query) ([]Record, error)
	Replace(ctx context.Context, id string, doc *planner.Document) error
	Close(ctx context.Context) error
}

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return OpenFile(cfg.Path)
	case config.BackendMongo:
		return OpenMongo(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// ActiveProjects returns every project that is not finished, in insertion
// order.
func ActiveProjects(ctx context.Context, s Store) ([]Record, error) {
	finished := false
	return s.Find(ctx, Query{Kind: planner.KindProject, Finished: &finished})
}

// ActiveProject returns the unfinished project whose metadata id is id.
func ActiveProject(ctx context.Context, s Store, id int) (Record, error) {
	finished := false
	recs, err := s.Find(ctx, Query{
		Kind:     planner.KindProject,
		Finished: &finished,
		Metadata: map[string]any{"id": id},
	})
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return recs[0], nil
}

// FinishProject marks the active project with metadata id id as finished and
// returns the stored record. The record returned by Find is left untouched,
// so a failed Replace changes nothing.
func FinishProject(ctx context.Context, s Store, id int) (Record, error) {
	rec, err := ActiveProject(ctx, s, id)
	if err != nil {
		return Record{}, err
	}
	doc := *rec.Document
	finished := true
	doc.Finished = &finished
	if err := s.Replace(ctx, rec.ID, &doc); err != nil {
		return Record{}, fmt.Errorf("finish project %d: %w", id, err)
	}
	return Record{ID: rec.ID, Document: &doc}, nil
}

// NextProjectID returns one more than the largest numeric metadata id of any
// stored project, or 1 when there is none.
func NextProjectID(ctx context.Context, s Store) (int, error) {
	recs, err := s.Find(ctx, Query{Kind: planner.KindProject})
	if err != nil {
		return 0, err
	}
	next := 1
	for _, r := range recs {
		if v, ok := toFloat(r.Document.Metadata["id"]); ok && int(v) >= next {
			next = int(v) + 1
		}
	}
	return next, nil
}

// matches reports whether doc satisfies q.
func (q Query) matches(doc *planner.Document) bool {
	if doc == nil {
		return false
	}
	if q.Kind != "" && doc.ActivityType != q.Kind {
		return false
	}
	if q.Finished != nil {
		finished := doc.Finished != nil && *doc.Finished
		if finished != *q.Finished {
			return false
		}
	}
	for k, want := range q.Metadata {
		got, ok := doc.Metadata[k]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	if aok && bok {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
