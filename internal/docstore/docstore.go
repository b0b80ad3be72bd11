// Package docstore defines the document-store contract the repositories are
// written against: named collections of generated-id documents with filtered,
// ordered, limited queries and a transactional per-document read-modify-write.
package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Document is a flat field map. The store's own id travels in the "_id" field.
type Document map[string]interface{}

func (d Document) ID() string {
	return d.String("_id")
}

func (d Document) String(field string) string {
	if v, ok := d[field].(string); ok {
		return v
	}
	return ""
}

func (d Document) Int64(field string) int64 {
	switch v := d[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func (d Document) Time(field string) time.Time {
	if v, ok := d[field].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Strings tolerates both []string and the []interface{} shape codecs hand
// back after a round trip.
func (d Document) Strings(field string) []string {
	switch v := d[field].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (d Document) Map(field string) map[string]interface{} {
	if v, ok := d[field].(map[string]interface{}); ok {
		return v
	}
	return nil
}

type Filter struct {
	Field string
	Value interface{}
}

func Where(field string, value interface{}) Filter {
	return Filter{Field: field, Value: value}
}

// Query matches documents whose fields equal every filter, ordered by SortBy
// (ascending unless Desc), truncated to Limit when Limit > 0.
type Query struct {
	Filters []Filter
	SortBy  string
	Desc    bool
	Limit   int
}

// Store is the backend document database. UpdateByID applies mutate to the
// current document state inside the store's own write transaction: concurrent
// mutators of the same document serialize and no update is lost. mutate must
// be side-effect free apart from captured results, as the store may invoke it
// again on conflict.
type Store interface {
	Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	FindByID(ctx context.Context, collection, id string) (Document, error)
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Delete(ctx context.Context, collection, id string) error
	DeleteMatching(ctx context.Context, collection string, filters ...Filter) error
	UpdateByID(ctx context.Context, collection, id string, mutate func(Document) Document) error
	Close() error
}
