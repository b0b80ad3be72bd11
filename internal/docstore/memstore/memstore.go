// Package memstore is an in-memory docstore.Store used by tests. It honors
// the same contract as the clover backend: generated ids, equality filters,
// ordered and limited finds, and per-document read-modify-write with no lost
// updates (a store-wide mutex plays the role of the write transaction).
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"photostream/internal/docstore"
)

type record struct {
	doc docstore.Document
	seq uint64
}

type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]record
	nextSeq     uint64
}

func New() *Store {
	return &Store{collections: make(map[string]map[string]record)}
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	if col == nil {
		col = make(map[string]record)
		s.collections[collection] = col
	}

	id := uuid.NewString()
	doc := cloneDoc(fields)
	doc["_id"] = id
	s.nextSeq++
	col[id] = record{doc: doc, seq: s.nextSeq}

	return id, nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}

	return cloneDoc(rec.doc), nil
}

func (s *Store) Find(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []record
	for _, rec := range s.collections[collection] {
		if matches(rec.doc, q.Filters) {
			recs = append(recs, rec)
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		if q.SortBy != "" {
			c := compare(recs[i].doc[q.SortBy], recs[j].doc[q.SortBy])
			if c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		// stable fallback: insertion order
		return recs[i].seq < recs[j].seq
	})

	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[:q.Limit]
	}

	out := make([]docstore.Document, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneDoc(rec.doc))
	}

	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	delete(s.collections[collection], id)

	return nil
}

func (s *Store) DeleteMatching(ctx context.Context, collection string, filters ...docstore.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.collections[collection] {
		if matches(rec.doc, filters) {
			delete(s.collections[collection], id)
		}
	}

	return nil
}

func (s *Store) UpdateByID(ctx context.Context, collection, id string, mutate func(docstore.Document) docstore.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}

	updated := mutate(cloneDoc(rec.doc))
	updated["_id"] = id
	s.collections[collection][id] = record{doc: updated, seq: rec.seq}

	return nil
}

func (s *Store) Close() error {
	return nil
}

func matches(doc docstore.Document, filters []docstore.Filter) bool {
	for _, f := range filters {
		if compare(doc[f.Field], f.Value) != 0 {
			return false
		}
	}
	return true
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case int, int64, uint64, float64:
		an := toFloat(a)
		bn := toFloat(b)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	case bool:
		if bv, ok := b.(bool); ok {
			if av == bv {
				return 0
			}
			if !av {
				return -1
			}
			return 1
		}
	case nil:
		if b == nil {
			return 0
		}
	}
	return -1
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func cloneDoc(in map[string]interface{}) docstore.Document {
	out := make(docstore.Document, len(in))
	for k, v := range in {
		switch vv := v.(type) {
		case []string:
			out[k] = append([]string(nil), vv...)
		case map[string]interface{}:
			m := make(map[string]interface{}, len(vv))
			for mk, mv := range vv {
				m[mk] = mv
			}
			out[k] = m
		default:
			out[k] = v
		}
	}
	return out
}
