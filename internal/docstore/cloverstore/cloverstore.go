// Package cloverstore backs the docstore contract with an embedded clover
// database.
package cloverstore

import (
	"context"
	"errors"
	"fmt"

	clover "github.com/ostafen/clover/v2"
	"github.com/ostafen/clover/v2/document"
	q "github.com/ostafen/clover/v2/query"

	"photostream/internal/docstore"
)

type Store struct {
	db *clover.DB
}

// Open opens (or creates) the database at path and makes sure every named
// collection exists.
func Open(path string, collections ...string) (*Store, error) {
	const op = "docstore.cloverstore.Open"

	db, err := clover.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, name := range collections {
		has, err := db.HasCollection(name)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !has {
			if err := db.CreateCollection(name); err != nil {
				db.Close()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	const op = "docstore.cloverstore.Insert"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	doc := document.NewDocument()
	for k, v := range fields {
		doc.Set(k, v)
	}

	id, err := s.db.InsertOne(collection, doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	const op = "docstore.cloverstore.FindByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := s.db.FindById(collection, id)
	if err != nil {
		if errors.Is(err, clover.ErrDocumentNotExist) {
			return nil, fmt.Errorf("%s: %w", op, docstore.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%s: %w", op, docstore.ErrNotFound)
	}

	return docstore.Document(doc.ToMap()), nil
}

func (s *Store) Find(ctx context.Context, collection string, query docstore.Query) ([]docstore.Document, error) {
	const op = "docstore.cloverstore.Find"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs, err := s.db.FindAll(buildQuery(collection, query))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]docstore.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docstore.Document(doc.ToMap()))
	}

	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	const op = "docstore.cloverstore.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.DeleteById(collection, id); err != nil {
		if errors.Is(err, clover.ErrDocumentNotExist) {
			return fmt.Errorf("%s: %w", op, docstore.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) DeleteMatching(ctx context.Context, collection string, filters ...docstore.Filter) error {
	const op = "docstore.cloverstore.DeleteMatching"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Delete(buildQuery(collection, docstore.Query{Filters: filters})); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UpdateByID runs mutate against the current document inside clover's write
// transaction, so concurrent updates of the same document serialize here.
func (s *Store) UpdateByID(ctx context.Context, collection, id string, mutate func(docstore.Document) docstore.Document) error {
	const op = "docstore.cloverstore.UpdateByID"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.db.UpdateById(collection, id, func(doc *document.Document) *document.Document {
		updated := mutate(docstore.Document(doc.ToMap()))
		for k, v := range updated {
			if k == "_id" {
				continue
			}
			doc.Set(k, v)
		}
		return doc
	})
	if err != nil {
		if errors.Is(err, clover.ErrDocumentNotExist) {
			return fmt.Errorf("%s: %w", op, docstore.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func buildQuery(collection string, query docstore.Query) *q.Query {
	out := q.NewQuery(collection)

	var criteria q.Criteria
	for _, f := range query.Filters {
		c := q.Field(f.Field).Eq(f.Value)
		if criteria == nil {
			criteria = c
		} else {
			criteria = criteria.And(c)
		}
	}
	if criteria != nil {
		out = out.Where(criteria)
	}

	if query.SortBy != "" {
		direction := 1
		if query.Desc {
			direction = -1
		}
		out = out.Sort(q.SortOption{Field: query.SortBy, Direction: direction})
	}

	if query.Limit > 0 {
		out = out.Limit(query.Limit)
	}

	return out
}
