package memstore

import (
	"context"
	"testing"
	"time"

	"photostream/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	store := New()

	id, err := store.Insert(ctx, "albums", map[string]interface{}{
		"title":   "Trip",
		"user_id": "user-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.FindByID(ctx, "albums", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID())
	assert.Equal(t, "Trip", doc.String("title"))

	_, err = store.FindByID(ctx, "albums", "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestFind_FilterSortLimit(t *testing.T) {
	ctx := context.Background()
	store := New()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, owner := range []string{"user-1", "user-2", "user-1"} {
		_, err := store.Insert(ctx, "photos", map[string]interface{}{
			"user_id":    owner,
			"created_at": base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	docs, err := store.Find(ctx, "photos", docstore.Query{
		Filters: []docstore.Filter{docstore.Where("user_id", "user-1")},
		SortBy:  "created_at",
		Desc:    true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.True(t, docs[0].Time("created_at").After(docs[1].Time("created_at")))

	docs, err = store.Find(ctx, "photos", docstore.Query{
		SortBy: "created_at",
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, base, docs[0].Time("created_at"))
}

func TestFind_EqualSortKeysKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := New()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first, _ := store.Insert(ctx, "comments", map[string]interface{}{"created_at": at})
	second, _ := store.Insert(ctx, "comments", map[string]interface{}{"created_at": at})

	docs, err := store.Find(ctx, "comments", docstore.Query{SortBy: "created_at"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first, docs[0].ID())
	assert.Equal(t, second, docs[1].ID())
}

func TestUpdateByID(t *testing.T) {
	ctx := context.Background()
	store := New()

	id, _ := store.Insert(ctx, "photos", map[string]interface{}{
		"likes":      []string{},
		"like_count": 0,
	})

	err := store.UpdateByID(ctx, "photos", id, func(doc docstore.Document) docstore.Document {
		doc["likes"] = []string{"user-1"}
		doc["like_count"] = 1
		return doc
	})
	require.NoError(t, err)

	doc, err := store.FindByID(ctx, "photos", id)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, doc.Strings("likes"))
	assert.EqualValues(t, 1, doc.Int64("like_count"))

	err = store.UpdateByID(ctx, "photos", "missing", func(doc docstore.Document) docstore.Document { return doc })
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestUpdateByID_MutationDoesNotLeakIntoReads(t *testing.T) {
	ctx := context.Background()
	store := New()

	id, _ := store.Insert(ctx, "photos", map[string]interface{}{"likes": []string{"a"}})

	before, err := store.FindByID(ctx, "photos", id)
	require.NoError(t, err)

	require.NoError(t, store.UpdateByID(ctx, "photos", id, func(doc docstore.Document) docstore.Document {
		doc["likes"] = append(doc.Strings("likes"), "b")
		return doc
	}))

	assert.Equal(t, []string{"a"}, before.Strings("likes"))
}

func TestDeleteMatching(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, _ = store.Insert(ctx, "photos", map[string]interface{}{"album_id": "album-1"})
	_, _ = store.Insert(ctx, "photos", map[string]interface{}{"album_id": "album-1"})
	keep, _ := store.Insert(ctx, "photos", map[string]interface{}{"album_id": "album-2"})

	require.NoError(t, store.DeleteMatching(ctx, "photos", docstore.Where("album_id", "album-1")))

	docs, err := store.Find(ctx, "photos", docstore.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, keep, docs[0].ID())
}

func TestDelete_Missing(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Delete(ctx, "photos", "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
