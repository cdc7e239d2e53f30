package backlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "backlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_CreateAndList(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	a, err := s.Create(ctx, DefaultTable, Fields{FieldName: "first", FieldNotes: "n1"})
	require.NoError(t, err)
	assert.Len(t, a.ID, 17)
	assert.Equal(t, "rec", a.ID[:3])

	_, err = s.Create(ctx, DefaultTable, Fields{FieldName: "second"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Other", Fields{FieldName: "elsewhere"})
	require.NoError(t, err)

	recs, err := s.List(ctx, DefaultTable)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Fields[FieldName])
	assert.Equal(t, "n1", recs[0].Fields[FieldNotes])
	assert.Equal(t, "second", recs[1].Fields[FieldName])
}

func TestSQLite_UpdateReplaceAndMerge(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, DefaultTable, Fields{FieldName: "task", FieldNotes: "keep"})
	require.NoError(t, err)

	merged, err := s.Update(ctx, DefaultTable, rec.ID, Fields{FieldStatus: "Done"}, false)
	require.NoError(t, err)
	assert.Equal(t, "keep", merged.Fields[FieldNotes])
	assert.Equal(t, "Done", merged.Fields[FieldStatus])

	replaced, err := s.Update(ctx, DefaultTable, rec.ID, Fields{FieldName: "renamed"}, true)
	require.NoError(t, err)
	assert.Equal(t, Fields{FieldName: "renamed"}, replaced.Fields)

	recs, err := s.List(ctx, DefaultTable)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "renamed", recs[0].Fields[FieldName])
	assert.NotContains(t, recs[0].Fields, FieldNotes)
}

func TestSQLite_UpdateMissing(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.Update(context.Background(), DefaultTable, "recMissing", Fields{}, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecordNotFound))
}

func TestSQLite_Delete(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, DefaultTable, Fields{FieldName: "gone"})
	require.NoError(t, err)

	res, err := s.Delete(ctx, DefaultTable, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, DeleteResult{ID: rec.ID, Deleted: true}, res)

	res, err = s.Delete(ctx, DefaultTable, rec.ID)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
}
