package sqlite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/leave-tracker/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(WithFile(filepath.Join(t.TempDir(), "leave.db")), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_EmptyLoad(t *testing.T) {
	store := newTestStore(t)

	members, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	draft := "Bobby"
	input := []domain.MemberSnapshot{
		{ID: "2", Name: "Alice", LeaveDates: []time.Time{domain.NewDate(2025, 1, 15), domain.NewDate(2025, 1, 3)}},
		{
			ID: "1", Name: "Bob", LeaveDates: []time.Time{domain.NewDate(2025, 3, 2)},
			IsEditing: true, EditName: &draft, EditLeaveDates: []time.Time{},
		},
	}
	require.NoError(t, store.Save(ctx, input))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "2", loaded[0].ID, "insertion order must survive")
	assert.True(t, domain.SameDates(input[0].LeaveDates, loaded[0].LeaveDates))
	assert.False(t, loaded[0].IsEditing)

	assert.Equal(t, "Bob", loaded[1].Name)
	assert.True(t, loaded[1].IsEditing)
	require.NotNil(t, loaded[1].EditName)
	assert.Equal(t, "Bobby", *loaded[1].EditName)
	assert.NotNil(t, loaded[1].EditLeaveDates)
	assert.Empty(t, loaded[1].EditLeaveDates)
}

func TestStore_SaveReplacesEverything(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, []domain.MemberSnapshot{
		{ID: "1", Name: "Alice", LeaveDates: []time.Time{domain.NewDate(2025, 1, 1)}},
		{ID: "2", Name: "Bob", LeaveDates: []time.Time{domain.NewDate(2025, 1, 2)}},
	}))
	require.NoError(t, store.Save(ctx, []domain.MemberSnapshot{
		{ID: "2", Name: "Bob", LeaveDates: []time.Time{domain.NewDate(2025, 2, 2)}},
	}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "2", loaded[0].ID)
	assert.True(t, domain.SameDates([]time.Time{domain.NewDate(2025, 2, 2)}, loaded[0].LeaveDates))

	require.NoError(t, store.Save(ctx, nil))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_GormErrorsGoToSlog(t *testing.T) {
	var buf bytes.Buffer
	store, err := NewStore(WithFile(filepath.Join(t.TempDir(), "leave.db")), slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var n int
	err = store.db.Raw("SELECT count(*) FROM missing_table").Scan(&n).Error
	require.Error(t, err)

	line, err := buf.ReadBytes('\n')
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Contains(t, entry["msg"], "missing_table")
}
