package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ SavedStore = (*Memory)(nil)
	_ SavedStore = (*File)(nil)
)

func stores(t *testing.T) map[string]SavedStore {
	t.Helper()
	return map[string]SavedStore{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "saved.json")),
	}
}

func TestSavedStore(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ids, err := s.IDs(KindRooms)
			require.NoError(t, err)
			assert.Empty(t, ids)

			require.NoError(t, s.Add(KindRooms, "3"))
			require.NoError(t, s.Add(KindRooms, "1"))
			require.NoError(t, s.Add(KindRooms, "3"), "adding twice is a no-op")
			require.NoError(t, s.Add(KindRoommates, "1"))

			ids, err = s.IDs(KindRooms)
			require.NoError(t, err)
			assert.Equal(t, []string{"3", "1"}, ids)

			saved, err := s.Toggle(KindRooms, "3")
			require.NoError(t, err)
			assert.False(t, saved)

			saved, err = s.Toggle(KindRooms, "6")
			require.NoError(t, err)
			assert.True(t, saved)

			ok, err := s.Contains(KindRooms, "6")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, s.Remove(KindRooms, "1"))
			require.NoError(t, s.Remove(KindRooms, "missing"))

			ids, err = s.IDs(KindRooms)
			require.NoError(t, err)
			assert.Equal(t, []string{"6"}, ids)

			ids, err = s.IDs(KindRoommates)
			require.NoError(t, err)
			assert.Equal(t, []string{"1"}, ids, "kinds are independent")

			_, err = s.IDs("flats")
			assert.True(t, errors.Is(err, ErrUnknownKind))
			assert.Error(t, s.Add(KindRooms, "  "))
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saved.json")

	first := NewFile(path)
	require.NoError(t, first.Add(KindRoommates, "4"))

	second := NewFile(path)
	ids, err := second.IDs(KindRoommates)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, ids)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStoreEmptyAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	ids, err := NewFile(empty).IDs(KindRooms)
	require.NoError(t, err)
	assert.Empty(t, ids)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	_, err = NewFile(broken).IDs(KindRooms)
	assert.ErrorContains(t, err, "loading saved items")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Room")
	require.NoError(t, err)
	assert.Equal(t, KindRooms, k)

	k, err = ParseKind("roommates")
	require.NoError(t, err)
	assert.Equal(t, KindRoommates, k)

	_, err = ParseKind("houses")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.json")

	tr, err := OpenTranscript(path)
	require.NoError(t, err)
	tr.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	first, err := tr.Append(SpeakerStudent, "hi")
	require.NoError(t, err)
	_, err = tr.Append(SpeakerAssistant, "hello")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), first.Timestamp)

	reopened, err := OpenTranscript(path)
	require.NoError(t, err)
	turns := reopened.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, first.ID, turns[0].ID)
	assert.Equal(t, "hello", turns[1].Text)
	assert.NotEqual(t, turns[0].ID, turns[1].ID)
}

func TestTranscriptInMemory(t *testing.T) {
	tr := NewTranscript()
	_, err := tr.Append(SpeakerStudent, "budget room 400")
	require.NoError(t, err)

	turns := tr.Turns()
	turns[0].Text = "changed"

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, "budget room 400", tr.Turns()[0].Text)
}
