package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/roomeo/internal/housing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSample(t *testing.T) {
	data, err := Sample()
	require.NoError(t, err)

	require.Len(t, data.Listings, 6)
	require.Len(t, data.Roommates, 4)

	studio := data.Listings.FindByID("1")
	require.NotNil(t, studio)
	assert.Equal(t, "Cozy Studio Near UM", studio.Title)
	assert.Equal(t, 1.2, studio.Distance)
	assert.Equal(t, []string{"Wi-Fi", "Aircon", "Furniture"}, studio.Facilities)
	assert.True(t, studio.Available)

	alex := data.Roommates.FindByName("alex chen")
	require.NotNil(t, alex)
	assert.Equal(t, housing.Budget{Min: 400, Max: 600}, alex.Budget)
	assert.Equal(t, 95, alex.MatchPercentage)
	assert.Equal(t, "Early Bird", alex.SleepSchedule)
}

func TestLoadListingsWeakTyping(t *testing.T) {
	path := writeFile(t, "rooms.yaml", `
listings:
  - id: 10
    title: " Attic Room "
    price: "420"
    distance: 1
    room_type: Single
    facilities: [Wi-Fi, wi-fi, Aircon]
    available: "true"
`)

	ls, err := LoadListings(path)
	require.NoError(t, err)
	require.Len(t, ls, 1)

	assert.Equal(t, housing.Listing{
		ID:         "10",
		Title:      "Attic Room",
		Price:      420,
		Distance:   1,
		RoomType:   "Single",
		Facilities: []string{"Wi-Fi", "Aircon"},
		Available:  true,
	}, ls[0])
}

func TestLoadRoommatesFromJSONList(t *testing.T) {
	path := writeFile(t, "people.json", `[
	{"id": "a", "name": "Aina", "age": 20, "budget": {"min": 700, "max": 300}, "lifestyle": ["Quiet", "quiet"]}
]`)

	ps, err := LoadRoommates(path)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, housing.Budget{Min: 300, Max: 700}, ps[0].Budget)
	assert.Equal(t, []string{"Quiet"}, ps[0].Lifestyle)
	assert.Equal(t, 20, ps[0].Age)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadListings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading")

	_, err = LoadListings(writeFile(t, "rooms.csv", "id,title"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = LoadListings(writeFile(t, "dupes.yaml", "- id: 1\n- id: 1\n"))
	assert.ErrorContains(t, err, `duplicate id "1"`)

	_, err = LoadRoommates(writeFile(t, "noid.yaml", "roommates:\n  - name: Nobody\n"))
	assert.ErrorContains(t, err, "record 0 has no id")

	_, err = LoadListings(writeFile(t, "bad.yaml", "listings:\n  - price: [1, 2]\n"))
	assert.ErrorContains(t, err, "decoding listings")
}

func TestOpen(t *testing.T) {
	path := writeFile(t, "rooms.yml", "- id: x\n  title: Only room\n")

	data, err := Open(Files{Listings: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, data.Listings.IDs())
	assert.Len(t, data.Roommates, 4, "roommates fall back to the sample")
}
