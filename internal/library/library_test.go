package library

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mymaps/mymaps/internal/config"
	"github.com/mymaps/mymaps/internal/storage"
	"github.com/mymaps/mymaps/internal/storage/file"
	"github.com/mymaps/mymaps/internal/storage/memory"
	"github.com/mymaps/mymaps/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(maps []core.UserMap) []string {
	out := make([]string, len(maps))
	for i, m := range maps {
		out[i] = m.Title
	}
	return out
}

func TestSampleMaps(t *testing.T) {
	seeds := SampleMaps()

	require.Len(t, seeds, 2)
	assert.Equal(t, []string{"Memories from University", "January vacation planning!"}, titles(seeds))
	for _, m := range seeds {
		assert.True(t, m.Sample)
		assert.Len(t, m.Places, 3)
	}
	assert.Equal(t, core.NewPlace("Branner Hall", "Best dorm at Stanford", 37.426, -122.163), seeds[0].Places[0])
	assert.Equal(t, "Inspired by \"Crazy Rich Asians\"", seeds[1].Places[2].Description)

	// fresh copies every call
	seeds[0].Places[0].Title = "changed"
	assert.Equal(t, "Branner Hall", SampleMaps()[0].Places[0].Title)
}

func TestLoad_FirstRunShowsSeedsInOrder(t *testing.T) {
	store := file.New(config.FileConfig{Path: filepath.Join(t.TempDir(), "UserMaps.data")})
	lib := New(store, nil, nil)

	require.NoError(t, lib.Load(context.Background()))

	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, []string{"Memories from University", "January vacation planning!"}, titles(lib.Maps()))
}

func TestCreate_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "UserMaps.data")
	store := file.New(config.FileConfig{Path: path})
	lib := New(store, nil, nil)
	require.NoError(t, lib.Load(context.Background()))

	roadTrip := core.NewUserMap("Road Trip", core.NewPlace("Grand Canyon", "", 36.1, -112.1))
	require.NoError(t, lib.Create(context.Background(), roadTrip))
	assert.Equal(t, 3, lib.Len())

	stored, err := file.New(config.FileConfig{Path: path}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.UserMap{roadTrip}, stored)

	restarted := New(file.New(config.FileConfig{Path: path}), nil, nil)
	require.NoError(t, restarted.Load(context.Background()))
	assert.Equal(t,
		[]string{"Memories from University", "January vacation planning!", "Road Trip"},
		titles(restarted.Maps()))
}

func TestCreate_SavesFullLibrary(t *testing.T) {
	store := memory.New()
	lib := New(store, nil, nil)
	require.NoError(t, lib.Load(context.Background()))

	roadTrip := core.NewUserMap("Road Trip", core.NewPlace("Grand Canyon", "", 36.1, -112.1))
	require.NoError(t, lib.Create(context.Background(), roadTrip))

	assert.Equal(t, 1, store.Saves())
	assert.Equal(t, 3, store.LastSaveLen())

	restarted := New(store, nil, nil)
	require.NoError(t, restarted.Load(context.Background()))
	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.UserMap{roadTrip}, stored)
	assert.Equal(t, 3, restarted.Len())
}

func TestCreate_SaveFailureKeepsEntry(t *testing.T) {
	store := memory.New()
	lib := New(store, nil, nil)
	require.NoError(t, lib.Load(context.Background()))

	store.FailSave = errors.New("disk full")
	err := lib.Create(context.Background(), core.NewUserMap("Road Trip"))

	var saveErr *storage.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, 3, lib.Len())

	// the next mutation writes both maps
	store.FailSave = nil
	require.NoError(t, lib.Create(context.Background(), core.NewUserMap("Weekend")))

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Road Trip", "Weekend"}, titles(stored))
}

func TestCreate_RejectsBlankTitle(t *testing.T) {
	store := memory.New()
	lib := New(store, nil, nil)
	require.NoError(t, lib.Load(context.Background()))

	for _, title := range []string{"", "   ", "\t\n"} {
		err := lib.Create(context.Background(), core.NewUserMap(title))
		assert.ErrorIs(t, err, ErrEmptyTitle)
	}
	assert.Equal(t, 2, lib.Len())
	assert.Zero(t, store.Saves())
}

func TestCreate_AcceptsMapWithoutPlaces(t *testing.T) {
	store := memory.New()
	lib := New(store, nil, nil)
	require.NoError(t, lib.Load(context.Background()))

	require.NoError(t, lib.Create(context.Background(), core.UserMap{Title: "Empty"}))

	m, err := lib.Get(2)
	require.NoError(t, err)
	assert.NotNil(t, m.Places)
	assert.Empty(t, m.Places)
}

func TestLoad_ReadFailureFallsBackToSeeds(t *testing.T) {
	store := memory.New()
	store.FailLoad = errors.New("corrupt")
	lib := New(store, nil, nil)

	err := lib.Load(context.Background())

	var loadErr *storage.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, lib.Len())
}

func TestLoad_NoDeduplication(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Save(context.Background(), []core.UserMap{
		core.NewUserMap("Memories from University"),
	}))
	lib := New(store, nil, nil)

	require.NoError(t, lib.Load(context.Background()))

	assert.Equal(t,
		[]string{"Memories from University", "January vacation planning!", "Memories from University"},
		titles(lib.Maps()))
}

func TestLoad_CustomSeeds(t *testing.T) {
	lib := New(memory.New(), nil, func() []core.UserMap { return nil })

	require.NoError(t, lib.Load(context.Background()))
	assert.Zero(t, lib.Len())
}

func TestGet(t *testing.T) {
	lib := New(memory.New(), nil, nil)
	require.NoError(t, lib.Load(context.Background()))

	m, err := lib.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "January vacation planning!", m.Title)

	m.Places[0].Title = "changed"
	again, err := lib.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", again.Places[0].Title)

	for _, i := range []int{-1, 2, 100} {
		_, err := lib.Get(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
}

func TestMaps_ReturnsCopies(t *testing.T) {
	lib := New(memory.New(), nil, nil)
	require.NoError(t, lib.Load(context.Background()))

	maps := lib.Maps()
	maps[0].Title = "changed"
	maps[0].Places[0].Latitude = 0

	assert.Equal(t, "Memories from University", lib.Maps()[0].Title)
	assert.Equal(t, 37.426, lib.Maps()[0].Places[0].Latitude)
}
