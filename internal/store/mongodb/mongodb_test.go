package mongodb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/denisschmidt/songvault/internal/types"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := parseID(types.ID(oid.Hex()))
	require.NoError(t, err)
	require.Equal(t, oid, got)

	for _, bad := range []string{"", "not-an-object-id", "123"} {
		_, err := parseID(types.ID(bad))
		require.Error(t, err, bad)
	}
}

func TestSongDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := songDocument{ID: oid, Title: "T", Artist: "A", FilePath: "uploads/1-t.mp3"}

	require.Equal(t, types.Song{
		ID:       types.ID(oid.Hex()),
		Title:    "T",
		Artist:   "A",
		FilePath: "uploads/1-t.mp3",
	}, doc.song())
}

func TestNewRequiresURI(t *testing.T) {
	_, err := New(context.Background(), "", "db", "songs")
	require.Error(t, err)
}

// TestCatalog runs against a live server, e.g.
// MONGO_TEST_URI=mongodb://localhost:27017 go test ./internal/store/mongodb
func TestCatalog(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("songvault_test_%d", time.Now().UnixNano())
	catalog, err := New(ctx, uri, dbName, "songs")
	require.NoError(t, err)
	defer func() {
		_ = catalog.client.Database(dbName).Drop(ctx)
		_ = catalog.Close(ctx)
	}()

	songs, err := catalog.ListSongs(ctx)
	require.NoError(t, err)
	require.Empty(t, songs)

	id, err := catalog.InsertSong(ctx, types.Song{Title: "T", Artist: "A", FilePath: "uploads/1-t.mp3"})
	require.NoError(t, err)

	song, err := catalog.GetSong(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "T", song.Title)
	require.Equal(t, "uploads/1-t.mp3", song.FilePath)

	songs, err = catalog.ListSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	require.Equal(t, id, songs[0].ID)

	var notExists types.ErrSongNotExists
	_, err = catalog.GetSong(ctx, types.ID(primitive.NewObjectID().Hex()))
	require.True(t, errors.As(err, &notExists))

	_, err = catalog.GetSong(ctx, types.ID("garbage"))
	require.True(t, errors.As(err, &notExists))
}
