package store

import (
	"context"

	"github.com/denisschmidt/songvault/internal/types"
)

// Store is the song catalog. Implementations assign IDs on insert and return
// types.ErrSongNotExists from GetSong for unknown IDs.
type Store interface {
	InsertSong(ctx context.Context, song types.Song) (types.ID, error)
	ListSongs(ctx context.Context) ([]types.Song, error)
	GetSong(ctx context.Context, id types.ID) (types.Song, error)

	Close(ctx context.Context) error
}
