package types

import (
	"fmt"
)

// ErrSongNotExists is returned when the catalog holds no song with the given ID
type ErrSongNotExists struct {
	ID ID
}

func (e ErrSongNotExists) Error() string {
	return fmt.Sprintf("no song found ID %v", e.ID)
}
