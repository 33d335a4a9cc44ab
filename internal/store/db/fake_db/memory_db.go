package fake_db

import (
	"fmt"

	"github.com/denisschmidt/songvault/internal/store/db"
	"github.com/google/uuid"
)

// New returns a catalog backed by a private in-memory SQLite database
func New() (*db.DB, error) {
	return db.New(ephemeralDbURI())
}

func ephemeralDbURI() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
}
