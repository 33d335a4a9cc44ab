package blob

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ErrBlobExists is returned when the generated blob name is already taken,
// i.e. the same original filename was uploaded twice within one millisecond
var ErrBlobExists = errors.New("blob already exists")

// Store keeps uploaded audio bytes in a local directory. Blobs are named
// "<unix-millis>-<original filename>" and are never overwritten.
type Store struct {
	dir string
	now func() time.Time
}

func New(dir string) (*Store, error) {
	return NewWithClock(dir, time.Now)
}

func NewWithClock(dir string, now func() time.Time) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, now: now}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Name returns the blob name for an upload happening now
func (s *Store) Name(original string) string {
	return fmt.Sprintf("%d-%s", s.now().UnixMilli(), original)
}

// Write copies r into a new blob and returns its stored path, which is the
// upload directory joined with the blob name
func (s *Store) Write(original string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, s.Name(original))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s: %w", path, ErrBlobExists)
		}
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		s.discard(path)
		return "", err
	}

	if err := f.Close(); err != nil {
		s.discard(path)
		return "", err
	}

	return path, nil
}

// Resolve turns a stored path into an absolute one, relative paths being
// taken from the working directory
func (s *Store) Resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty blob path")
	}
	return filepath.Abs(path)
}

func (s *Store) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to remove partial blob %s: %v", path, err)
	}
}
