// Package tags reads the title and artist embedded in uploaded audio files.
package tags

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
)

type Metadata struct {
	Title  string
	Artist string
}

// Read extracts ID3, MP4, FLAC or OGG tags from the file at path
func Read(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
	}, nil
}

// Fill replaces empty title or artist with tag values from the file at path.
// Files without readable tags leave both untouched.
func Fill(path, title, artist string) (string, string) {
	if title != "" && artist != "" {
		return title, artist
	}
	md, err := Read(path)
	if err != nil {
		return title, artist
	}
	if title == "" {
		title = md.Title
	}
	if artist == "" {
		artist = md.Artist
	}
	return title, artist
}
