package tags_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/denisschmidt/songvault/internal/tags"
	"github.com/stretchr/testify/require"
)

// id3v1 builds a minimal audio payload followed by a 128 byte ID3v1 trailer
func id3v1(title, artist string) []byte {
	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}
	out := []byte("not really mpeg audio, just some bytes before the trailer")
	out = append(out, []byte("TAG")...)
	out = append(out, field(title, 30)...)
	out = append(out, field(artist, 30)...)
	out = append(out, field("Album", 30)...)
	out = append(out, field("2001", 4)...)
	out = append(out, field("", 30)...)
	out = append(out, 12)
	return out
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRead(t *testing.T) {
	path := writeFile(t, id3v1("Tagged Title", "Tagged Artist"))

	md, err := tags.Read(path)
	require.NoError(t, err)
	require.Equal(t, "Tagged Title", md.Title)
	require.Equal(t, "Tagged Artist", md.Artist)
}

func TestReadNoTags(t *testing.T) {
	path := writeFile(t, []byte("plain bytes without any tag block"))

	_, err := tags.Read(path)
	require.Error(t, err)
}

func TestFill(t *testing.T) {
	tagged := writeFile(t, id3v1("Tagged Title", "Tagged Artist"))
	untagged := writeFile(t, []byte("plain bytes without any tag block"))

	for _, row := range []struct {
		description string
		path        string
		title       string
		artist      string
		wantTitle   string
		wantArtist  string
	}{
		{"both given", tagged, "T", "A", "T", "A"},
		{"title missing", tagged, "", "A", "Tagged Title", "A"},
		{"both missing", tagged, "", "", "Tagged Title", "Tagged Artist"},
		{"no tags in file", untagged, "", "", "", ""},
		{"missing file", filepath.Join(t.TempDir(), "gone.mp3"), "", "A", "", "A"},
	} {
		t.Run(row.description, func(t *testing.T) {
			title, artist := tags.Fill(row.path, row.title, row.artist)
			require.Equal(t, row.wantTitle, title)
			require.Equal(t, row.wantArtist, artist)
		})
	}
}
