package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateFilename(t *testing.T) {
	for _, row := range []struct {
		in   string
		want string
		ok   bool
	}{
		{"song.mp3", "song.mp3", true},
		{"dir/song.mp3", "song.mp3", true},
		{`C:\music\song.flac`, "song.flac", true},
		{"", "", false},
		{".", "", false},
		{"..", "", false},
		{"/", "", false},
		{strings.Repeat("x", 300) + ".mp3", "", false},
		{strings.Repeat("x", 237) + ".mp3", strings.Repeat("x", 237) + ".mp3", true},
		{strings.Repeat("x", 238) + ".mp3", "", false},
	} {
		got, err := validateFilename(row.in)
		if !row.ok {
			require.Error(t, err, row.in)
			continue
		}
		require.NoError(t, err, row.in)
		require.Equal(t, row.want, got)
	}
}

func TestAudioContentType(t *testing.T) {
	require.Equal(t, "audio/mpeg", audioContentType("uploads/1-a.MP3"))
	require.Equal(t, "audio/flac", audioContentType("1-a.flac"))
	require.Equal(t, "", audioContentType("1-a.txt"))
}
