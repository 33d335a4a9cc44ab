package server

import (
	"errors"
	"path/filepath"
	"strings"
)

// maxFilenameLen leaves room for the "<unix-millis>-" prefix of blob names
// within the usual 255 byte filesystem limit
const maxFilenameLen = 255 - len("0000000000000-")

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
}

// validateFilename strips any directory part a client sent along with the
// original filename
func validateFilename(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "", errors.New("invalid filename")
	}
	if len(name) > maxFilenameLen {
		return "", errors.New("filename is too long")
	}
	return name, nil
}

func audioContentType(path string) string {
	return audioContentTypes[strings.ToLower(filepath.Ext(path))]
}
