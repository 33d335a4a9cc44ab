package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/denisschmidt/songvault/internal/tags"
	"github.com/denisschmidt/songvault/internal/types"
	"github.com/gin-gonic/gin"
)

const (
	songFormField   = "song"
	titleFormField  = "title"
	artistFormField = "artist"

	uploadedMessage = "Song uploaded successfully"
)

// storageError marks a failure of the blob store or the catalog, as opposed
// to a bad request
type storageError struct {
	Op  string
	Err error
}

func (se storageError) Error() string {
	return fmt.Sprintf("%s: %s", se.Op, se.Err)
}

func (se storageError) Unwrap() error {
	return se.Err
}

func (h handlers) songUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.insertSongFromRequest(c)
		if err != nil {
			var se storageError
			if errors.As(err, &se) {
				log.Printf("failed to store uploaded song: %v", err)
				c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Upload failed"})
			} else {
				log.Printf("invalid upload: %v", err)
				c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: badUploadMessage(err)})
			}
			return
		}

		c.JSON(http.StatusCreated, types.SongPostResponse{
			Message: uploadedMessage,
			ID:      string(id),
		})
	}
}

func (h handlers) songList() gin.HandlerFunc {
	return func(c *gin.Context) {
		songs, err := h.catalog.ListSongs(c.Request.Context())
		if err != nil {
			log.Printf("failed to list songs: %v", err)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Error fetching songs"})
			return
		}

		c.JSON(http.StatusOK, songs)
	}
}

func (h handlers) songPlay() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := types.ID(c.Param("id"))

		song, err := h.catalog.GetSong(c.Request.Context(), id)
		if err != nil {
			var notExists types.ErrSongNotExists
			if errors.As(err, &notExists) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Song not found"})
				return
			}
			log.Printf("failed to look up song %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Error streaming song"})
			return
		}

		path, err := h.blobs.Resolve(song.FilePath)
		if err == nil {
			_, err = os.Stat(path)
		}
		if err != nil {
			log.Printf("failed to resolve blob of song %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Error streaming song"})
			return
		}

		if ct := audioContentType(path); ct != "" {
			c.Header("Content-Type", ct)
		}
		c.File(path)
	}
}

// insertSongFromRequest writes the uploaded blob and then records it in the
// catalog. The two steps are not atomic: if the catalog insert fails the blob
// stays on disk without a record.
func (h handlers) insertSongFromRequest(c *gin.Context) (types.ID, error) {
	fileHeader, err := c.FormFile(songFormField)
	if err != nil {
		return "", err
	}

	defer func() {
		if form := c.Request.MultipartForm; form != nil {
			if err := form.RemoveAll(); err != nil {
				log.Printf("failed to free multipart form resources: %v", err)
			}
		}
	}()

	filename, err := validateFilename(fileHeader.Filename)
	if err != nil {
		return "", err
	}

	title := c.PostForm(titleFormField)
	artist := c.PostForm(artistFormField)

	src, err := fileHeader.Open()
	if err != nil {
		return "", storageError{"open upload", err}
	}
	defer src.Close()

	startTime := time.Now()
	blobPath, err := h.blobs.Write(filename, src)
	if err != nil {
		return "", storageError{"write blob", err}
	}
	h.observe("blob_write", startTime)

	if h.fillTags {
		if resolved, err := h.blobs.Resolve(blobPath); err == nil {
			title, artist = tags.Fill(resolved, title, artist)
		}
	}

	startTime = time.Now()
	id, err := h.catalog.InsertSong(c.Request.Context(), types.Song{
		Title:    title,
		Artist:   artist,
		FilePath: blobPath,
	})
	if err != nil {
		return "", storageError{"insert song", err}
	}
	h.observe("catalog_insert", startTime)

	return id, nil
}

func badUploadMessage(err error) string {
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "No file uploaded"
	}
	return "Invalid upload"
}

func (h handlers) observe(metric string, startTime time.Time) {
	if h.stat != nil {
		h.stat.RecordMetric(metric, startTime)
	}
}
