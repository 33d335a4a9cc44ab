package types

type (
	ID string

	// Song is a single catalog entry. FilePath points at the blob written
	// before the entry was created.
	Song struct {
		ID       ID     `json:"_id"`
		Title    string `json:"title"`
		Artist   string `json:"artist"`
		FilePath string `json:"filePath"`
	}

	SongPostResponse struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)
