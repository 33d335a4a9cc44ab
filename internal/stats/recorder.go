package stats

import (
	"bufio"
	"errors"
	"net"
	"net/http"
)

// ResponseWriter is a http.ResponseWriter that remembers what was written
type ResponseWriter interface {
	http.ResponseWriter
	http.Flusher
	http.Hijacker
	Status() int
	Size() int
}

// responseRecorder tracks the HTTP status code and body size of a response
type responseRecorder struct {
	http.ResponseWriter
	status  int
	size    int
	written bool
}

func NewResponseRecorder(w http.ResponseWriter, statusCode int) ResponseWriter {
	return &responseRecorder{ResponseWriter: w, status: statusCode}
}

func (r *responseRecorder) WriteHeader(code int) {
	r.written = true
	r.ResponseWriter.WriteHeader(code)
	r.status = code
}

func (r *responseRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (r *responseRecorder) Status() int {
	return r.status
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}

	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

// Hijack drops the recorded status unless a header was already written, so
// hijacked connections are not counted as responses
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if !r.written {
		r.status = 0
	}
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("the ResponseWriter doesn't support the Hijacker interface")
	}
	return hijacker.Hijack()
}

func (r *responseRecorder) Size() int {
	return r.size
}
