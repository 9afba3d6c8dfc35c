package middleware

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

type GzipResponseWriter struct {
	http.ResponseWriter
	Writer *gzip.Writer
}

func (w *GzipResponseWriter) Write(b []byte) (int, error) {
	write, err := w.Writer.Write(b)
	if err != nil {
		return 0, fmt.Errorf("error writing to gzip writer: %w", err)
	}
	return write, nil
}

func (w *GzipResponseWriter) Close() error {
	return w.Writer.Close()
}

func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handle gzip request body
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gzipReader, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip body", http.StatusBadRequest)
				return
			}
			defer func(gzipReader *gzip.Reader) {
				if err := gzipReader.Close(); err != nil {
					log.Println("Error closing gzip reader")
				}
			}(gzipReader)
			r.Body = io.NopCloser(gzipReader)
		}

		// поток событий сжимать нельзя, его нужно сбрасывать по кадрам
		stream := strings.Contains(r.Header.Get("Accept"), "text/event-stream")
		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") && !stream {
			gzipWriter := gzip.NewWriter(w)
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Del("Content-Length")
			gzipResponseWriter := &GzipResponseWriter{Writer: gzipWriter, ResponseWriter: w}
			defer func() {
				if err := gzipResponseWriter.Close(); err != nil {
					log.Println("Error closing gzip writer")
				}
			}()
			next.ServeHTTP(gzipResponseWriter, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (w *GzipResponseWriter) Flush() {
	_ = w.Writer.Flush()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
