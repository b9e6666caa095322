package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes before compression is applied
	MinSize int
	// Level is the gzip compression level
	Level int
	// CompressibleTypes is a list of content types that should be compressed
	CompressibleTypes []string
}

// DefaultCompressionConfig returns sensible defaults for compression
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   gzip.DefaultCompression,
		CompressibleTypes: []string{
			"application/json",
			"text/html",
			"text/plain",
			"text/css",
			"text/javascript",
			"image/svg+xml",
		},
	}
}

// gzipWriterPool reduces allocations by reusing gzip writers
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// gzipResponseWriter buffers the response until it can decide whether
// compression pays off (size and content type), then commits either a plain
// or a gzip-encoded response.
type gzipResponseWriter struct {
	http.ResponseWriter
	config      CompressionConfig
	gz          *gzip.Writer
	buffer      []byte
	statusCode  int
	decided     bool
	compressing bool
}

func newGzipResponseWriter(w http.ResponseWriter, config CompressionConfig) *gzipResponseWriter {
	return &gzipResponseWriter{
		ResponseWriter: w,
		config:         config,
		statusCode:     http.StatusOK,
		buffer:         make([]byte, 0, config.MinSize+1),
	}
}

// WriteHeader defers the header until the compression decision is made
func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	if g.decided {
		return
	}
	g.statusCode = statusCode
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if g.decided {
		if g.compressing {
			return g.gz.Write(b)
		}
		return g.ResponseWriter.Write(b)
	}

	g.buffer = append(g.buffer, b...)
	if len(g.buffer) > g.config.MinSize {
		if err := g.commit(true); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

// commit flushes the buffered response, compressed or plain
func (g *gzipResponseWriter) commit(largeEnough bool) error {
	g.decided = true

	contentType := g.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(g.buffer)
		g.Header().Set("Content-Type", contentType)
	}

	if largeEnough && g.typeCompressible(contentType) {
		g.compressing = true
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Add("Vary", "Accept-Encoding")
		g.Header().Del("Content-Length")
		g.ResponseWriter.WriteHeader(g.statusCode)

		gz := gzipWriterPool.Get().(*gzip.Writer)
		gz.Reset(g.ResponseWriter)
		g.gz = gz
		_, err := g.gz.Write(g.buffer)
		g.buffer = nil
		return err
	}

	g.ResponseWriter.WriteHeader(g.statusCode)
	_, err := g.ResponseWriter.Write(g.buffer)
	g.buffer = nil
	return err
}

// Flush commits an undecided response with whatever has been buffered and
// forwards the flush, so streaming handlers work behind this writer.
func (g *gzipResponseWriter) Flush() {
	if !g.decided {
		if err := g.commit(len(g.buffer) > g.config.MinSize); err != nil {
			return
		}
	}
	if g.compressing {
		g.gz.Flush()
	}
	if f, ok := g.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (g *gzipResponseWriter) typeCompressible(contentType string) bool {
	for _, t := range g.config.CompressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// close finishes the response; an undecided (small) body goes out plain
func (g *gzipResponseWriter) close() {
	if !g.decided {
		if err := g.commit(false); err != nil {
			return
		}
	}
	if g.compressing {
		g.gz.Close()
		gzipWriterPool.Put(g.gz)
		g.gz = nil
	}
}

// Compression returns a middleware that gzip-encodes compressible responses
// for clients that accept it. Event streams bypass compression because they
// must flush per event.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
				strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
				next.ServeHTTP(w, r)
				return
			}

			gw := newGzipResponseWriter(w, config)
			defer gw.close()

			next.ServeHTTP(gw, r)
		})
	}
}
