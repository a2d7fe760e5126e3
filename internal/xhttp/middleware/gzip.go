package middleware

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/garrettladley/snooze/internal/xhttp"
)

const (
	gzipEncoding = "gzip"
	healthPath   = "/health"
	// bodies below this are sent as-is
	gzipMinSize = 1024
)

var gzipPool = sync.Pool{
	New: func() any { return gzip.NewWriter(nil) },
}

type gzipMode int

const (
	gzipPending gzipMode = iota
	gzipPlain
	gzipCompressed
)

// gzipWriter holds the body back until gzipMinSize bytes arrive, then
// commits to compressed or plain output.
type gzipWriter struct {
	http.ResponseWriter
	zw     *gzip.Writer
	buf    bytes.Buffer
	status int
	mode   gzipMode
}

var (
	_ http.ResponseWriter = (*gzipWriter)(nil)
	_ http.Flusher        = (*gzipWriter)(nil)
)

func (g *gzipWriter) WriteHeader(code int) {
	if g.status == 0 {
		g.status = code
	}
}

func (g *gzipWriter) Write(b []byte) (int, error) {
	if g.status == 0 {
		g.status = http.StatusOK
	}

	switch g.mode {
	case gzipCompressed:
		return g.zw.Write(b)
	case gzipPlain:
		return g.ResponseWriter.Write(b)
	}

	n, _ := g.buf.Write(b)
	if g.buf.Len() < gzipMinSize {
		return n, nil
	}
	if err := g.commit(g.compressible()); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *gzipWriter) compressible() bool {
	h := g.Header()
	if h.Get(xhttp.ContentEncoding) != "" {
		return false
	}
	switch g.status {
	case http.StatusNoContent, http.StatusNotModified:
		return false
	}
	ct := h.Get(xhttp.ContentType)
	if ct == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") || strings.HasSuffix(mt, "json")
}

// commit sends the header and whatever has been buffered so far.
func (g *gzipWriter) commit(compress bool) error {
	if !compress {
		g.mode = gzipPlain
		g.ResponseWriter.WriteHeader(g.status)
		if _, err := g.ResponseWriter.Write(g.buf.Bytes()); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		return nil
	}

	g.mode = gzipCompressed
	g.Header().Set(xhttp.ContentEncoding, gzipEncoding)
	g.Header().Del(xhttp.ContentLength)
	g.ResponseWriter.WriteHeader(g.status)

	g.zw = gzipPool.Get().(*gzip.Writer)
	g.zw.Reset(g.ResponseWriter)
	if _, err := g.zw.Write(g.buf.Bytes()); err != nil {
		return fmt.Errorf("compressing response: %w", err)
	}
	return nil
}

func (g *gzipWriter) finish() error {
	switch g.mode {
	case gzipPending:
		if g.status == 0 {
			g.status = http.StatusOK
		}
		return g.commit(false)
	case gzipCompressed:
		err := g.zw.Close()
		gzipPool.Put(g.zw)
		g.zw = nil
		return err
	}
	return nil
}

// Flush commits a pending response before flushing so streamed output is
// never held back.
func (g *gzipWriter) Flush() {
	if g.mode == gzipPending {
		if err := g.commit(g.buf.Len() >= gzipMinSize && g.compressible()); err != nil {
			return
		}
	}
	if g.zw != nil {
		_ = g.zw.Flush()
	}
	if f, ok := g.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (g *gzipWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}

// Gzip compresses text and JSON responses of at least 1KB for clients that
// accept gzip. HEAD requests and the health probe pass through untouched.
func Gzip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || r.URL.Path == healthPath || !acceptsGzip(r.Header.Get(xhttp.AcceptEncoding)) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add(xhttp.Vary, xhttp.AcceptEncoding)

		gw := &gzipWriter{ResponseWriter: w}
		defer func() { _ = gw.finish() }()

		next.ServeHTTP(gw, r)
	})
}

// acceptsGzip reads an Accept-Encoding header, honouring an explicit q=0.
func acceptsGzip(header string) bool {
	for part := range strings.SplitSeq(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), gzipEncoding) {
			continue
		}
		q := strings.ReplaceAll(params, " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}
