// Package site holds the handlers the server binary runs: static files
// under a root directory and a POST dump that echoes the request body.
package site

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"dqx0.com/go/tinyhttp/httpx"
	"dqx0.com/go/tinyhttp/internal/obs"
)

const DefaultMaxDumpBytes = 1 << 20

// Handler is safe for concurrent use; it only reads its fields.
type Handler struct {
	root         string
	maxDumpBytes uint64
	logger       obs.Logger
}

// New resolves root to an absolute, symlink-free directory.
func New(root string, maxDumpBytes uint64, lg obs.Logger) (*Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("site: root %q: %w", root, err)
	}
	fi, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("site: root %q is not a directory", root)
	}
	if maxDumpBytes == 0 {
		maxDumpBytes = DefaultMaxDumpBytes
	}
	if lg == nil {
		lg = obs.NopLogger{}
	}
	return &Handler{root: resolved, maxDumpBytes: maxDumpBytes, logger: lg}, nil
}

func (h *Handler) Root() string { return h.root }

func (h *Handler) HandleRequest(r *httpx.Request) *httpx.Response {
	switch r.Method {
	case httpx.GET, httpx.HEAD:
		p, err := url.PathUnescape(r.Path())
		if err != nil {
			return notFound(r.Path())
		}
		return h.serveFile(p)
	case httpx.POST:
		return h.dump(r)
	default:
		return httpx.StringResponse(httpx.StatusMethodNotAllowed, "Unsupported HTTP method\n").
			WithHeader(httpx.HeaderAllow, "GET, HEAD, POST")
	}
}

func (h *Handler) HandleBadRequest(err *httpx.ParseError) *httpx.Response {
	h.logger.Log(obs.Debug, "answering bad request", "kind", err.KindName())
	return httpx.BadRequestResponse(err)
}

func (h *Handler) dump(r *httpx.Request) *httpx.Response {
	n, _ := r.Header.ContentLength()
	if n > h.maxDumpBytes {
		return httpx.StringResponse(httpx.StatusPayloadTooLarge, "Request entity too large\n")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		h.logger.Log(obs.Warn, "reading request body", "err", err)
		return httpx.ErrorResponse(httpx.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
	}
	ct := r.Header.Get(httpx.HeaderContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	return httpx.NewResponse(httpx.StatusOK).
		WithContentType(ct).
		WithContentLength(uint64(len(body))).
		WithBody(bytes.NewReader(body))
}

// serveFile takes the percent-decoded request path.
func (h *Handler) serveFile(urlPath string) *httpx.Response {
	if urlPath == "/" || urlPath == "" {
		urlPath = "/index.html"
	}
	full, ok := h.resolve(urlPath)
	if !ok {
		return notFound(urlPath)
	}
	fi, err := os.Stat(full)
	if err != nil {
		return notFound(urlPath)
	}
	if fi.IsDir() {
		index := filepath.Join(full, "index.html")
		if ifi, err := os.Stat(index); err == nil && !ifi.IsDir() {
			return h.openFile(index, urlPath)
		}
		return h.listing(full, urlPath)
	}
	return h.openFile(full, urlPath)
}

// resolve maps a request path onto the filesystem and rejects anything
// that ends up outside root once symlinks are followed.
func (h *Handler) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	full := filepath.Join(h.root, filepath.FromSlash(rel))
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return "", false
	}
	if resolved != h.root && !strings.HasPrefix(resolved, h.root+string(filepath.Separator)) {
		h.logger.Log(obs.Warn, "path escapes root", "path", urlPath)
		return "", false
	}
	return resolved, true
}

func (h *Handler) openFile(full, urlPath string) *httpx.Response {
	f, err := os.Open(full)
	if err != nil {
		return notFound(urlPath)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return notFound(urlPath)
	}
	return httpx.NewResponse(httpx.StatusOK).
		WithContentType(ContentType(full)).
		WithContentLength(uint64(fi.Size())).
		WithBody(f)
}

func notFound(urlPath string) *httpx.Response {
	return httpx.StringResponse(httpx.StatusNotFound, fmt.Sprintf("File %s not found\n", urlPath))
}

// ContentType guesses a media type from the file extension.
func ContentType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + ext
	case "svg":
		return "image/svg+xml"
	case "html", "htm":
		return "text/html; charset=utf-8"
	case "css":
		return "text/css; charset=utf-8"
	case "txt":
		return "text/plain; charset=utf-8"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "wasm", "pdf":
		return "application/" + ext
	default:
		return "application/octet-stream"
	}
}
