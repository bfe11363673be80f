package site

import (
	"bytes"
	"html"
	"net/url"
	"os"
	"path"
	"strings"

	"dqx0.com/go/tinyhttp/httpx"
	"dqx0.com/go/tinyhttp/internal/obs"
)

func (h *Handler) listing(dir, urlPath string) *httpx.Response {
	entries, err := os.ReadDir(dir)
	if err != nil {
		h.logger.Log(obs.Warn, "reading directory", "path", urlPath, "err", err)
		return notFound(urlPath)
	}
	base := urlPath
	if base == "" || base[len(base)-1] != '/' {
		base += "/"
	}
	title := html.EscapeString(base)

	var b bytes.Buffer
	b.WriteString("<!doctype html>\n<html><head><title>Index of ")
	b.WriteString(title)
	b.WriteString("</title></head><body>\n<h1>Index of ")
	b.WriteString(title)
	b.WriteString("</h1>\n<ul>\n")
	if base != "/" {
		parent := path.Dir(path.Clean(base))
		if parent != "/" {
			parent += "/"
		}
		b.WriteString("<li><a href=\"")
		b.WriteString(html.EscapeString(escapePath(parent)))
		b.WriteString("\">../</a></li>\n")
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		b.WriteString("<li><a href=\"")
		b.WriteString(html.EscapeString(escapePath(base + name)))
		b.WriteString("\">")
		b.WriteString(html.EscapeString(name))
		b.WriteString("</a></li>\n")
	}
	b.WriteString("</ul>\n</body></html>\n")

	return httpx.NewResponse(httpx.StatusOK).
		WithContentType("text/html; charset=utf-8").
		WithContentLength(uint64(b.Len())).
		WithBody(&b)
}

// escapePath percent-encodes each segment of a decoded path so the link
// decodes back to the same file.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
