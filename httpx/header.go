package httpx

import (
	"sort"
	"strconv"
	"strings"
)

const (
	HeaderContentLength    = "content-length"
	HeaderTransferEncoding = "transfer-encoding"
	HeaderContentType      = "content-type"
	HeaderConnection       = "connection"
	HeaderAllow            = "allow"
)

// Header maps lower-cased field names to their last-seen value.
type Header map[string]string

// Set stores value under the lower-cased name, replacing any previous
// value. Like any map write it panics on a nil Header.
func (h Header) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Add is Set; duplicate fields are last-write-wins, never concatenated.
func (h Header) Add(name, value string) { h.Set(name, value) }

func (h Header) Get(name string) string {
	if h == nil {
		return ""
	}
	return h[strings.ToLower(name)]
}

func (h Header) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h[strings.ToLower(name)]
	return ok
}

func (h Header) Del(name string) {
	if h == nil {
		return
	}
	delete(h, strings.ToLower(name))
}

// ContentLength returns the parsed content-length, or false when it is
// missing or not a decimal unsigned integer.
func (h Header) ContentLength() (uint64, bool) {
	v, ok := h[HeaderContentLength]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetContentLength sets an explicit length and drops transfer-encoding;
// the two framing signals are mutually exclusive.
func (h Header) SetContentLength(n uint64) {
	delete(h, HeaderTransferEncoding)
	h[HeaderContentLength] = strconv.FormatUint(n, 10)
}

// SetChunked marks the body as chunked and drops content-length.
func (h Header) SetChunked() {
	delete(h, HeaderContentLength)
	h[HeaderTransferEncoding] = "chunked"
}

func (h Header) IsChunked() bool {
	return strings.Contains(strings.ToLower(h[HeaderTransferEncoding]), "chunked")
}

// Keys returns the field names in sorted order.
func (h Header) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseHeaderBlock builds a Header from "<name>: <value>" lines separated
// by CRLF. Lines without ": " or with an empty name are dropped.
func parseHeaderBlock(block string) Header {
	h := Header{}
	for _, line := range strings.Split(block, "\r\n") {
		name, value, ok := strings.Cut(line, ": ")
		if !ok || name == "" {
			continue
		}
		h.Set(name, value)
	}
	return h
}
