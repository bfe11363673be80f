package httpx

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"dqx0.com/go/tinyhttp/httpx/internal/http1"
)

// Request is one parsed request. Body, when present, is a forward-only
// stream of exactly content-length bytes; it is nil for methods that
// carry no body.
type Request struct {
	Method     Method
	URL        URL
	Header     Header
	Body       io.Reader
	RemoteAddr string
	ctx        context.Context
}

// Path returns the request path as sent.
func (r *Request) Path() string { return r.URL.Path }

// Read reads from the body; a request without a body is at EOF.
func (r *Request) Read(p []byte) (int, error) {
	if r.Body == nil {
		return 0, io.EOF
	}
	return r.Body.Read(p)
}

// Context returns the request's context. If nil, returns Background.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r with its context changed to ctx.
func WithContext(r *Request, ctx context.Context) *Request {
	if r == nil {
		return nil
	}
	r2 := *r
	r2.ctx = ctx
	return &r2
}

// ParseOptions bounds the parser. Zero values select the defaults.
type ParseOptions struct {
	MaxHeaderBytes int // ceiling for the header block, 8 KiB by default
	ReadChunkSize  int // bytes requested per read, 1 KiB by default
}

const protoHTTP11 = "HTTP/1.1"

// ReadRequest reads one request off src. Any error it returns is a
// *ParseError. The returned body keeps reading from src.
func ReadRequest(src io.Reader, opts ParseOptions) (*Request, error) {
	hr := &http1.HeadReader{R: src, MaxHeadBytes: opts.MaxHeaderBytes, ChunkSize: opts.ReadChunkSize}
	head, leftover, err := hr.ReadHead()
	switch {
	case err == nil:
	case errors.Is(err, http1.ErrHeadTooLarge):
		return nil, parseErr(ErrRequestTooBig, nil)
	case errors.Is(err, http1.ErrIncompleteHead):
		return nil, parseErr(ErrIncompleteHeaders, nil)
	default:
		return nil, parseErr(ErrRead, err)
	}
	if !utf8.Valid(head) {
		return nil, parseErr(ErrInvalidEncoding, nil)
	}
	text := string(head)

	line, block, _ := strings.Cut(text, "\r")
	block = strings.TrimPrefix(block, "\n")
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, parseErr(ErrInvalidRequest, nil)
	}
	if parts[2] != protoHTTP11 {
		return nil, parseErr(ErrInvalidProtocol, nil)
	}
	method, err := ParseMethod(parts[0])
	if err != nil {
		return nil, parseErr(ErrInvalidMethod, nil)
	}

	req := &Request{
		Method: method,
		URL:    ParseURL(parts[1]),
		Header: parseHeaderBlock(block),
	}
	if method.HasBody() {
		n, ok := req.Header.ContentLength()
		if !ok || n > math.MaxInt64 {
			return nil, parseErr(ErrInvalidRequest, errors.New("missing or malformed content-length"))
		}
		req.Body = http1.NewBody(leftover, src, int64(n))
	}
	return req, nil
}
