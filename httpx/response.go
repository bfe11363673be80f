package httpx

import (
	"io"
	"strings"
)

// Response is produced by a Handler and written exactly once. Body, if
// non-nil, is read to exhaustion (or to content-length) and closed when
// it implements io.Closer.
type Response struct {
	StatusCode StatusCode
	Header     Header
	Body       io.Reader
}

func NewResponse(code StatusCode) *Response {
	return &Response{StatusCode: code, Header: Header{}}
}

// StringResponse returns a text/plain response with an explicit length.
func StringResponse(code StatusCode, body string) *Response {
	return NewResponse(code).
		WithContentType("text/plain; charset=utf-8").
		WithContentLength(uint64(len(body))).
		WithBody(strings.NewReader(body))
}

// ErrorResponse reports err as a plain-text body.
func ErrorResponse(code StatusCode, err error) *Response {
	msg := code.Reason()
	if err != nil {
		msg = err.Error()
	}
	return StringResponse(code, msg+"\n")
}

func (r *Response) WithContentType(ct string) *Response {
	r.header().Set(HeaderContentType, ct)
	return r
}

func (r *Response) WithContentLength(n uint64) *Response {
	r.header().SetContentLength(n)
	return r
}

func (r *Response) WithHeader(name, value string) *Response {
	r.header().Set(name, value)
	return r
}

func (r *Response) WithBody(body io.Reader) *Response {
	r.Body = body
	return r
}

func (r *Response) header() Header {
	if r.Header == nil {
		r.Header = Header{}
	}
	return r.Header
}
