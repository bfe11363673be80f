package httpx

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dqx0.com/go/tinyhttp/httpx/internal/http1"
)

// WriteResponse serializes resp onto w: status line, headers, blank line,
// then the body framed by content-length when the handler set one, or
// by chunked transfer coding otherwise.
func WriteResponse(w io.Writer, resp *Response) error {
	return writeResponse(w, resp, true)
}

func writeResponse(w io.Writer, resp *Response, withBody bool) error {
	if c, ok := resp.Body.(io.Closer); ok {
		defer c.Close()
	}
	code := resp.StatusCode
	if code == 0 {
		code = StatusOK
	}
	hdr := resp.header()
	body := resp.Body

	var length uint64
	chunked := false
	switch {
	case !code.AllowsBody():
		hdr.Del(HeaderContentLength)
		hdr.Del(HeaderTransferEncoding)
		body = nil
	case body == nil && hdr.IsChunked():
		chunked = true
		body = strings.NewReader("")
	case body == nil:
		n, ok := hdr.ContentLength()
		if !ok {
			hdr.SetContentLength(0)
		}
		length = n
	default:
		if n, ok := hdr.ContentLength(); ok {
			hdr.Del(HeaderTransferEncoding)
			length = n
		} else {
			hdr.SetChunked()
			chunked = true
		}
	}
	hdr.Set(HeaderConnection, "close")

	bw := bufio.NewWriter(w)
	if err := http1.WriteStatusLine(bw, int(code), code.Reason()); err != nil {
		return err
	}
	keys := hdr.Keys()
	fields := make([]http1.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, http1.Field{Name: k, Value: hdr[k]})
	}
	if err := http1.WriteFields(bw, fields); err != nil {
		return err
	}
	if withBody {
		if err := writeBody(bw, body, length, chunked); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeBody(bw *bufio.Writer, body io.Reader, length uint64, chunked bool) error {
	if chunked {
		cw := &http1.ChunkedWriter{W: bw}
		if _, err := io.Copy(cw, body); err != nil {
			return err
		}
		return cw.Close()
	}
	if length == 0 {
		return nil
	}
	if body == nil {
		return fmt.Errorf("%w: no body, want %d bytes", ErrShortBody, length)
	}
	n, err := io.CopyN(bw, body, int64(length))
	if err == io.EOF {
		return fmt.Errorf("%w: got %d of %d bytes", ErrShortBody, n, length)
	}
	return err
}
