package httpx

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"time"

	"dqx0.com/go/tinyhttp/httpx/internal/http1"
	"dqx0.com/go/tinyhttp/internal/obs"
)

const maxResponseHeadBytes = 64 << 10

// ReadResponse parses a response off br. The body is framed by
// content-length, chunked coding, or the end of the stream.
func ReadResponse(br *bufio.Reader) (*Response, error) {
	return readResponse(br, true)
}

func readResponse(br *bufio.Reader, bodyAllowed bool) (*Response, error) {
	_, code, _, err := http1.ReadStatusLine(br, maxResponseHeadBytes)
	if err != nil {
		return nil, err
	}
	fields, err := http1.ReadFields(br, maxResponseHeadBytes)
	if err != nil {
		return nil, err
	}
	resp := &Response{StatusCode: StatusCode(code), Header: Header{}}
	for _, f := range fields {
		resp.Header.Set(f.Name, f.Value)
	}
	if !bodyAllowed || !resp.StatusCode.AllowsBody() {
		return resp, nil
	}
	switch {
	case resp.Header.IsChunked():
		resp.Body = http1.NewChunkedReader(br, maxResponseHeadBytes)
	case resp.Header.Has(HeaderContentLength):
		n, ok := resp.Header.ContentLength()
		if !ok {
			return nil, fmt.Errorf("httpx: bad content-length %q", resp.Header.Get(HeaderContentLength))
		}
		resp.Body = io.LimitReader(br, int64(n))
	default:
		resp.Body = br
	}
	return resp, nil
}

// Close closes the body when it is closable.
func (r *Response) Close() error {
	if c, ok := r.Body.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Client sends a single request per connection and reads the reply.
type Client struct {
	Timeout time.Duration
	Logger  obs.Logger
}

type clientBody struct {
	io.Reader
	c net.Conn
}

func (b *clientBody) Close() error { return b.c.Close() }

// Do dials addr, writes req with an explicit content-length and returns
// the response. Closing the response closes the connection.
func (c *Client) Do(ctx context.Context, addr string, req *Request) (*Response, error) {
	lg := c.logger().With("addr", addr)
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		lg.Log(obs.Error, "dial failed", "err", err)
		return nil, err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	resp, err := c.roundTrip(conn, addr, req)
	if err != nil {
		conn.Close()
		lg.Log(obs.Warn, "round trip failed", "err", err)
		return nil, err
	}
	lg.Log(obs.Debug, "response", "status", int(resp.StatusCode))
	if resp.Body == nil {
		conn.Close()
		return resp, nil
	}
	resp.Body = &clientBody{Reader: resp.Body, c: conn}
	return resp, nil
}

func (c *Client) roundTrip(conn net.Conn, addr string, req *Request) (*Response, error) {
	hdr := Header{}
	for k, v := range req.Header {
		hdr.Set(k, v)
	}
	if !hdr.Has("host") {
		hdr.Set("host", addr)
	}
	hdr.Set(HeaderConnection, "close")
	var body []byte
	if req.Body != nil {
		// Buffer body to compute length. A declared length is read exactly.
		if n, ok := hdr.ContentLength(); ok {
			if n > math.MaxInt64 {
				return nil, fmt.Errorf("httpx: content-length %d out of range", n)
			}
			var buf bytes.Buffer
			if _, err := io.CopyN(&buf, req.Body, int64(n)); err != nil {
				if err == io.EOF {
					err = fmt.Errorf("httpx: request body shorter than content-length %d: %w", n, io.ErrUnexpectedEOF)
				}
				return nil, err
			}
			body = buf.Bytes()
		} else {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, req.Body); err != nil {
				return nil, err
			}
			body = buf.Bytes()
		}
		hdr.SetContentLength(uint64(len(body)))
	} else if req.Method.HasBody() {
		hdr.SetContentLength(0)
	}

	bw := bufio.NewWriter(conn)
	target := req.URL.String()
	if target == "" {
		target = "/"
	}
	if err := http1.WriteRequestLine(bw, req.Method.String(), target); err != nil {
		return nil, err
	}
	keys := hdr.Keys()
	fields := make([]http1.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, http1.Field{Name: k, Value: hdr[k]})
	}
	if err := http1.WriteFields(bw, fields); err != nil {
		return nil, err
	}
	if _, err := bw.Write(body); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return readResponse(bufio.NewReader(conn), req.Method != HEAD)
}

func (c *Client) logger() obs.Logger {
	if c.Logger == nil {
		return obs.NopLogger{}
	}
	return c.Logger
}

