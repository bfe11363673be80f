package http1

import (
	"bytes"
	"errors"
	"io"
)

var (
	ErrHeadTooLarge   = errors.New("http1: header block too large")
	ErrIncompleteHead = errors.New("http1: incomplete header block")
)

var headBoundary = []byte("\r\n\r\n")

const (
	DefaultMaxHeadBytes  = 8 << 10
	DefaultReadChunkSize = 1 << 10
)

// HeadReader pulls bytes off R until the header block is complete.
type HeadReader struct {
	R            io.Reader
	MaxHeadBytes int
	ChunkSize    int
}

// ReadHead returns the header block without its terminating CRLFCRLF and
// the bytes read past it. Read failures other than io.EOF are returned
// unwrapped so callers can classify them.
func (h *HeadReader) ReadHead() (head, leftover []byte, err error) {
	max := h.MaxHeadBytes
	if max <= 0 {
		max = DefaultMaxHeadBytes
	}
	chunk := h.ChunkSize
	if chunk <= 0 {
		chunk = DefaultReadChunkSize
	}
	buf := make([]byte, 0, chunk)
	for {
		if cap(buf)-len(buf) < chunk {
			grown := make([]byte, len(buf), 2*cap(buf)+chunk)
			copy(grown, buf)
			buf = grown
		}
		n, rerr := h.R.Read(buf[len(buf) : len(buf)+chunk])
		// The boundary may straddle two reads.
		from := len(buf) - (len(headBoundary) - 1)
		if from < 0 {
			from = 0
		}
		buf = buf[:len(buf)+n]
		if i := bytes.Index(buf[from:], headBoundary); i >= 0 {
			end := from + i
			if end+len(headBoundary) > max {
				return nil, nil, ErrHeadTooLarge
			}
			return buf[:end], buf[end+len(headBoundary):], nil
		}
		if len(buf) > max {
			return nil, nil, ErrHeadTooLarge
		}
		if rerr == io.EOF {
			return nil, nil, ErrIncompleteHead
		}
		if rerr != nil {
			return nil, nil, rerr
		}
	}
}

// Body serves exactly n bytes: leftover first, then the underlying reader.
type Body struct {
	leftover []byte
	r        io.Reader
	remain   int64
}

func NewBody(leftover []byte, r io.Reader, n int64) *Body {
	if int64(len(leftover)) > n {
		leftover = leftover[:n]
	}
	return &Body{leftover: leftover, r: r, remain: n}
}

// Remaining reports how many bytes the body has yet to yield.
func (b *Body) Remaining() int64 { return b.remain }

func (b *Body) Read(p []byte) (int, error) {
	if b.remain <= 0 {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > b.remain {
		p = p[:b.remain]
	}
	if len(b.leftover) > 0 {
		n := copy(p, b.leftover)
		b.leftover = b.leftover[n:]
		b.remain -= int64(n)
		return n, nil
	}
	n, err := b.r.Read(p)
	b.remain -= int64(n)
	if err == io.EOF {
		if b.remain > 0 {
			return n, io.ErrUnexpectedEOF
		}
		if n > 0 {
			return n, nil
		}
	}
	return n, err
}

// Discard consumes whatever is left of the body.
func (b *Body) Discard() error {
	_, err := io.Copy(io.Discard, b)
	return err
}
