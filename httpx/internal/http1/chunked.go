package http1

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errChunkFormat = errors.New("http1: invalid chunk format")

// ChunkedWriter frames everything written to it as HTTP/1.1 chunks.
// Close writes the terminating zero-length chunk; it does not close W.
type ChunkedWriter struct {
	W      io.Writer
	closed bool
}

func (c *ChunkedWriter) Write(p []byte) (int, error) {
	if c.closed {
		return 0, errors.New("http1: write after chunked body closed")
	}
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(c.W, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	n, err := c.W.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := io.WriteString(c.W, "\r\n"); err != nil {
		return n, err
	}
	return n, nil
}

func (c *ChunkedWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	_, err := io.WriteString(c.W, "0\r\n\r\n")
	return err
}

// chunkedBody decodes a chunked body off br. Trailers are discarded.
type chunkedBody struct {
	br       *bufio.Reader
	remain   int64
	finished bool
	maxLine  int
}

func NewChunkedReader(br *bufio.Reader, maxLine int) io.Reader {
	return &chunkedBody{br: br, maxLine: maxLine}
}

func (c *chunkedBody) Read(p []byte) (int, error) {
	if c.finished {
		return 0, io.EOF
	}
	if c.remain == 0 {
		size, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := c.readTrailers(); err != nil {
				return 0, err
			}
			c.finished = true
			return 0, io.EOF
		}
		c.remain = size
	}
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > c.remain {
		p = p[:c.remain]
	}
	n, err := io.ReadFull(c.br, p)
	c.remain -= int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return n, err
	}
	if c.remain == 0 {
		if err := c.expectCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *chunkedBody) readChunkSize() (int64, error) {
	line, err := ReadLine(c.br, c.maxLine)
	if err != nil {
		return 0, err
	}
	// Strip chunk extensions: "<hex>;<ext>"
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, errChunkFormat
	}
	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, errChunkFormat
	}
	return n, nil
}

func (c *chunkedBody) expectCRLF() error {
	b1, err := c.br.ReadByte()
	if err != nil {
		return err
	}
	b2, err := c.br.ReadByte()
	if err != nil {
		return err
	}
	if b1 != '\r' || b2 != '\n' {
		return fmt.Errorf("http1: expected CRLF after chunk, got %q%q", b1, b2)
	}
	return nil
}

func (c *chunkedBody) readTrailers() error {
	for {
		line, err := ReadLine(c.br, c.maxLine)
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
	}
}

// ReadLine reads one CRLF (or bare LF) terminated line without the terminator.
func ReadLine(br *bufio.Reader, limit int) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if limit > 0 && sb.Len() > limit {
			return "", ErrHeadTooLarge
		}
	}
	return sb.String(), nil
}
