package http1

import (
	"bufio"
	"errors"
	"strconv"
	"strings"
)

var ErrMalformedStatus = errors.New("http1: malformed status line")

// ReadStatusLine parses "HTTP/1.x <code> [reason]".
func ReadStatusLine(br *bufio.Reader, limit int) (proto string, code int, reason string, err error) {
	line, err := ReadLine(br, limit)
	if err != nil {
		return "", 0, "", err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/1.") {
		return "", 0, "", ErrMalformedStatus
	}
	code, err = strconv.Atoi(parts[1])
	if err != nil || code < 100 || code > 999 {
		return "", 0, "", ErrMalformedStatus
	}
	if len(parts) == 3 {
		reason = parts[2]
	}
	return parts[0], code, reason, nil
}

// ReadFields reads header lines up to the blank line. Lines without a
// colon are skipped. limit caps the whole block.
func ReadFields(br *bufio.Reader, limit int) ([]Field, error) {
	var fields []Field
	total := 0
	for {
		line, err := ReadLine(br, limit)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return fields, nil
		}
		total += len(line) + 2
		if limit > 0 && total > limit {
			return nil, ErrHeadTooLarge
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		fields = append(fields, Field{
			Name:  strings.TrimSpace(line[:i]),
			Value: strings.TrimSpace(line[i+1:]),
		})
	}
}
