package http1

import (
	"fmt"
	"io"
	"strings"
)

// Field is one header line as it goes on the wire.
type Field struct {
	Name  string
	Value string
}

// WriteRequestLine writes "<method> <target> HTTP/1.1".
func WriteRequestLine(w io.Writer, method, target string) error {
	_, err := fmt.Fprintf(w, "%s %s HTTP/1.1\r\n", method, target)
	return err
}

// WriteStatusLine writes "HTTP/1.1 <code> <reason>".
func WriteStatusLine(w io.Writer, code int, reason string) error {
	if reason == "" {
		reason = "Unknown"
	}
	_, err := fmt.Fprintf(w, "HTTP/1.1 %03d %s\r\n", code, SanitizeHeaderValue(reason))
	return err
}

// WriteFields writes each field as "<name>: <value>" followed by the blank
// line that ends the header block. Fields with an invalid name are skipped.
func WriteFields(w io.Writer, fields []Field) error {
	for _, f := range fields {
		name := SanitizeHeaderKey(f.Name)
		if name == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", name, SanitizeHeaderValue(f.Value)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// SanitizeHeaderKey ensures header name is a valid token; returns empty string if invalid.
func SanitizeHeaderKey(k string) string {
	if k == "" {
		return ""
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
			continue
		default:
			return ""
		}
	}
	return k
}

// SanitizeHeaderValue removes CR/LF and control chars except HTAB.
func SanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
