package httpx

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func parse(t *testing.T, raw string) (*Request, error) {
	t.Helper()
	return ReadRequest(strings.NewReader(raw), ParseOptions{})
}

func TestReadRequest_GET(t *testing.T) {
	req, err := parse(t, "GET /index.html?a=1 HTTP/1.1\r\nHost: x\r\nUser-Agent: test\r\n\r\n")
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if req.Method != GET || req.Path() != "/index.html" {
		t.Fatalf("method=%v path=%q", req.Method, req.Path())
	}
	if p, ok := req.URL.Query.Get("a"); !ok || p.First() != "1" {
		t.Fatalf("query=%v", req.URL.Query.Keys())
	}
	if req.Header.Get("user-agent") != "test" {
		t.Fatalf("headers=%v", req.Header)
	}
	if req.Body != nil {
		t.Fatal("GET has a body")
	}
	if n, err := req.Read(make([]byte, 4)); n != 0 || err != io.EOF {
		t.Fatalf("Read on bodiless request = %d, %v", n, err)
	}
}

func TestReadRequest_OneByteAtATime(t *testing.T) {
	raw := "GET / HTTP/1.1\r\n\r\n"
	whole, err := parse(t, raw)
	if err != nil {
		t.Fatalf("whole: %v", err)
	}
	split, err := ReadRequest(iotest.OneByteReader(strings.NewReader(raw)), ParseOptions{})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if whole.Method != split.Method || whole.Path() != split.Path() || len(whole.Header) != len(split.Header) {
		t.Fatalf("whole=%+v split=%+v", whole, split)
	}
}

func TestReadRequest_BodyExactness(t *testing.T) {
	conn := strings.NewReader("POST /echo HTTP/1.1\r\nContent-Length: 5\r\n\r\nhelloEXTRA")
	req, err := ReadRequest(conn, ParseOptions{})
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	b, err := io.ReadAll(req)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("body=%q", b)
	}
	if n, err := req.Read(make([]byte, 8)); n != 0 || err != io.EOF {
		t.Fatalf("read past length = %d, %v", n, err)
	}
}

func TestReadRequest_BodyAcrossReads(t *testing.T) {
	raw := "PUT /f HTTP/1.1\r\ncontent-length: 11\r\n\r\nhello world"
	for chunk := 1; chunk < 64; chunk *= 2 {
		req, err := ReadRequest(iotest.HalfReader(strings.NewReader(raw)), ParseOptions{ReadChunkSize: chunk})
		if err != nil {
			t.Fatalf("chunk=%d: %v", chunk, err)
		}
		b, _ := io.ReadAll(req.Body)
		if string(b) != "hello world" {
			t.Fatalf("chunk=%d: body=%q", chunk, b)
		}
	}
}

func TestReadRequest_Errors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"unknown method", "FOO /x HTTP/1.1\r\n\r\n", ErrInvalidMethod},
		{"old protocol", "GET /x HTTP/1.0\r\n\r\n", ErrInvalidProtocol},
		{"two tokens", "GET /x\r\n\r\n", ErrInvalidRequest},
		{"four tokens", "GET /x y HTTP/1.1\r\n\r\n", ErrInvalidRequest},
		{"lowercase method", "get /x HTTP/1.1\r\n\r\n", ErrInvalidMethod},
		{"post without length", "POST /x HTTP/1.1\r\nHost: a\r\n\r\nbody", ErrInvalidRequest},
		{"patch bad length", "PATCH /x HTTP/1.1\r\nContent-Length: ten\r\n\r\n", ErrInvalidRequest},
		{"no boundary", "GET /x HTTP/1.1\r\nHost: a\r\n", ErrIncompleteHeaders},
		{"empty", "", ErrIncompleteHeaders},
		{"bad utf8", "GET /\xff HTTP/1.1\r\n\r\n", ErrInvalidEncoding},
	}
	for _, tc := range cases {
		_, err := parse(t, tc.raw)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v, want %v", tc.name, err, tc.want)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: %T is not *ParseError", tc.name, err)
		}
	}
}

func TestReadRequest_TooBig(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nX-Filler: " + strings.Repeat("a", 4096)
	_, err := ReadRequest(strings.NewReader(raw), ParseOptions{MaxHeaderBytes: 1024})
	if !errors.Is(err, ErrRequestTooBig) {
		t.Fatalf("err=%v, want ErrRequestTooBig", err)
	}
}

func TestReadRequest_ReadError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := ReadRequest(iotest.ErrReader(boom), ParseOptions{})
	if !errors.Is(err, ErrRead) || !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	var pe *ParseError
	errors.As(err, &pe)
	if pe.KindName() != "read_error" {
		t.Fatalf("kind=%q", pe.KindName())
	}
}

func TestReadRequest_HeaderOnRequestLineIgnored(t *testing.T) {
	req, err := parse(t, "GET /a: HTTP/1.1\r\nX: y\r\n\r\n")
	if err != nil {
		t.Fatalf("ReadRequest error: %v", err)
	}
	if len(req.Header) != 1 || req.Header.Get("x") != "y" {
		t.Fatalf("headers=%v", req.Header)
	}
}

func TestParseErrorMessage(t *testing.T) {
	pe := parseErr(ErrInvalidRequest, errors.New("missing content-length"))
	if pe.Error() != "httpx: invalid request: missing content-length" {
		t.Fatalf("Error()=%q", pe.Error())
	}
	if parseErr(ErrInvalidMethod, nil).Error() != "httpx: invalid method" {
		t.Fatal("bare kind message")
	}
}
