package httpx

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestClient_TargetSentAsGiven(t *testing.T) {
	_, addr, stop := startServer(t, echoHandler(), nil)
	defer stop()

	c := &Client{Timeout: 5 * time.Second}
	for _, target := range []string{"/x?flag", "/x?b=1&a=2&b=3", "/x?a=1&&b=2"} {
		res, err := c.Do(context.Background(), addr, &Request{Method: GET, URL: ParseURL(target)})
		if err != nil {
			t.Fatalf("%s: client do: %v", target, err)
		}
		b, _ := io.ReadAll(res.Body)
		res.Close()
		if string(b) != "GET "+target {
			t.Errorf("%s: server saw %q", target, b)
		}
	}
}

// readHeadLines accepts one connection on ln, returns its request head
// lines and answers 204.
func readHeadLines(t *testing.T, ln net.Listener) <-chan []string {
	out := make(chan []string, 1)
	go func() {
		defer close(out)
		c, err := ln.Accept()
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer c.Close()
		_ = c.SetDeadline(time.Now().Add(5 * time.Second))
		br := bufio.NewReader(c)
		var lines []string
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				t.Errorf("read head: %v", err)
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				break
			}
			lines = append(lines, line)
		}
		_, _ = io.WriteString(c, "HTTP/1.1 204 No Content\r\n\r\n")
		out <- lines
	}()
	return out
}

func TestClient_LowersHeaderNames(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	head := readHeadLines(t, ln)

	c := &Client{Timeout: 5 * time.Second}
	req := &Request{Method: GET, URL: ParseURL("/"), Header: Header{"Host": "example.test", "X-Mixed": "v"}}
	res, err := c.Do(context.Background(), ln.Addr().String(), req)
	if err != nil {
		t.Fatalf("client do: %v", err)
	}
	if res.StatusCode != StatusNoContent || res.Body != nil {
		t.Fatalf("status=%d body=%v", res.StatusCode, res.Body)
	}

	lines := <-head
	if len(lines) == 0 {
		t.Fatal("no request head captured")
	}
	hosts := 0
	for _, l := range lines[1:] {
		name, _, _ := strings.Cut(l, ":")
		if name != strings.ToLower(name) {
			t.Errorf("field name not lower-cased: %q", l)
		}
		if name == "host" {
			hosts++
			if l != "host: example.test" {
				t.Errorf("host line %q", l)
			}
		}
	}
	if hosts != 1 {
		t.Fatalf("host fields=%d in %q", hosts, lines)
	}
}

func TestClient_RejectsBadRequestLength(t *testing.T) {
	_, addr, stop := startServer(t, echoHandler(), nil)
	defer stop()

	c := &Client{Timeout: 5 * time.Second}
	post := func(cl, body string) error {
		req := &Request{
			Method: POST,
			URL:    ParseURL("/"),
			Header: Header{HeaderContentLength: cl},
			Body:   strings.NewReader(body),
		}
		res, err := c.Do(context.Background(), addr, req)
		if err == nil {
			res.Close()
		}
		return err
	}

	if err := post("18446744073709551615", "abc"); err == nil {
		t.Fatal("length above MaxInt64 accepted")
	}
	if err := post("10", "abc"); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("short body err=%v", err)
	}
	if err := post("3", "abcdef"); err != nil {
		t.Fatalf("exact length: %v", err)
	}
}
