package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"dqx0.com/go/tinyhttp/httpx"
)

type headerFlags []string

func (h *headerFlags) String() string     { return strings.Join(*h, ", ") }
func (h *headerFlags) Set(v string) error { *h = append(*h, v); return nil }

func main() {
	var headers headerFlags
	addr := flag.String("addr", "127.0.0.1:8080", "server address")
	method := flag.String("method", "GET", "request method")
	target := flag.String("path", "/", "request target, query included")
	body := flag.String("body", "", "request body")
	timeout := flag.Duration("timeout", 10*time.Second, "round trip timeout")
	flag.Var(&headers, "H", `request header "name: value" (repeatable)`)
	flag.Parse()

	m, err := httpx.ParseMethod(strings.ToUpper(*method))
	if err != nil {
		log.Fatal(err)
	}
	req := &httpx.Request{Method: m, URL: httpx.ParseURL(*target), Header: httpx.Header{}}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			log.Fatalf("bad header %q", h)
		}
		req.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	if *body != "" {
		req.Body = strings.NewReader(*body)
	}

	c := &httpx.Client{Timeout: *timeout}
	resp, err := c.Do(context.Background(), *addr, req)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Close()
	fmt.Printf("%d %s\n", resp.StatusCode, resp.StatusCode.Reason())
	for _, k := range resp.Header.Keys() {
		fmt.Printf("%s: %s\n", k, resp.Header[k])
	}
	fmt.Println()
	if resp.Body != nil {
		if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
			log.Fatal(err)
		}
	}
}
