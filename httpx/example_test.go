package httpx_test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"dqx0.com/go/tinyhttp/httpx"
)

// ExampleHeader shows case-insensitive, last-write-wins header storage.
func ExampleHeader() {
	h := httpx.Header{}
	h.Add("Content-Type", "a")
	h.Add("content-type", "b")
	fmt.Println(h.Get("content-type"))
	fmt.Println(len(h))
	h.SetContentLength(5)
	n, ok := h.ContentLength()
	fmt.Println(n, ok)
	// Output:
	// b
	// 1
	// 5 true
}

func ExampleParseQuery() {
	q := httpx.ParseQuery("a=1&a=2&b=3&flag")
	a, _ := q.Get("a")
	vs, _ := a.Multiple()
	b, _ := q.Get("b")
	v, _ := b.Single()
	fmt.Println(vs, v)
	fmt.Println(q.String())
	// Output:
	// [1 2] 3
	// a=1&a=2&b=3&flag
}

func ExampleReadRequest() {
	raw := "POST /upload?tag=x HTTP/1.1\r\nContent-Length: 5\r\n\r\nhelloEXTRA"
	req, err := httpx.ReadRequest(strings.NewReader(raw), httpx.ParseOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	body, _ := io.ReadAll(req)
	fmt.Println(req.Method, req.URL.Path, string(body))
	// Output:
	// POST /upload hello
}

func ExampleWriteResponse() {
	var buf bytes.Buffer
	httpx.WriteResponse(&buf, httpx.StringResponse(httpx.StatusOK, "hi"))
	os.Stdout.WriteString(strings.ReplaceAll(buf.String(), "\r\n", "|\n"))
	// Output:
	// HTTP/1.1 200 OK|
	// connection: close|
	// content-length: 2|
	// content-type: text/plain; charset=utf-8|
	// |
	// hi
}

// Example_handler shows a Handler that answers parse failures itself.
func Example_handler() {
	s := &httpx.Server{Addr: "127.0.0.1:8080", Handler: site{}}
	_ = s // s.ListenAndServe()
}

type site struct{}

func (site) HandleRequest(r *httpx.Request) *httpx.Response {
	return httpx.StringResponse(httpx.StatusOK, "you asked for "+r.Path())
}

func (site) HandleBadRequest(err *httpx.ParseError) *httpx.Response {
	return httpx.ErrorResponse(httpx.StatusBadRequest, err)
}
