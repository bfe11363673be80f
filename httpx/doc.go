// Package httpx is a small HTTP/1.1 server built directly on byte
// streams. Each accepted connection carries exactly one request: the
// parser reads the header block, hands the handler a Request whose body
// is bounded to content-length, and the writer frames the Response with
// an explicit length or chunked coding before the connection closes.
//
// Highlights
//   - Parser: incremental CRLFCRLF boundary discovery across arbitrary
//     read splits, header size ceiling, typed ParseError kinds.
//   - Writer: content-length framing when set, real chunked coding
//     otherwise, header sanitization, "connection: close".
//   - Server: one goroutine per connection, optional MaxConns gate,
//     per-connection structured logging and metrics hooks.
//   - Client: a wire-level request/response round trip for probes and tests.
//
// Quick start (server):
//
//	s := &httpx.Server{Addr: ":8080"}
//	s.Handler = httpx.HandlerFunc(func(r *httpx.Request) *httpx.Response {
//	    return httpx.StringResponse(httpx.StatusOK, "hello")
//	})
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
package httpx
