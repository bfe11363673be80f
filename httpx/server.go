package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"dqx0.com/go/tinyhttp/internal/obs"
)

// Handler turns parsed requests, or parse failures, into responses.
// HandleRequest may block; it should consume or discard r's body if it
// does not need it.
type Handler interface {
	HandleRequest(r *Request) *Response
	HandleBadRequest(err *ParseError) *Response
}

// HandlerFunc adapts a function to Handler. Parse failures get
// BadRequestResponse.
type HandlerFunc func(*Request) *Response

func (f HandlerFunc) HandleRequest(r *Request) *Response { return f(r) }

func (f HandlerFunc) HandleBadRequest(err *ParseError) *Response { return BadRequestResponse(err) }

// BadRequestResponse answers a parse failure: 431 for an oversized
// header block, 400 otherwise.
func BadRequestResponse(err *ParseError) *Response {
	if errors.Is(err, ErrRequestTooBig) {
		return ErrorResponse(StatusRequestHeaderFieldsTooLarge, err)
	}
	return ErrorResponse(StatusBadRequest, err)
}

// ConnState is a stage in a connection's life.
type ConnState int

const (
	StateAccepted ConnState = iota
	StateParsing
	StateHandling
	StateWriting
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateParsing:
		return "parsing"
	case StateHandling:
		return "handling"
	case StateWriting:
		return "writing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Server accepts connections and serves exactly one request on each.
// The zero value of every field selects a default.
type Server struct {
	Addr           string
	Handler        Handler
	Logger         obs.Logger
	Meter          obs.Meter
	MaxHeaderBytes int
	ReadChunkSize  int
	// MaxConns bounds concurrently served connections. Zero means one
	// goroutine per accepted connection with no bound.
	MaxConns     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ConnState, if set, is called as each connection changes stage.
	ConnState func(net.Conn, ConnState)

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

const defaultAddr = "127.0.0.1:8080"

// lingerTimeout bounds how long a closing connection drains unread input
// so the peer sees FIN rather than RST.
const lingerTimeout = 500 * time.Millisecond

func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = defaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the accept loop on l. It returns ErrServerClosed after
// Shutdown or Close, and any accept failure otherwise.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	done := s.doneLocked()
	s.mu.Unlock()
	defer l.Close()

	lg := s.logger()
	lg.Log(obs.Info, "listening", "addr", l.Addr().String(), "max_conns", s.MaxConns)
	var sem chan struct{}
	if s.MaxConns > 0 {
		sem = make(chan struct{}, s.MaxConns)
	}
	for {
		if sem != nil {
			select {
			case sem <- struct{}{}:
			case <-done:
				return ErrServerClosed
			}
		}
		c, err := l.Accept()
		if err != nil {
			select {
			case <-done:
				return ErrServerClosed
			default:
			}
			lg.Log(obs.Error, "accept failed", "err", err)
			return err
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			c.Close()
			return ErrServerClosed
		}
		s.wg.Add(1)
		s.mu.Unlock()
		go func() {
			defer s.wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			s.serveConn(c)
		}()
	}
}

// Shutdown stops accepting and waits for in-flight connections or ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Close(); err != nil {
		return err
	}
	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the accept loop without waiting for connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.doneLocked())
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) doneLocked() chan struct{} {
	if s.done == nil {
		s.done = make(chan struct{})
	}
	return s.done
}

func (s *Server) serveConn(c net.Conn) {
	start := time.Now()
	id := genID()
	lg := s.logger().With("conn", id, "remote", c.RemoteAddr().String())
	m := s.meter()
	m.Counter("httpx_server_conns_total", 1)
	s.setState(c, StateAccepted)
	lg.Log(obs.Debug, "accepted")
	defer func() {
		lingerClose(c)
		s.setState(c, StateClosed)
		lg.Log(obs.Debug, "closed")
	}()

	if s.ReadTimeout > 0 {
		_ = c.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}
	s.setState(c, StateParsing)
	req, err := ReadRequest(c, ParseOptions{MaxHeaderBytes: s.MaxHeaderBytes, ReadChunkSize: s.ReadChunkSize})

	s.setState(c, StateHandling)
	h := s.handler()
	var resp *Response
	methodLabel := "invalid"
	bodyAllowed := true
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			pe = parseErr(ErrRead, err)
		}
		lg.Log(obs.Warn, "bad request", "err", pe)
		m.Counter("httpx_server_parse_errors_total", 1, obs.Label{Key: "kind", Value: pe.KindName()})
		resp = s.call(lg, func() *Response { return h.HandleBadRequest(pe) })
	} else {
		req.RemoteAddr = c.RemoteAddr().String()
		req.ctx = WithConnID(context.Background(), id)
		methodLabel = req.Method.String()
		bodyAllowed = req.Method != HEAD
		lg.Log(obs.Info, "request", "method", methodLabel, "path", req.URL.Path, "query", req.URL.Query.String())
		resp = s.call(lg, func() *Response { return h.HandleRequest(req) })
	}

	s.setState(c, StateWriting)
	if s.WriteTimeout > 0 {
		_ = c.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	}
	status := resp.StatusCode
	if status == 0 {
		status = StatusOK
	}
	if err := writeResponse(c, resp, bodyAllowed); err != nil {
		lg.Log(obs.Warn, "write failed", "status", int(status), "err", err)
		m.Counter("httpx_server_write_errors_total", 1)
	}
	elapsed := time.Since(start)
	lg.Log(obs.Info, "response", "status", int(status), "duration", elapsed)
	labels := []obs.Label{{Key: "method", Value: methodLabel}, {Key: "status", Value: strconv.Itoa(int(status))}}
	m.Counter("httpx_server_requests_total", 1, labels...)
	m.Histogram("httpx_server_request_duration_ms", float64(elapsed.Microseconds())/1000, labels...)
}

// call runs a handler entry point. A panic or a nil response becomes a 500.
func (s *Server) call(lg obs.Logger, fn func() *Response) (resp *Response) {
	defer func() {
		if p := recover(); p != nil {
			lg.Log(obs.Error, "handler panic", "panic", p, "stack", string(debug.Stack()))
			resp = ErrorResponse(StatusInternalServerError, nil)
		}
	}()
	resp = fn()
	if resp == nil {
		lg.Log(obs.Error, "handler returned no response")
		resp = ErrorResponse(StatusInternalServerError, nil)
	}
	return resp
}

// lingerClose half-closes c and drains what the peer still sends, so
// unread request bytes do not turn the close into a reset.
func lingerClose(c net.Conn) {
	if cw, ok := c.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err == nil {
			_ = c.SetReadDeadline(time.Now().Add(lingerTimeout))
			_, _ = io.CopyN(io.Discard, c, 256<<10)
		}
	}
	c.Close()
}

func (s *Server) setState(c net.Conn, st ConnState) {
	if s.ConnState != nil {
		s.ConnState(c, st)
	}
}

func (s *Server) handler() Handler {
	if s.Handler != nil {
		return s.Handler
	}
	return HandlerFunc(func(r *Request) *Response {
		return StringResponse(StatusNotFound, "not found")
	})
}

func (s *Server) logger() obs.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return obs.NopLogger{}
}

func (s *Server) meter() obs.Meter {
	if s.Meter != nil {
		return s.Meter
	}
	return obs.NopMeter{}
}
