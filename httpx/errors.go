package httpx

import "errors"

// Parse failure kinds. A *ParseError matches its kind with errors.Is.
var (
	ErrInvalidRequest    = errors.New("httpx: invalid request")
	ErrInvalidMethod     = errors.New("httpx: invalid method")
	ErrInvalidProtocol   = errors.New("httpx: invalid protocol")
	ErrInvalidEncoding   = errors.New("httpx: invalid encoding")
	ErrIncompleteHeaders = errors.New("httpx: incomplete headers")
	ErrRequestTooBig     = errors.New("httpx: request too big")
	ErrRead              = errors.New("httpx: read error")
)

var ErrServerClosed = errors.New("httpx: server closed")

// ParseError is the typed failure returned by ReadRequest and handed to
// Handler.HandleBadRequest.
type ParseError struct {
	Kind error
	Err  error // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// KindName is a short label for the failure kind, suitable for metrics.
func (e *ParseError) KindName() string {
	switch e.Kind {
	case ErrInvalidRequest:
		return "invalid_request"
	case ErrInvalidMethod:
		return "invalid_method"
	case ErrInvalidProtocol:
		return "invalid_protocol"
	case ErrInvalidEncoding:
		return "invalid_encoding"
	case ErrIncompleteHeaders:
		return "incomplete_headers"
	case ErrRequestTooBig:
		return "request_too_big"
	case ErrRead:
		return "read_error"
	default:
		return "unknown"
	}
}

func parseErr(kind, cause error) *ParseError {
	return &ParseError{Kind: kind, Err: cause}
}

var ErrShortBody = errors.New("httpx: response body shorter than content-length")
