package httpx

import "fmt"

// Method is one of the request methods the server understands.
type Method int

const (
	GET Method = iota + 1
	POST
	PUT
	HEAD
	DELETE
	OPTIONS
	CONNECT
	TRACE
	PATCH
)

var methodNames = [...]string{
	GET:     "GET",
	POST:    "POST",
	PUT:     "PUT",
	HEAD:    "HEAD",
	DELETE:  "DELETE",
	OPTIONS: "OPTIONS",
	CONNECT: "CONNECT",
	TRACE:   "TRACE",
	PATCH:   "PATCH",
}

func (m Method) String() string {
	if m > 0 && int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// HasBody reports whether requests with this method carry a
// content-length framed body.
func (m Method) HasBody() bool {
	return m == POST || m == PUT || m == PATCH
}

// ParseMethod matches an uppercase method token exactly.
func ParseMethod(s string) (Method, error) {
	for m := GET; m <= PATCH; m++ {
		if methodNames[m] == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidMethod, s)
}
