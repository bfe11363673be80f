package httpx

import "strconv"

// StatusCode is a numeric HTTP status.
type StatusCode int

const (
	StatusContinue                      StatusCode = 100
	StatusSwitchingProtocols            StatusCode = 101
	StatusProcessing                    StatusCode = 102
	StatusOK                            StatusCode = 200
	StatusCreated                       StatusCode = 201
	StatusAccepted                      StatusCode = 202
	StatusNonAuthoritativeInformation   StatusCode = 203
	StatusNoContent                     StatusCode = 204
	StatusResetContent                  StatusCode = 205
	StatusPartialContent                StatusCode = 206
	StatusMultiStatus                   StatusCode = 207
	StatusIMUsed                        StatusCode = 226
	StatusMultipleChoices               StatusCode = 300
	StatusMovedPermanently              StatusCode = 301
	StatusFound                         StatusCode = 302
	StatusSeeOther                      StatusCode = 303
	StatusNotModified                   StatusCode = 304
	StatusUseProxy                      StatusCode = 305
	StatusTemporaryRedirect             StatusCode = 307
	StatusPermanentRedirect             StatusCode = 308
	StatusBadRequest                    StatusCode = 400
	StatusUnauthorized                  StatusCode = 401
	StatusPaymentRequired               StatusCode = 402
	StatusForbidden                     StatusCode = 403
	StatusNotFound                      StatusCode = 404
	StatusMethodNotAllowed              StatusCode = 405
	StatusNotAcceptable                 StatusCode = 406
	StatusProxyAuthenticationRequired   StatusCode = 407
	StatusRequestTimeout                StatusCode = 408
	StatusConflict                      StatusCode = 409
	StatusGone                          StatusCode = 410
	StatusLengthRequired                StatusCode = 411
	StatusPreconditionFailed            StatusCode = 412
	StatusPayloadTooLarge               StatusCode = 413
	StatusURITooLong                    StatusCode = 414
	StatusUnsupportedMediaType          StatusCode = 415
	StatusRangeNotSatisfiable           StatusCode = 416
	StatusExpectationFailed             StatusCode = 417
	StatusTeapot                        StatusCode = 418
	StatusUnprocessableEntity           StatusCode = 422
	StatusLocked                        StatusCode = 423
	StatusFailedDependency              StatusCode = 424
	StatusUpgradeRequired               StatusCode = 426
	StatusPreconditionRequired          StatusCode = 428
	StatusTooManyRequests               StatusCode = 429
	StatusRequestHeaderFieldsTooLarge   StatusCode = 431
	StatusUnavailableForLegalReasons    StatusCode = 451
	StatusInternalServerError           StatusCode = 500
	StatusNotImplemented                StatusCode = 501
	StatusBadGateway                    StatusCode = 502
	StatusServiceUnavailable            StatusCode = 503
	StatusGatewayTimeout                StatusCode = 504
	StatusHTTPVersionNotSupported       StatusCode = 505
	StatusVariantAlsoNegotiates         StatusCode = 506
	StatusInsufficientStorage           StatusCode = 507
	StatusNetworkAuthenticationRequired StatusCode = 511
)

var statusReasons = map[StatusCode]string{
	StatusContinue:                      "Continue",
	StatusSwitchingProtocols:            "Switching Protocols",
	StatusProcessing:                    "Processing",
	StatusOK:                            "OK",
	StatusCreated:                       "Created",
	StatusAccepted:                      "Accepted",
	StatusNonAuthoritativeInformation:   "Non-Authoritative Information",
	StatusNoContent:                     "No Content",
	StatusResetContent:                  "Reset Content",
	StatusPartialContent:                "Partial Content",
	StatusMultiStatus:                   "Multi-Status",
	StatusIMUsed:                        "IM Used",
	StatusMultipleChoices:               "Multiple Choices",
	StatusMovedPermanently:              "Moved Permanently",
	StatusFound:                         "Found",
	StatusSeeOther:                      "See Other",
	StatusNotModified:                   "Not Modified",
	StatusUseProxy:                      "Use Proxy",
	StatusTemporaryRedirect:             "Temporary Redirect",
	StatusPermanentRedirect:             "Permanent Redirect",
	StatusBadRequest:                    "Bad Request",
	StatusUnauthorized:                  "Unauthorized",
	StatusPaymentRequired:               "Payment Required",
	StatusForbidden:                     "Forbidden",
	StatusNotFound:                      "Not Found",
	StatusMethodNotAllowed:              "Method Not Allowed",
	StatusNotAcceptable:                 "Not Acceptable",
	StatusProxyAuthenticationRequired:   "Proxy Authentication Required",
	StatusRequestTimeout:                "Request Timeout",
	StatusConflict:                      "Conflict",
	StatusGone:                          "Gone",
	StatusLengthRequired:                "Length Required",
	StatusPreconditionFailed:            "Precondition Failed",
	StatusPayloadTooLarge:               "Payload Too Large",
	StatusURITooLong:                    "URI Too Long",
	StatusUnsupportedMediaType:          "Unsupported Media Type",
	StatusRangeNotSatisfiable:           "Range Not Satisfiable",
	StatusExpectationFailed:             "Expectation Failed",
	StatusTeapot:                        "I'm a teapot",
	StatusUnprocessableEntity:           "Unprocessable Entity",
	StatusLocked:                        "Locked",
	StatusFailedDependency:              "Failed Dependency",
	StatusUpgradeRequired:               "Upgrade Required",
	StatusPreconditionRequired:          "Precondition Required",
	StatusTooManyRequests:               "Too Many Requests",
	StatusRequestHeaderFieldsTooLarge:   "Request Header Fields Too Large",
	StatusUnavailableForLegalReasons:    "Unavailable For Legal Reasons",
	StatusInternalServerError:           "Internal Server Error",
	StatusNotImplemented:                "Not Implemented",
	StatusBadGateway:                    "Bad Gateway",
	StatusServiceUnavailable:            "Service Unavailable",
	StatusGatewayTimeout:                "Gateway Timeout",
	StatusHTTPVersionNotSupported:       "HTTP Version Not Supported",
	StatusVariantAlsoNegotiates:         "Variant Also Negotiates",
	StatusInsufficientStorage:           "Insufficient Storage",
	StatusNetworkAuthenticationRequired: "Network Authentication Required",
}

// Reason returns the reason phrase, or "" for an unknown code.
func (s StatusCode) Reason() string { return statusReasons[s] }

// String is the display form: the decimal code.
func (s StatusCode) String() string { return strconv.Itoa(int(s)) }

// Known reports whether s has a reason phrase.
func (s StatusCode) Known() bool {
	_, ok := statusReasons[s]
	return ok
}

// AllowsBody reports whether a response with this status may carry a body.
func (s StatusCode) AllowsBody() bool {
	return !(s >= 100 && s < 200) && s != StatusNoContent && s != StatusNotModified
}
