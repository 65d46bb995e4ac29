package perfecthr

import (
	"errors"
	"fmt"
)

// Kind tells apart the ways a Perfect HR fetch can fail.
type Kind int

const (
	// KindValidation means the request was rejected client-side; nothing was sent.
	KindValidation Kind = iota + 1
	// KindNetwork means the host could not be reached or the exchange broke off.
	KindNetwork
	// KindHTTPStatus means the API answered with status >= 400.
	KindHTTPStatus
	// KindShapeMismatch means a successful response did not carry {"employees": [...]}.
	KindShapeMismatch
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindShapeMismatch:
		return "shape_mismatch"
	default:
		return "unknown"
	}
}

// Error is returned by every failing Client operation.
type Error struct {
	Kind Kind
	// Msg is the human readable description without the package prefix.
	Msg string
	// Err is the underlying cause, if any (for KindHTTPStatus an *httpx.HTTPError).
	Err error
}

func (e *Error) Error() string {
	return "perfecthr: " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is (or wraps) a Perfect HR error of kind k.
func IsKind(err error, k Kind) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == k
}

func validationError(value string, cause error) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf("invalid ISO-8601 timestamp: %s", value), Err: cause}
}

func networkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Msg: fmt.Sprintf("unable to reach Perfect HR: %v", cause), Err: cause}
}

func statusError(code int, body string, cause error) *Error {
	return &Error{Kind: KindHTTPStatus, Msg: fmt.Sprintf("Perfect HR returned %d: %s", code, body), Err: cause}
}

func shapeError(msg string, cause error) *Error {
	return &Error{Kind: KindShapeMismatch, Msg: "unexpected payload shape: " + msg, Err: cause}
}
