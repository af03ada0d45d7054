// Package upstream carries third-party HTTP responses to the handlers that relay them.
package upstream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodySize caps every upstream body read into memory.
const MaxBodySize = 8 << 20

// ErrTooLarge is returned when a body exceeds its read limit.
var ErrTooLarge = errors.New("upstream body exceeds size limit")

// Error is an upstream answer that failed, kept verbatim so a proxy can forward it.
type Error struct {
	StatusCode  int
	ContentType string
	Body        []byte

	cause error
}

// NewError records status, content type and body of a failed upstream answer.
// cause is what errors.Is sees through the returned error.
func NewError(resp *http.Response, body []byte, cause error) *Error {
	return &Error{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		cause:       cause,
	}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("upstream responded %d", e.StatusCode)
	}
	return fmt.Sprintf("%v: upstream responded %d", e.cause, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ReadBody reads at most limit bytes of r and fails with ErrTooLarge past that.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return body, nil
}
