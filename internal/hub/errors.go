package hub

import (
	"errors"
	"fmt"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("non-2xx response: %s", e.Status)
	}
	return fmt.Sprintf("non-2xx response: %s: %s", e.Status, e.Body)
}

// StatusCode lets HTTP layers reuse the upstream status.
func (e *StatusError) StatusCode() int { return e.Code }

// IsUnauthorized reports whether err is a 401/403 from the Hub.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Code == 401 || se.Code == 403)
}
