package geoip

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidIPError reports that the upstream service rejected an address as
// malformed. Handlers translate it into an HTTP 400 carrying the message
// below; every other lookup failure counts as an upstream failure.
type InvalidIPError struct {
	IP string
}

// Error implements the error interface. The message is synthesized here
// rather than echoed from the upstream response body.
func (e *InvalidIPError) Error() string {
	return fmt.Sprintf("%s: incorrect IP format", e.IP)
}

// IsInvalidIP reports whether err has an InvalidIPError anywhere in its chain.
func IsInvalidIP(err error) bool {
	var invalidErr *InvalidIPError
	return errors.As(err, &invalidErr)
}
