// Package recovery runs data-store operations with bounded retries for
// transient network failures and a circuit breaker in front of the store.
package recovery

import (
	"errors"
	"strings"
)

// transientMarkers are lower-case fragments of error messages produced by
// connectivity problems between the API and the data store.
var transientMarkers = []string{
	"connection refused",
	"econnrefused",
	"enotfound",
	"no such host",
	"getaddrinfo",
	"timeout",
	"timed out",
	"deadline exceeded",
	"fetch failed",
	"other side closed",
	"connection reset",
	"broken pipe",
	"server selection error",
	"circuit breaker",
}

// transient is implemented by errors that know their own retry class.
type transient interface {
	Transient() bool
}

// IsTransient reports whether err looks like a network-layer failure that
// may succeed on retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var t transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
