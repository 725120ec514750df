package domain

import (
	"errors"
	"net"
	"net/http"
	"net/url"
)

// Collaborator failures are wrapped around these sentinels so callers can
// classify them with errors.Is.
var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrInvalidInput       = errors.New("invalid input or configuration")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// StatusSentinel maps an HTTP status returned by a backend to the sentinel a
// caller should see: throttling and server faults mean the backend is
// unavailable, any other rejection means the request or configuration is bad.
func StatusSentinel(code int) error {
	if code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
		return ErrBackendUnavailable
	}
	return ErrInvalidInput
}

// IsTransport reports whether err came from the network layer rather than
// from a response the backend actually sent.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
