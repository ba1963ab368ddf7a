package coreapi

import "fmt"

// TransportError is returned for connectivity failures, non 2xx responses and undecodable bodies.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("%s %s: unexpected status %s, body: %s", e.Method, e.URL, e.Status, e.Body)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %v (status: %s, body: %s)", e.Method, e.URL, e.Err, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HasStatus reports whether the remote end answered at all.
func (e *TransportError) HasStatus() bool {
	return e.StatusCode != 0
}
