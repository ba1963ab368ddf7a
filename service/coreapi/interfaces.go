package coreapi

import "context"

// Transport performs a JSON request and returns the decoded response object.
type Transport interface {
	Request(ctx context.Context, method, url string, body map[string]any) (map[string]any, error)
}
