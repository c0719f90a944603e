package transport

import (
	"context"
	"strings"

	"github.com/goliatone/go-fetch/core"
)

// UnsupportedAdapter answers every fetch with a bad input transport failure.
// The registry uses it for schemes nothing is registered for.
type UnsupportedAdapter struct {
	kind   string
	reason string
}

func NewUnsupportedAdapter(kind string, reason string) *UnsupportedAdapter {
	return &UnsupportedAdapter{
		kind:   strings.TrimSpace(strings.ToLower(kind)),
		reason: strings.TrimSpace(reason),
	}
}

func (a *UnsupportedAdapter) Kind() string {
	if a == nil {
		return ""
	}
	return a.kind
}

func (a *UnsupportedAdapter) Fetch(_ context.Context, req core.Request) (core.FetchResult, error) {
	if a == nil {
		return core.FetchResult{}, core.InternalError("transport: adapter is nil")
	}
	message := "transport: " + a.kind + " adapter is not configured"
	if a.reason != "" {
		message += ": " + a.reason
	}
	return core.FetchResult{}, invalidRequest(a.kind, req, message, nil, nil)
}

var _ core.TransportAdapter = (*UnsupportedAdapter)(nil)
