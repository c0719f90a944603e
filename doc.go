// Package fetch fetches a URL and hands back either the raw bytes with their
// response metadata or a value decoded from a JSON body.
//
// Callback style transports are bridged into a single blocking call that
// honors context cancellation:
//
//	result, err := fetch.FetchBytes(ctx, transport, fetch.Request{URL: "https://example.com/data"})
//
// Typed fetches go through a Client, which owns configuration, logging and
// metrics:
//
//	c, err := fetch.NewClient(fetch.DefaultConfig())
//	person, err := fetch.Get[Person](ctx, c, "https://example.com/person/1",
//		fetch.WithStatus(fetch.StatusSuccess()))
//
// Status codes are never checked unless a StatusPolicy is supplied, and a
// non-success status is not a transport error.
package fetch
