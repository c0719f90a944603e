// Package client is the typed fetch helper: it runs a request through a
// core.Fetcher, requires HTTP response metadata, optionally enforces a status
// policy and decodes the body into a caller supplied type.
//
//	c, err := client.New(core.DefaultConfig())
//	user, err := client.Get[User](ctx, c, "https://api.example.com/user",
//		client.WithStatus(core.StatusSuccess()))
package client
