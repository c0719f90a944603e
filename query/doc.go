// Package query exposes fetches as go-command queries so they can be
// dispatched alongside other application messages.
package query
