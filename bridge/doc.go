// Package bridge turns callback style fetch primitives into blocking,
// context-aware calls.
//
// A callback transport reports (body, metadata, error) once per request. The
// bridge parks the caller on a one-shot Outcome until that report arrives and
// resolves it in a fixed order: a reported error always wins, then missing
// metadata, then a missing body. Transports that already block natively
// implement core.Fetcher directly and do not need this package.
package bridge
