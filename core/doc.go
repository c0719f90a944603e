// Package core contains the fetch contracts shared by every layer: request
// and response metadata shapes, the native and callback fetch primitives,
// status policies, configuration and the go-errors envelopes that describe
// which stage of a fetch failed. Transports, the bridge and the typed client
// depend on this package; core depends on none of them.
package core
