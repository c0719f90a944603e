package bridge

import (
	"context"
	"reflect"
	"strings"

	"github.com/goliatone/go-fetch/core"
)

const KindCallback = "callback"

// StartFunc starts a callback style operation that reports to done exactly
// once. The returned cancel func aborts the operation; it may be nil.
type StartFunc func(done core.CompletionHandler) (cancel func())

// Await starts the operation and blocks until its completion fires or ctx
// ends. On cancellation the operation is aborted, the late completion is
// dropped and ctx.Err() is returned as a transport failure.
func Await(ctx context.Context, start StartFunc, metadata map[string]any) (core.FetchResult, error) {
	if start == nil {
		return core.FetchResult{}, core.InvalidRequest("bridge: start func is required", nil, metadata)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return core.FetchResult{}, core.TransportFailure(err, metadata)
	}

	outcome := NewOutcome[core.FetchResult]()
	cancel := start(Completion(outcome, metadata))
	if cancel == nil {
		cancel = func() {}
	}
	defer cancel()

	select {
	case <-outcome.Done():
		return outcome.Result()
	case <-ctx.Done():
		return core.FetchResult{}, core.TransportFailure(ctx.Err(), metadata)
	}
}

// Completion returns a CompletionHandler that settles outcome using the fetch
// resolution order: error, then missing metadata, then missing body.
func Completion(outcome *Outcome[core.FetchResult], metadata map[string]any) core.CompletionHandler {
	return func(body []byte, meta core.ResponseMeta, err error) {
		switch {
		case err != nil:
			outcome.Reject(core.TransportFailure(err, metadata))
		case isNilMeta(meta):
			outcome.Reject(core.MissingMetadata())
		case body == nil:
			outcome.Reject(core.MissingBody())
		default:
			outcome.Resolve(core.FetchResult{Body: body, Meta: meta})
		}
	}
}

// FetchBytes runs req through a callback transport and blocks until it
// completes.
func FetchBytes(ctx context.Context, transport core.CallbackTransport, req core.Request) (core.FetchResult, error) {
	metadata := requestMetadata(req)
	if transport == nil {
		return core.FetchResult{}, core.InvalidRequest("bridge: callback transport is required", nil, metadata)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return Await(ctx, func(done core.CompletionHandler) func() {
		return transport.Start(ctx, req, done)
	}, metadata)
}

// FetchURL is FetchBytes for a GET of rawURL.
func FetchURL(ctx context.Context, transport core.CallbackTransport, rawURL string) (core.FetchResult, error) {
	return FetchBytes(ctx, transport, core.NewRequest(rawURL))
}

// Adapter exposes a callback transport as a core.Fetcher.
type Adapter struct {
	kind      string
	Transport core.CallbackTransport
}

// NewAdapter wraps transport under kind, which defaults to KindCallback.
func NewAdapter(kind string, transport core.CallbackTransport) *Adapter {
	kind = strings.TrimSpace(strings.ToLower(kind))
	if kind == "" {
		kind = KindCallback
	}
	return &Adapter{kind: kind, Transport: transport}
}

func (a *Adapter) Kind() string {
	if a == nil {
		return ""
	}
	return a.kind
}

func (a *Adapter) Fetch(ctx context.Context, req core.Request) (core.FetchResult, error) {
	if a == nil {
		return core.FetchResult{}, core.InvalidRequest("bridge: adapter is nil", nil, nil)
	}
	return FetchBytes(ctx, a.Transport, req)
}

func isNilMeta(meta core.ResponseMeta) bool {
	if meta == nil {
		return true
	}
	value := reflect.ValueOf(meta)
	switch value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}

func requestMetadata(req core.Request) map[string]any {
	metadata := map[string]any{"adapter": KindCallback}
	if url := strings.TrimSpace(req.URL); url != "" {
		metadata["url"] = core.RedactURL(url)
	}
	if method := strings.TrimSpace(req.Method); method != "" {
		metadata["method"] = strings.ToUpper(method)
	}
	return metadata
}

var _ core.TransportAdapter = (*Adapter)(nil)
