package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-fetch/core"
)

const KindCallback = "callback"

// CallbackAdapter is a callback style HTTP primitive: Start returns at once
// and the completion handler fires from a worker goroutine when the exchange
// ends. It stands in for platform stacks that only offer completion
// callbacks; wrap it with bridge.NewAdapter to get a blocking core.Fetcher.
type CallbackAdapter struct {
	Client               HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
	Timeout              time.Duration
}

func NewCallbackAdapter(client HTTPDoer) *CallbackAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultRESTClientTimeout}
	}
	return &CallbackAdapter{
		Client:               client,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
	}
}

func (*CallbackAdapter) Kind() string {
	return KindCallback
}

// Start begins req and reports through done exactly once. Calling the
// returned cancel func aborts an in-flight exchange; done still fires once,
// with the cancellation error.
func (a *CallbackAdapter) Start(ctx context.Context, req core.Request, done core.CompletionHandler) func() {
	if done == nil {
		return func() {}
	}
	if a == nil || a.Client == nil {
		go done(nil, nil, core.InternalError("transport: callback adapter requires an http client"))
		return func() {}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	requestCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		result, err := executeHTTP(requestCtx, KindCallback, a.Client, a.DefaultHeaders, a.Timeout, a.MaxResponseBodyBytes, req)
		if err != nil {
			done(nil, nil, err)
			return
		}
		done(result.Body, result.Meta, nil)
	}()
	return cancel
}

var _ core.CallbackTransport = (*CallbackAdapter)(nil)
