package query

import (
	"context"

	"github.com/goliatone/go-fetch/client"
	"github.com/goliatone/go-fetch/core"
)

type FetchBytesQuery struct {
	fetcher core.Fetcher
}

// NewFetchBytesQuery returns a query backed by fetcher. A *client.Client is
// a core.Fetcher and adds its logging and metrics.
func NewFetchBytesQuery(fetcher core.Fetcher) *FetchBytesQuery {
	return &FetchBytesQuery{fetcher: fetcher}
}

func (q *FetchBytesQuery) Query(ctx context.Context, msg FetchBytesMessage) (core.FetchResult, error) {
	if q == nil || q.fetcher == nil {
		return core.FetchResult{}, queryDependencyError("query: fetcher is required")
	}
	if err := msg.Validate(); err != nil {
		return core.FetchResult{}, err
	}
	return q.fetcher.Fetch(ctx, msg.Request)
}

type FetchJSONQuery[T any] struct {
	fetcher core.Fetcher
}

func NewFetchJSONQuery[T any](fetcher core.Fetcher) *FetchJSONQuery[T] {
	return &FetchJSONQuery[T]{fetcher: fetcher}
}

func (q *FetchJSONQuery[T]) Query(ctx context.Context, msg FetchJSONMessage) (T, error) {
	var zero T
	if q == nil || q.fetcher == nil {
		return zero, queryDependencyError("query: fetcher is required")
	}
	if err := msg.Validate(); err != nil {
		return zero, err
	}
	return client.Fetch[T](ctx, q.fetcher, msg.Request, msg.Status, msg.Decode)
}
