package query

import (
	"context"
	"fmt"
	"strings"

	gocmd "github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-fetch/core"
)

// ValidateMessageContract enforces Type() plus optional Validate().
func ValidateMessageContract(msg any) error {
	if err := gocmd.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(gocmd.Message)
	if !ok {
		return fmt.Errorf("query: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("query: message type is required")
	}
	return nil
}

// SubscribeFetchBytes registers q with the go-command dispatcher so
// QueryFetchBytes can reach it.
func SubscribeFetchBytes(q *FetchBytesQuery, runnerOpts ...runner.Option) commanddispatcher.Subscription {
	var querier gocmd.Querier[FetchBytesMessage, core.FetchResult] = q
	return commanddispatcher.SubscribeQuery(querier, runnerOpts...)
}

// SubscribeFetchJSON registers q with the dispatcher. Only one result type
// can be subscribed for FetchJSONMessage at a time.
func SubscribeFetchJSON[T any](q *FetchJSONQuery[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	var querier gocmd.Querier[FetchJSONMessage, T] = q
	return commanddispatcher.SubscribeQuery(querier, runnerOpts...)
}

func QueryFetchBytes(ctx context.Context, msg FetchBytesMessage) (core.FetchResult, error) {
	return commanddispatcher.Query[FetchBytesMessage, core.FetchResult](ctx, msg)
}

func QueryFetchJSON[T any](ctx context.Context, msg FetchJSONMessage) (T, error) {
	return commanddispatcher.Query[FetchJSONMessage, T](ctx, msg)
}
