package fetch

import (
	"fmt"

	"github.com/goliatone/go-fetch/query"
)

type Queries struct {
	FetchBytes *query.FetchBytesQuery
}

// Facade bundles the go-command queries backed by one Client.
type Facade struct {
	client  *Client
	queries Queries
}

func NewFacade(c *Client) (*Facade, error) {
	if c == nil {
		return nil, fmt.Errorf("fetch: client is required")
	}
	return &Facade{
		client: c,
		queries: Queries{
			FetchBytes: query.NewFetchBytesQuery(c),
		},
	}, nil
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Client() *Client {
	if f == nil {
		return nil
	}
	return f.client
}

// JSONQuery returns a typed query backed by the facade client.
func JSONQuery[T any](f *Facade) *query.FetchJSONQuery[T] {
	if f == nil || f.client == nil {
		return query.NewFetchJSONQuery[T](nil)
	}
	return query.NewFetchJSONQuery[T](f.client)
}
