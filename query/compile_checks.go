package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-fetch/core"
)

var (
	_ gocmd.Querier[FetchBytesMessage, core.FetchResult] = (*FetchBytesQuery)(nil)
	_ gocmd.Querier[FetchJSONMessage, map[string]any]    = (*FetchJSONQuery[map[string]any])(nil)
)
