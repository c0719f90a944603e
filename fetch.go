package fetch

import (
	"context"

	"github.com/goliatone/go-fetch/bridge"
	"github.com/goliatone/go-fetch/client"
	"github.com/goliatone/go-fetch/core"
	"github.com/goliatone/go-fetch/decode"
)

type Config = core.Config

type Client = client.Client

type Option = client.Option

type FetchOption = client.FetchOption

type Request = core.Request
type FetchResult = core.FetchResult
type ResponseMeta = core.ResponseMeta
type HTTPMetadata = core.HTTPMetadata
type Fetcher = core.Fetcher
type CallbackTransport = core.CallbackTransport
type CompletionHandler = core.CompletionHandler
type StatusPolicy = core.StatusPolicy
type ErrorKind = core.ErrorKind

type DecodeOptions = decode.Options

var (
	WithLogger               = client.WithLogger
	WithLoggerProvider       = client.WithLoggerProvider
	WithMetricsRecorder      = client.WithMetricsRecorder
	WithConfigProvider       = client.WithConfigProvider
	WithOptionsResolver      = client.WithOptionsResolver
	WithFetcher              = client.WithFetcher
	WithCallbackTransport    = client.WithCallbackTransport
	WithHTTPClient           = client.WithHTTPClient
	WithFileRoot             = client.WithFileRoot
	WithDefaultStatus        = client.WithDefaultStatus
	WithDefaultDecodeOptions = client.WithDefaultDecodeOptions
	WithStatus               = client.WithStatus
	WithAnyStatus            = client.WithAnyStatus
	WithDecodeOptions        = client.WithDecodeOptions
	StatusCode               = core.StatusCode
	StatusRange              = core.StatusRange
	StatusClosedRange        = core.StatusClosedRange
	StatusCodeSet            = core.StatusCodeSet
	StatusSuccess            = core.StatusSuccess
	KindOf                   = core.KindOf
	IsKind                   = core.IsKind
	StatusCodeOf             = core.StatusCodeOf
	NewRequest               = core.NewRequest
	DefaultDecodeOptions     = decode.DefaultOptions
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	return client.New(cfg, opts...)
}

// Get fetches url with c and decodes the body into T.
func Get[T any](ctx context.Context, c *Client, url string, opts ...FetchOption) (T, error) {
	return client.Get[T](ctx, c, url, opts...)
}

func Do[T any](ctx context.Context, c *Client, req Request, opts ...FetchOption) (T, error) {
	return client.Do[T](ctx, c, req, opts...)
}

// FetchBytes runs req over a callback style transport and waits for its
// completion.
func FetchBytes(ctx context.Context, transport CallbackTransport, req Request) (FetchResult, error) {
	return bridge.FetchBytes(ctx, transport, req)
}

func Decode[T any](data []byte, opts DecodeOptions) (T, error) {
	return decode.Bytes[T](data, opts)
}

func DecodeString[T any](text string, opts DecodeOptions) (T, error) {
	return decode.String[T](text, opts)
}
