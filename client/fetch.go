package client

import (
	"context"
	"reflect"

	"github.com/goliatone/go-fetch/core"
	"github.com/goliatone/go-fetch/decode"
)

type fetchSettings struct {
	policy    core.StatusPolicy
	policySet bool
	decode    decode.Options
	decodeSet bool
}

// FetchOption tunes a single Do or Get call.
type FetchOption func(*fetchSettings)

// WithStatus rejects responses whose status code policy does not accept.
func WithStatus(policy core.StatusPolicy) FetchOption {
	return func(s *fetchSettings) {
		s.policy = policy
		s.policySet = true
	}
}

// WithAnyStatus skips the status check, overriding a client default.
func WithAnyStatus() FetchOption {
	return WithStatus(nil)
}

func WithDecodeOptions(opts decode.Options) FetchOption {
	return func(s *fetchSettings) {
		s.decode = opts
		s.decodeSet = true
	}
}

// Get fetches url with GET and decodes the body into T.
func Get[T any](ctx context.Context, c *Client, url string, opts ...FetchOption) (T, error) {
	return Do[T](ctx, c, core.NewRequest(url), opts...)
}

// Do runs req through the client and decodes the body into T. Status is
// checked only when a policy is set, either per call or as the client
// default.
func Do[T any](ctx context.Context, c *Client, req core.Request, opts ...FetchOption) (T, error) {
	var zero T
	if c == nil || c.fetcher == nil {
		return zero, core.InternalError("client: fetcher is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	settings := fetchSettings{
		policy: c.defaultStatus,
		decode: c.defaultDecode,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&settings)
	}

	call := c.startCall(operationFetchJSON, req)
	call.target = typeName[T]()
	value, statusCode, err := fetchTyped[T](ctx, c.fetcher, req, settings.policy, settings.decode)
	call.statusCode = statusCode
	c.observe(ctx, call, err)
	if err != nil {
		return zero, err
	}
	return value, nil
}

// Fetch runs req through f, verifies the response is HTTP shaped, applies
// policy when it is non-nil and decodes the body into T.
func Fetch[T any](ctx context.Context, f core.Fetcher, req core.Request, policy core.StatusPolicy, decodeOpts decode.Options) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	value, _, err := fetchTyped[T](ctx, f, req, policy, decodeOpts)
	return value, err
}

func fetchTyped[T any](ctx context.Context, f core.Fetcher, req core.Request, policy core.StatusPolicy, decodeOpts decode.Options) (T, int, error) {
	var zero T
	if f == nil {
		return zero, 0, core.InternalError("client: fetcher is required")
	}
	result, err := f.Fetch(ctx, req)
	if err != nil {
		return zero, statusOf(result.Meta), err
	}
	if result.Meta == nil {
		return zero, 0, core.MissingMetadata()
	}
	if result.Body == nil {
		return zero, statusOf(result.Meta), core.MissingBody()
	}

	httpMeta, ok := result.Meta.(core.HTTPMetadata)
	if !ok {
		return zero, 0, core.NotHTTPMetadata(result.Meta)
	}
	statusCode := httpMeta.Status()
	if policy != nil {
		if err := core.CheckStatus(policy, statusCode); err != nil {
			return zero, statusCode, err
		}
	}

	value, err := decode.Bytes[T](result.Body, decodeOpts)
	if err != nil {
		return zero, statusCode, err
	}
	return value, statusCode, nil
}

func typeName[T any]() string {
	typ := reflect.TypeFor[T]()
	if typ == nil {
		return ""
	}
	return typ.String()
}
