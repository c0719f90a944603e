package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-fetch/core"
)

const KindREST = "rest"

const defaultRESTClientTimeout = core.DefaultTimeout
const defaultRESTResponseBodyLimit = core.DefaultMaxResponseBodyBytes

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTAdapter is the native blocking HTTP fetch primitive.
type RESTAdapter struct {
	Client               HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
	Timeout              time.Duration
}

func NewRESTAdapter(client HTTPDoer) *RESTAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultRESTClientTimeout}
	}
	return &RESTAdapter{
		Client:               client,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
	}
}

func (*RESTAdapter) Kind() string {
	return KindREST
}

func (a *RESTAdapter) Fetch(ctx context.Context, req core.Request) (core.FetchResult, error) {
	if a == nil || a.Client == nil {
		return core.FetchResult{}, core.InternalError("transport: rest adapter requires an http client")
	}
	return executeHTTP(ctx, KindREST, a.Client, a.DefaultHeaders, a.Timeout, a.MaxResponseBodyBytes, req)
}

// executeHTTP performs one HTTP exchange and reads the whole body. It is
// shared by the native and callback adapters.
func executeHTTP(
	ctx context.Context,
	kind string,
	client HTTPDoer,
	defaultHeaders map[string]string,
	defaultTimeout time.Duration,
	adapterLimit int64,
	req core.Request,
) (core.FetchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		return core.FetchResult{}, invalidRequest(kind, req, "transport: request url is required", nil, nil)
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return core.FetchResult{}, invalidRequest(kind, req, "transport: invalid request url", err, nil)
	}

	if len(req.Query) > 0 {
		query := parsedURL.Query()
		for key, value := range req.Query {
			if strings.TrimSpace(key) == "" {
				continue
			}
			query.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		}
		parsedURL.RawQuery = query.Encode()
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	requestCtx := ctx
	cancel := func() {}
	if timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(requestCtx, method, parsedURL.String(), body)
	if err != nil {
		return core.FetchResult{}, invalidRequest(kind, req, "transport: create http request", err, nil)
	}
	for key, value := range defaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	startedAt := time.Now().UTC()
	httpRes, err := client.Do(httpReq)
	if err != nil {
		return core.FetchResult{}, transportFailure(kind, req, err, nil)
	}
	defer httpRes.Body.Close()

	maxBodyBytes := resolveResponseBodyLimit(req.MaxResponseBodyBytes, adapterLimit)
	data, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return core.FetchResult{}, transportFailure(kind, req, err, map[string]any{"status_code": httpRes.StatusCode})
	}
	if int64(len(data)) > maxBodyBytes {
		return core.FetchResult{}, transportFailure(kind, req,
			fmt.Errorf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			map[string]any{"status_code": httpRes.StatusCode, "response_limit_b": maxBodyBytes},
		)
	}
	if data == nil {
		data = []byte{}
	}

	responseURL := parsedURL.String()
	if httpRes.Request != nil && httpRes.Request.URL != nil {
		responseURL = httpRes.Request.URL.String()
	}
	return core.FetchResult{
		Body: data,
		Meta: &core.HTTPResponseMeta{
			URL:        responseURL,
			StatusCode: httpRes.StatusCode,
			Headers:    flattenHeaders(httpRes.Header),
			Metadata: map[string]any{
				"duration_ms": time.Since(startedAt).Milliseconds(),
				"kind":        kind,
			},
		},
	}, nil
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func resolveResponseBodyLimit(requestLimit int64, adapterLimit int64) int64 {
	if requestLimit > 0 {
		return requestLimit
	}
	if adapterLimit > 0 {
		return adapterLimit
	}
	return defaultRESTResponseBodyLimit
}

var _ core.TransportAdapter = (*RESTAdapter)(nil)
