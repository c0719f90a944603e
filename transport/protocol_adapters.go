package transport

import (
	"context"
	"strings"

	"github.com/goliatone/go-fetch/core"
)

const KindJSON = "json"

// ProtocolHTTPAdapter is a REST adapter preset with a default method and
// default headers. Request values win over the preset.
type ProtocolHTTPAdapter struct {
	kind          string
	defaultMethod string
	defaultHeader map[string]string
	rest          *RESTAdapter
}

// NewJSONAdapter presets Accept: application/json, and a JSON content type
// for requests that carry a body.
func NewJSONAdapter(client HTTPDoer) *ProtocolHTTPAdapter {
	return NewProtocolHTTPAdapter(KindJSON, client, "GET", map[string]string{
		"Accept": "application/json",
	})
}

func NewProtocolHTTPAdapter(kind string, client HTTPDoer, defaultMethod string, defaultHeaders map[string]string) *ProtocolHTTPAdapter {
	return &ProtocolHTTPAdapter{
		kind:          strings.TrimSpace(strings.ToLower(kind)),
		defaultMethod: strings.TrimSpace(strings.ToUpper(defaultMethod)),
		defaultHeader: cloneHeaders(defaultHeaders),
		rest:          NewRESTAdapter(client),
	}
}

func (a *ProtocolHTTPAdapter) Kind() string {
	if a == nil {
		return ""
	}
	return a.kind
}

func (a *ProtocolHTTPAdapter) Fetch(ctx context.Context, req core.Request) (core.FetchResult, error) {
	if a == nil || a.rest == nil {
		return core.FetchResult{}, core.InternalError("transport: protocol adapter is nil")
	}
	resolved := req
	if strings.TrimSpace(resolved.Method) == "" {
		resolved.Method = a.defaultMethod
	}
	headers := cloneHeaders(a.defaultHeader)
	if a.kind == KindJSON && len(req.Body) > 0 {
		headers["Content-Type"] = "application/json"
	}
	for key, value := range req.Headers {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		headers[trimmed] = strings.TrimSpace(value)
	}
	resolved.Headers = headers
	result, err := a.rest.Fetch(ctx, resolved)
	if err != nil {
		return core.FetchResult{}, err
	}
	if meta, ok := result.Meta.(*core.HTTPResponseMeta); ok && meta != nil {
		meta.Metadata = cloneMetadata(meta.Metadata)
		meta.Metadata["kind"] = a.kind
		meta.Metadata["protocol_adapter"] = a.kind
	}
	return result, nil
}

func cloneHeaders(input map[string]string) map[string]string {
	if len(input) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		out[trimmed] = strings.TrimSpace(value)
	}
	return out
}

func cloneMetadata(input map[string]any) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}

var _ core.TransportAdapter = (*ProtocolHTTPAdapter)(nil)
