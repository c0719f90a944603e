package transport

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-fetch/bridge"
	"github.com/goliatone/go-fetch/core"
)

type AdapterFactory func(config map[string]any) (core.TransportAdapter, error)

// Registry routes requests to adapters by URL scheme and builds adapters by
// kind. A Registry is itself a core.Fetcher.
type Registry struct {
	mu        sync.RWMutex
	schemes   map[string]core.Fetcher
	factories map[string]AdapterFactory
}

func NewRegistry() *Registry {
	return &Registry{
		schemes:   map[string]core.Fetcher{},
		factories: map[string]AdapterFactory{},
	}
}

// Defaults tunes the adapters NewConfiguredRegistry installs. Zero values
// keep the adapter defaults. The file scheme is served only when FileRoot is
// set, and only from under that directory.
type Defaults struct {
	Client               HTTPDoer
	Headers              map[string]string
	Timeout              time.Duration
	MaxResponseBodyBytes int64
	FileRoot             string
}

// NewDefaultRegistry routes http and https through a REST adapter on client
// and registers factories for every bundled adapter kind.
func NewDefaultRegistry(client HTTPDoer) (*Registry, error) {
	return NewConfiguredRegistry(Defaults{Client: client})
}

func NewConfiguredRegistry(defaults Defaults) (*Registry, error) {
	registry := NewRegistry()
	rest := NewRESTAdapter(defaults.Client)
	rest.DefaultHeaders = cloneHeaders(defaults.Headers)
	if defaults.Timeout > 0 {
		rest.Timeout = defaults.Timeout
	}
	if defaults.MaxResponseBodyBytes > 0 {
		rest.MaxResponseBodyBytes = defaults.MaxResponseBodyBytes
	}
	if err := registry.Register("http", rest); err != nil {
		return nil, err
	}
	if err := registry.Register("https", rest); err != nil {
		return nil, err
	}
	if root := strings.TrimSpace(defaults.FileRoot); root != "" {
		file := NewFileAdapter(root)
		if defaults.MaxResponseBodyBytes > 0 {
			file.MaxResponseBodyBytes = defaults.MaxResponseBodyBytes
		}
		if err := registry.Register(KindFile, file); err != nil {
			return nil, err
		}
	}
	for _, kind := range []string{KindREST, KindJSON, KindCallback, KindFile} {
		if err := registry.RegisterFactory(kind, defaultFactory(kind, defaults.Client)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Register(scheme string, adapter core.Fetcher) error {
	if r == nil {
		return fmt.Errorf("transport: registry is nil")
	}
	if adapter == nil {
		return fmt.Errorf("transport: adapter is nil")
	}
	scheme = normalizeKind(scheme)
	if scheme == "" {
		return fmt.Errorf("transport: scheme is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemes[scheme]; exists {
		return fmt.Errorf("transport: scheme %q already registered", scheme)
	}
	r.schemes[scheme] = adapter
	return nil
}

func (r *Registry) RegisterFactory(kind string, factory AdapterFactory) error {
	if r == nil {
		return fmt.Errorf("transport: registry is nil")
	}
	kind = normalizeKind(kind)
	if kind == "" {
		return fmt.Errorf("transport: adapter kind is required")
	}
	if factory == nil {
		return fmt.Errorf("transport: adapter factory is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("transport: adapter factory kind %q already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

func (r *Registry) Build(kind string, config map[string]any) (core.TransportAdapter, error) {
	if r == nil {
		return nil, fmt.Errorf("transport: registry is nil")
	}
	kind = normalizeKind(kind)
	if kind == "" {
		return nil, fmt.Errorf("transport: adapter kind is required")
	}

	r.mu.RLock()
	factory := r.factories[kind]
	r.mu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("transport: adapter kind %q not registered", kind)
	}
	built, err := factory(cloneMap(config))
	if err != nil {
		return nil, err
	}
	if built == nil {
		return nil, fmt.Errorf("transport: factory for %q returned nil adapter", kind)
	}
	return built, nil
}

func (r *Registry) Get(scheme string) (core.Fetcher, bool) {
	if r == nil {
		return nil, false
	}
	scheme = normalizeKind(scheme)
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.schemes[scheme]
	return adapter, ok
}

func (r *Registry) Schemes() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemes := make([]string, 0, len(r.schemes))
	for scheme := range r.schemes {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Fetch dispatches req to the adapter registered for its URL scheme.
func (r *Registry) Fetch(ctx context.Context, req core.Request) (core.FetchResult, error) {
	if r == nil {
		return core.FetchResult{}, core.InternalError("transport: registry is nil")
	}
	parsed, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil {
		return core.FetchResult{}, invalidRequest("registry", req, "transport: invalid request url", err, nil)
	}
	scheme := normalizeKind(parsed.Scheme)
	if scheme == "" {
		return core.FetchResult{}, invalidRequest("registry", req, "transport: request url scheme is required", nil, nil)
	}
	adapter, ok := r.Get(scheme)
	if !ok {
		return NewUnsupportedAdapter(scheme, "no adapter registered for scheme").Fetch(ctx, req)
	}
	return adapter.Fetch(ctx, req)
}

func normalizeKind(kind string) string {
	return strings.TrimSpace(strings.ToLower(kind))
}

func defaultFactory(kind string, client HTTPDoer) AdapterFactory {
	return func(config map[string]any) (core.TransportAdapter, error) {
		switch normalizeKind(kind) {
		case KindREST:
			return NewRESTAdapter(client), nil
		case KindJSON:
			return NewJSONAdapter(client), nil
		case KindCallback:
			return bridge.NewAdapter(KindCallback, NewCallbackAdapter(client)), nil
		case KindFile:
			root, _ := config["root"].(string)
			if strings.TrimSpace(root) == "" {
				return nil, fmt.Errorf("transport: file adapter requires a root")
			}
			return NewFileAdapter(root), nil
		default:
			reason, _ := config["reason"].(string)
			return NewUnsupportedAdapter(kind, reason), nil
		}
	}
}

func cloneMap(input map[string]any) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	output := make(map[string]any, len(input))
	for key, value := range input {
		output[key] = value
	}
	return output
}

var _ core.Fetcher = (*Registry)(nil)
