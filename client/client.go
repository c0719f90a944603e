package client

import (
	"context"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-fetch/bridge"
	"github.com/goliatone/go-fetch/core"
	"github.com/goliatone/go-fetch/decode"
	"github.com/goliatone/go-fetch/transport"
)

const loggerName = "fetch"

// Client runs fetches through a core.Fetcher and records one log line and
// one set of metrics per call.
type Client struct {
	config          core.Config
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metricsRecorder core.MetricsRecorder
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	fetcher         core.Fetcher
	defaultStatus   core.StatusPolicy
	defaultDecode   decode.Options
}

type Dependencies struct {
	Logger          core.Logger
	LoggerProvider  core.LoggerProvider
	MetricsRecorder core.MetricsRecorder
	ConfigProvider  core.ConfigProvider
	OptionsResolver core.OptionsResolver
	Fetcher         core.Fetcher
}

type clientBuilder struct {
	runtimeConfig   core.Config
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metricsRecorder core.MetricsRecorder
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	fetcher         core.Fetcher
	httpClient      transport.HTTPDoer
	fileRoot        string
	defaultStatus   core.StatusPolicy
	defaultDecode   decode.Options
}

type Option func(*clientBuilder)

func WithLogger(logger core.Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *clientBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *clientBuilder) {
		b.optionsResolver = resolver
	}
}

// WithFetcher replaces the default scheme registry.
func WithFetcher(fetcher core.Fetcher) Option {
	return func(b *clientBuilder) {
		b.fetcher = fetcher
	}
}

// WithCallbackTransport routes every request through the bridge over a
// callback style transport.
func WithCallbackTransport(t core.CallbackTransport) Option {
	return func(b *clientBuilder) {
		if t == nil {
			return
		}
		b.fetcher = bridge.NewAdapter(bridge.KindCallback, t)
	}
}

// WithHTTPClient sets the HTTP client used by the default registry. It is
// ignored when WithFetcher is also given.
func WithHTTPClient(doer transport.HTTPDoer) Option {
	return func(b *clientBuilder) {
		b.httpClient = doer
	}
}

// WithFileRoot serves file URLs from under root through the default
// registry. Without it the default registry rejects file URLs.
func WithFileRoot(root string) Option {
	return func(b *clientBuilder) {
		b.fileRoot = root
	}
}

// WithDefaultStatus sets the status policy applied when a call supplies
// none.
func WithDefaultStatus(policy core.StatusPolicy) Option {
	return func(b *clientBuilder) {
		b.defaultStatus = policy
	}
}

func WithDefaultDecodeOptions(opts decode.Options) Option {
	return func(b *clientBuilder) {
		b.defaultDecode = opts
	}
}

func New(cfg core.Config, opts ...Option) (*Client, error) {
	builder := clientBuilder{
		runtimeConfig:   cfg,
		metricsRecorder: core.NopMetricsRecorder{},
		configProvider:  core.NewCfgxConfigProvider(nil),
		optionsResolver: core.GoOptionsResolver{},
		defaultDecode:   decode.DefaultOptions(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve(loggerName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(loggerName); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = core.NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = core.NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = core.GoOptionsResolver{}
	}

	defaults := core.DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(err)
	}

	fetcher := builder.fetcher
	if fetcher == nil {
		httpClient := builder.httpClient
		if httpClient == nil {
			httpClient = &http.Client{}
		}
		registry, err := transport.NewConfiguredRegistry(transport.Defaults{
			Client:               httpClient,
			Headers:              defaultHeaders(finalConfig),
			Timeout:              finalConfig.Timeout,
			MaxResponseBodyBytes: finalConfig.MaxResponseBodyBytes,
			FileRoot:             builder.fileRoot,
		})
		if err != nil {
			return nil, mapBuildError(err)
		}
		fetcher = registry
	}

	return &Client{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		fetcher:         fetcher,
		defaultStatus:   builder.defaultStatus,
		defaultDecode:   builder.defaultDecode,
	}, nil
}

func (c *Client) Config() core.Config {
	if c == nil {
		return core.Config{}
	}
	return c.config
}

func (c *Client) Dependencies() Dependencies {
	if c == nil {
		return Dependencies{}
	}
	return Dependencies{
		Logger:          c.logger,
		LoggerProvider:  c.loggerProvider,
		MetricsRecorder: c.metricsRecorder,
		ConfigProvider:  c.configProvider,
		OptionsResolver: c.optionsResolver,
		Fetcher:         c.fetcher,
	}
}

// FetchBytes runs req and returns the raw result without status or decode
// checks.
func (c *Client) FetchBytes(ctx context.Context, req core.Request) (core.FetchResult, error) {
	if c == nil || c.fetcher == nil {
		return core.FetchResult{}, core.InternalError("client: fetcher is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	call := c.startCall(operationFetchBytes, req)
	result, err := c.fetcher.Fetch(ctx, req)
	call.statusCode = statusOf(result.Meta)
	c.observe(ctx, call, err)
	return result, err
}

// Fetch implements core.Fetcher so a Client can back query handlers.
func (c *Client) Fetch(ctx context.Context, req core.Request) (core.FetchResult, error) {
	return c.FetchBytes(ctx, req)
}

func defaultHeaders(cfg core.Config) map[string]string {
	headers := make(map[string]string, len(cfg.DefaultHeaders)+1)
	for key, value := range cfg.DefaultHeaders {
		headers[key] = value
	}
	if agent := strings.TrimSpace(cfg.UserAgent); agent != "" {
		headers["User-Agent"] = agent
	}
	return headers
}

func mapBuildError(err error) error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "client: invalid configuration").
		WithCode(http.StatusBadRequest).
		WithTextCode("FETCH_BAD_CONFIG")
}

var _ core.Fetcher = (*Client)(nil)
