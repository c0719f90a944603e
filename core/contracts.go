package core

import (
	"context"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Request describes one fetch. A bare URL is a GET request, see NewRequest.
type Request struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

// NewRequest returns a GET request for rawURL.
func NewRequest(rawURL string) Request {
	return Request{
		Method: http.MethodGet,
		URL:    strings.TrimSpace(rawURL),
	}
}

// ResponseMeta is the metadata every transport reports alongside a body.
type ResponseMeta interface {
	ResponseURL() string
	MIMEType() string
}

// HTTPMetadata is response metadata produced by an HTTP exchange.
type HTTPMetadata interface {
	ResponseMeta
	Status() int
	Header(key string) string
}

type HTTPResponseMeta struct {
	URL        string
	StatusCode int
	Headers    map[string]string
	Metadata   map[string]any
}

func (m *HTTPResponseMeta) ResponseURL() string {
	if m == nil {
		return ""
	}
	return m.URL
}

func (m *HTTPResponseMeta) MIMEType() string {
	contentType := m.Header("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}

func (m *HTTPResponseMeta) Status() int {
	if m == nil {
		return 0
	}
	return m.StatusCode
}

func (m *HTTPResponseMeta) Header(key string) string {
	if m == nil || len(m.Headers) == 0 {
		return ""
	}
	if value, ok := m.Headers[key]; ok {
		return value
	}
	canonical := http.CanonicalHeaderKey(strings.TrimSpace(key))
	if value, ok := m.Headers[canonical]; ok {
		return value
	}
	for name, value := range m.Headers {
		if strings.EqualFold(name, key) {
			return value
		}
	}
	return ""
}

// FileResponseMeta is reported by non-HTTP transports reading local files.
type FileResponseMeta struct {
	URL      string
	Path     string
	Size     int64
	Modified time.Time
	Type     string
}

func (m *FileResponseMeta) ResponseURL() string {
	if m == nil {
		return ""
	}
	return m.URL
}

func (m *FileResponseMeta) MIMEType() string {
	if m == nil {
		return ""
	}
	return m.Type
}

// FetchResult is the settled outcome of a successful fetch. A nil Body means
// the transport reported no body at all; an empty slice is an empty body.
type FetchResult struct {
	Body []byte
	Meta ResponseMeta
}

// Fetcher is the native blocking fetch primitive. Implementations must honor
// ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (FetchResult, error)
}

type TransportAdapter interface {
	Kind() string
	Fetcher
}

// CompletionHandler receives the outcome of a callback style transport. It is
// invoked exactly once per started request.
type CompletionHandler func(body []byte, meta ResponseMeta, err error)

// CallbackTransport is the callback style fetch primitive. Start begins the
// request and returns immediately; the returned cancel func aborts it.
type CallbackTransport interface {
	Start(ctx context.Context, req Request, done CompletionHandler) (cancel func())
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
