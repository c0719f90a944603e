package client

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-fetch/core"
)

const (
	operationFetchBytes = "fetch_bytes"
	operationFetchJSON  = "fetch_json"
)

type call struct {
	operation  string
	requestID  string
	method     string
	url        string
	headers    map[string]string
	target     string
	statusCode int
	startedAt  time.Time
}

func (c *Client) startCall(operation string, req core.Request) *call {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	started := &call{
		operation: operation,
		requestID: uuid.NewString(),
		method:    method,
		url:       core.RedactURL(req.URL),
		startedAt: time.Now(),
	}
	if len(req.Headers) > 0 {
		started.headers = core.RedactHeaders(req.Headers)
	}
	return started
}

func (c *Client) observe(ctx context.Context, call *call, err error) {
	if c == nil || call == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	elapsed := time.Since(call.startedAt)

	fields := map[string]any{
		"event_type":  call.operation,
		"status":      status,
		"request_id":  call.requestID,
		"method":      call.method,
		"url":         call.url,
		"duration_ms": elapsed.Milliseconds(),
	}
	if name := strings.TrimSpace(c.config.ClientName); name != "" {
		fields["client"] = name
	}
	if call.statusCode > 0 {
		fields["status_code"] = call.statusCode
	}
	if call.target != "" {
		fields["target"] = call.target
	}
	if len(call.headers) > 0 {
		fields["headers"] = call.headers
	}
	if err != nil {
		fields["error"] = err.Error()
		enrichErrorFields(fields, err)
	}

	tags := map[string]string{
		"operation": call.operation,
		"status":    status,
		"method":    call.method,
	}
	if kind := core.KindOf(err); kind != "" {
		tags["kind"] = string(kind)
	}
	if call.statusCode > 0 {
		tags["status_code"] = fmt.Sprint(call.statusCode)
	}

	c.recordCounter(ctx, "fetch."+call.operation+".total", 1, tags)
	c.recordHistogram(ctx, "fetch."+call.operation+".duration_ms", float64(elapsed.Milliseconds()), tags)

	if err != nil {
		c.logWithLevel(ctx, "error", "fetch failed", fields)
		return
	}
	c.logWithLevel(ctx, "info", "fetch succeeded", fields)
}

func enrichErrorFields(fields map[string]any, err error) {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return
	}
	if rich.TextCode != "" {
		fields["error_text_code"] = rich.TextCode
	}
	if rich.Category != "" {
		fields["error_category"] = string(rich.Category)
	}
	if rich.Code != 0 {
		fields["error_code"] = rich.Code
	}
	if len(rich.Metadata) > 0 {
		fields["error_metadata"] = core.RedactSensitiveMap(rich.Metadata)
	}
}

func (c *Client) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logger := c.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (c *Client) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if c == nil || c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.IncCounter(ctx, name, value, core.CloneTags(tags))
}

func (c *Client) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if c == nil || c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.ObserveHistogram(ctx, name, value, core.CloneTags(tags))
}

func statusOf(meta core.ResponseMeta) int {
	httpMeta, ok := meta.(core.HTTPMetadata)
	if !ok || httpMeta == nil {
		return 0
	}
	return httpMeta.Status()
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
