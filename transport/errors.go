package transport

import (
	"strings"

	"github.com/goliatone/go-fetch/core"
)

func adapterMetadata(kind string, req core.Request, extra map[string]any) map[string]any {
	metadata := map[string]any{"adapter": kind}
	if url := strings.TrimSpace(req.URL); url != "" {
		metadata["url"] = core.RedactURL(url)
	}
	if method := strings.TrimSpace(req.Method); method != "" {
		metadata["method"] = strings.ToUpper(method)
	}
	for key, value := range extra {
		metadata[key] = value
	}
	return metadata
}

func invalidRequest(kind string, req core.Request, message string, cause error, extra map[string]any) error {
	return core.InvalidRequest(message, cause, adapterMetadata(kind, req, extra))
}

func transportFailure(kind string, req core.Request, cause error, extra map[string]any) error {
	return core.TransportFailure(cause, adapterMetadata(kind, req, extra))
}
