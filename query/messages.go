package query

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-fetch/core"
	"github.com/goliatone/go-fetch/decode"
)

const (
	TypeFetchBytes = "fetch.query.bytes"
	TypeFetchJSON  = "fetch.query.json"
)

type FetchBytesMessage struct {
	Request core.Request
}

func (FetchBytesMessage) Type() string { return TypeFetchBytes }

func (m FetchBytesMessage) Validate() error {
	return validateRequest(m.Request)
}

// FetchJSONMessage asks for a typed fetch. A nil Status accepts any status
// code; the zero Decode uses the decoder defaults.
type FetchJSONMessage struct {
	Request core.Request
	Status  core.StatusPolicy
	Decode  decode.Options
}

func (FetchJSONMessage) Type() string { return TypeFetchJSON }

func (m FetchJSONMessage) Validate() error {
	return validateRequest(m.Request)
}

func validateRequest(req core.Request) error {
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		return queryValidationError("url", "url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return queryValidationError("url", "url is invalid")
	}
	if parsed.Scheme == "" {
		return queryValidationError("url", "url scheme is required")
	}
	if method := strings.TrimSpace(req.Method); method != "" && !validMethod(method) {
		return queryValidationError("method", "method is invalid")
	}
	if req.Timeout < 0 {
		return queryValidationError("timeout", "timeout must be >= 0")
	}
	if req.MaxResponseBodyBytes < 0 {
		return queryValidationError("max_response_body_bytes", "max_response_body_bytes must be >= 0")
	}
	return nil
}

func validMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace:
		return true
	default:
		return false
	}
}
