package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrorKind identifies the stage of a fetch that failed. Values double as the
// TextCode of the go-errors envelope.
type ErrorKind string

const (
	ErrorTransportFailed ErrorKind = "FETCH_TRANSPORT_FAILED"
	ErrorMissingMetadata ErrorKind = "FETCH_MISSING_METADATA"
	ErrorMissingBody     ErrorKind = "FETCH_MISSING_BODY"
	ErrorNotHTTPMetadata ErrorKind = "FETCH_NOT_HTTP_METADATA"
	ErrorStatusRejected  ErrorKind = "FETCH_STATUS_REJECTED"
	ErrorDecodeFailed    ErrorKind = "FETCH_DECODE_FAILED"
	ErrorInternal        ErrorKind = "FETCH_INTERNAL_ERROR"
)

const metadataKeyStatusCode = "status_code"

func (k ErrorKind) String() string {
	return string(k)
}

// TransportFailure wraps cause as a transport failure. A cause that is
// already a transport failure is returned unchanged; any other fetch error
// becomes the source of a new transport failure.
func TransportFailure(cause error, metadata map[string]any) error {
	if KindOf(cause) == ErrorTransportFailed {
		return cause
	}
	return wrapFetchError(cause, goerrors.CategoryExternal, ErrorTransportFailed,
		"fetch: transport failed", http.StatusBadGateway, metadata)
}

// InvalidRequest reports request input the transport refused before any
// network activity. It is a transport failure in the bad input category.
func InvalidRequest(message string, cause error, metadata map[string]any) error {
	if cause == nil {
		return newFetchError(goerrors.CategoryBadInput, ErrorTransportFailed, message, http.StatusBadRequest, metadata)
	}
	return wrapFetchError(cause, goerrors.CategoryBadInput, ErrorTransportFailed, message, http.StatusBadRequest, metadata)
}

// MissingMetadata reports a completion that carried no response metadata.
func MissingMetadata() error {
	return newFetchError(goerrors.CategoryExternal, ErrorMissingMetadata,
		"fetch: missing response metadata", http.StatusBadGateway, nil)
}

// MissingBody reports a completion that carried metadata but no body.
func MissingBody() error {
	return newFetchError(goerrors.CategoryExternal, ErrorMissingBody,
		"fetch: missing response body", http.StatusBadGateway, nil)
}

func NotHTTPMetadata(meta ResponseMeta) error {
	return newFetchError(goerrors.CategoryOperation, ErrorNotHTTPMetadata,
		"fetch: response metadata is not http", http.StatusInternalServerError,
		map[string]any{"meta_type": fmt.Sprintf("%T", meta)})
}

func StatusRejected(statusCode int) error {
	return newFetchError(goerrors.CategoryExternal, ErrorStatusRejected,
		fmt.Sprintf("fetch: wrong status code: %d", statusCode), http.StatusBadGateway,
		map[string]any{metadataKeyStatusCode: statusCode})
}

// DecodeFailure wraps a decoder error. Only the cause is kept; the payload is
// never attached.
func DecodeFailure(cause error, target string) error {
	metadata := map[string]any{}
	if strings.TrimSpace(target) != "" {
		metadata["target"] = target
	}
	return wrapFetchError(cause, goerrors.CategoryBadInput, ErrorDecodeFailed,
		"fetch: decode failed", http.StatusUnprocessableEntity, metadata)
}

func InternalError(message string) error {
	return newFetchError(goerrors.CategoryInternal, ErrorInternal, message, http.StatusInternalServerError, nil)
}

// KindOf returns the ErrorKind carried by err, or "" when err is not a fetch
// error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return ""
	}
	kind := ErrorKind(rich.TextCode)
	switch kind {
	case ErrorTransportFailed, ErrorMissingMetadata, ErrorMissingBody, ErrorNotHTTPMetadata,
		ErrorStatusRejected, ErrorDecodeFailed, ErrorInternal:
		return kind
	default:
		return ""
	}
}

// IsKind reports whether err is a fetch error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return kind != "" && KindOf(err) == kind
}

// StatusCodeOf returns the rejected status code of a StatusRejected error.
func StatusCodeOf(err error) (int, bool) {
	var rich *goerrors.Error
	if err == nil || !goerrors.As(err, &rich) || rich.TextCode != string(ErrorStatusRejected) {
		return 0, false
	}
	code, ok := rich.Metadata[metadataKeyStatusCode].(int)
	return code, ok
}

func newFetchError(
	category goerrors.Category,
	kind ErrorKind,
	message string,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(string(kind))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func wrapFetchError(
	source error,
	category goerrors.Category,
	kind ErrorKind,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return newFetchError(category, kind, message, code, metadata)
	}
	var err *goerrors.Error
	var rich *goerrors.Error
	if goerrors.As(source, &rich) {
		// goerrors.Wrap clones an existing envelope; chain it as the source.
		err = goerrors.New(message, category)
		err.Source = source
	} else {
		err = goerrors.Wrap(source, category, message)
	}
	err = err.WithCode(code).WithTextCode(string(kind))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
