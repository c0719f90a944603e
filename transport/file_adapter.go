package transport

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-fetch/core"
)

const KindFile = "file"

// FileAdapter serves file:// URLs from the local filesystem. Its responses
// carry core.FileResponseMeta, which is not HTTP metadata.
type FileAdapter struct {
	Root                 string
	MaxResponseBodyBytes int64
}

func NewFileAdapter(root string) *FileAdapter {
	return &FileAdapter{
		Root:                 strings.TrimSpace(root),
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
	}
}

func (*FileAdapter) Kind() string {
	return KindFile
}

func (a *FileAdapter) Fetch(ctx context.Context, req core.Request) (core.FetchResult, error) {
	if a == nil {
		return core.FetchResult{}, core.InternalError("transport: file adapter is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return core.FetchResult{}, transportFailure(KindFile, req, err, nil)
		}
	}

	path, err := a.resolvePath(req.URL)
	if err != nil {
		return core.FetchResult{}, invalidRequest(KindFile, req, "transport: invalid file url", err, nil)
	}
	file, err := os.Open(path)
	if err != nil {
		return core.FetchResult{}, transportFailure(KindFile, req, err, nil)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return core.FetchResult{}, transportFailure(KindFile, req, err, nil)
	}
	if info.IsDir() {
		return core.FetchResult{}, transportFailure(KindFile, req, errors.New("transport: path is a directory"), nil)
	}

	maxBodyBytes := resolveResponseBodyLimit(req.MaxResponseBodyBytes, a.MaxResponseBodyBytes)
	data, err := io.ReadAll(io.LimitReader(file, maxBodyBytes+1))
	if err != nil {
		return core.FetchResult{}, transportFailure(KindFile, req, err, nil)
	}
	if int64(len(data)) > maxBodyBytes {
		return core.FetchResult{}, transportFailure(KindFile, req,
			errors.New("transport: file exceeds response body limit"),
			map[string]any{"response_limit_b": maxBodyBytes},
		)
	}
	if data == nil {
		data = []byte{}
	}

	return core.FetchResult{
		Body: data,
		Meta: &core.FileResponseMeta{
			URL:      strings.TrimSpace(req.URL),
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime().UTC(),
			Type:     mime.TypeByExtension(filepath.Ext(path)),
		},
	}, nil
}

func (a *FileAdapter) resolvePath(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "" && !strings.EqualFold(parsed.Scheme, KindFile) {
		return "", errors.New("transport: unsupported scheme " + parsed.Scheme)
	}
	if parsed.Host != "" && !strings.EqualFold(parsed.Host, "localhost") {
		return "", errors.New("transport: remote file hosts are not supported")
	}
	path := parsed.Path
	if path == "" {
		path = parsed.Opaque
	}
	if path == "" {
		return "", errors.New("transport: file path is required")
	}
	path = filepath.FromSlash(path)
	if a.Root == "" {
		return filepath.Clean(path), nil
	}
	joined := filepath.Join(a.Root, filepath.Clean(string(filepath.Separator)+path))
	return joined, nil
}

var _ core.TransportAdapter = (*FileAdapter)(nil)
