package fetcher

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// MaxRemoteBytes caps the size of a downloaded prospect list.
const MaxRemoteBytes = 32 << 20

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// RemoteOptions configures remote prospect list downloads.
type RemoteOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

// Loader reads prospect lists from local paths, HTTP(S) and FTP URLs.
type Loader struct {
	http Fetcher
	ftp  Fetcher
}

// NewLoader creates a Loader with HTTP and FTP fetchers built from opts.
func NewLoader(opts RemoteOptions) *Loader {
	return &Loader{
		http: NewHTTPFetcher(HTTPOptions{
			UserAgent:  opts.UserAgent,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
		}),
		ftp: NewFTPFetcher(FTPOptions{Timeout: opts.Timeout}),
	}
}

// IsRemote reports whether src is an http, https or ftp URL.
func IsRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// Load reads src, which is either a file path or a remote URL. The format
// follows the extension of the path or URL path.
func (l *Loader) Load(ctx context.Context, src, sheet string) (*model.RawTable, error) {
	if !IsRemote(src) {
		return LoadFile(src, sheet)
	}

	u, err := url.Parse(src)
	if err != nil {
		return nil, &LoadError{Source: src, Err: eris.Wrap(err, "fetcher: parse url")}
	}
	f := l.http
	if strings.EqualFold(u.Scheme, "ftp") {
		f = l.ftp
	}

	zap.L().Debug("fetcher: downloading prospect list", zap.String("url", src))
	body, err := f.Download(ctx, src)
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(body, MaxRemoteBytes+1))
	if err != nil {
		return nil, &LoadError{Source: src, Err: eris.Wrap(err, "fetcher: read body")}
	}
	if len(data) > MaxRemoteBytes {
		return nil, &LoadError{Source: src, Err: eris.Errorf("fetcher: file larger than %d bytes", MaxRemoteBytes)}
	}

	return LoadBytes(path.Base(u.Path), data, sheet)
}
