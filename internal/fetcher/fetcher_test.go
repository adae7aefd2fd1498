package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent:         "test-agent",
		Timeout:           5 * time.Second,
		MaxRetries:        3,
		RequestsPerSecond: 100,
		MaxBackoff:        10 * time.Millisecond,
	})
}

func createTestZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

type stubFetcher struct {
	body string
	err  error
	urls []string
}

func (s *stubFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	s.urls = append(s.urls, url)
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func TestHTTPFetcher_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL+"/data")
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	_ = body.Close()
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFetcher_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "all retries exhausted")
}

func TestHTTPFetcher_RetryCounts(t *testing.T) {
	for _, retries := range []int{0, 2} {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))

		f := NewHTTPFetcher(HTTPOptions{MaxRetries: retries, RequestsPerSecond: 100, MaxBackoff: time.Millisecond})
		_, err := f.Download(context.Background(), srv.URL)
		srv.Close()

		assert.Error(t, err)
		assert.Equal(t, int32(retries+1), calls.Load(), "retries=%d", retries)
	}
}

func TestHTTPFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL+"/missing.csv")
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
	assert.Equal(t, 0, f.opts.MaxRetries)
	assert.Equal(t, "prospect-explorer/1.0", f.opts.UserAgent)
	assert.Same(t, f.limiterFor("https://a.example.com/x"), f.limiterFor("https://a.example.com/y"))
	assert.NotSame(t, f.limiterFor("https://a.example.com/x"), f.limiterFor("https://b.example.com/x"))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/leads.csv"))
	assert.True(t, IsRemote("HTTP://example.com/leads.csv"))
	assert.True(t, IsRemote("ftp://files.example.com/leads.xlsx"))
	assert.False(t, IsRemote("leads.csv"))
	assert.False(t, IsRemote("/tmp/leads.csv"))
	assert.False(t, IsRemote(`C:\exports\leads.csv`))
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exports/leads.csv", r.URL.Path)
		_, _ = w.Write([]byte("Name,Company,Country\nAlice,Acme,Italy\n"))
	}))
	defer srv.Close()

	l := &Loader{http: newTestFetcher(), ftp: &stubFetcher{}}
	tbl, err := l.Load(context.Background(), srv.URL+"/exports/leads.csv?token=x", "")
	require.NoError(t, err)
	assert.Equal(t, "leads.csv", tbl.Source)
	assert.Equal(t, []string{"Name", "Company", "Country"}, tbl.Columns)
	assert.Len(t, tbl.Rows, 1)
}

func TestLoader_FTP(t *testing.T) {
	ftp := &stubFetcher{body: "Name,Company\nBob,Globex\n"}
	l := &Loader{http: &stubFetcher{err: errors.New("unused")}, ftp: ftp}

	tbl, err := l.Load(context.Background(), "ftp://files.example.com/q3/leads.csv", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ftp://files.example.com/q3/leads.csv"}, ftp.urls)
	assert.Equal(t, [][]string{{"Bob", "Globex"}}, tbl.Rows)
}

func TestLoader_DownloadError(t *testing.T) {
	l := &Loader{http: &stubFetcher{err: errors.New("connection refused")}}

	_, err := l.Load(context.Background(), "https://example.com/leads.csv", "")
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "https://example.com/leads.csv", le.Source)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoader_LocalPath(t *testing.T) {
	_, err := NewLoader(RemoteOptions{}).Load(context.Background(), t.TempDir()+"/nope.csv", "")
	var le *LoadError
	assert.True(t, errors.As(err, &le))
}

func TestLoadBytes_ZIP(t *testing.T) {
	data := createTestZIP(t, map[string]string{
		"export/":              "",
		"export/leads.csv":     "Name,Company\nAlice,Acme\n",
		"__MACOSX/._leads.csv": "junk",
		"export/readme.md":     "ignored",
	})

	tbl, err := LoadBytes("crm.zip", data, "")
	require.NoError(t, err)
	assert.Equal(t, "crm.zip/leads.csv", tbl.Source)
	assert.Equal(t, []string{"Name", "Company"}, tbl.Columns)
}

func TestLoadBytes_ZIPAmbiguous(t *testing.T) {
	data := createTestZIP(t, map[string]string{
		"a.csv": "Name\nA\n",
		"b.csv": "Name\nB\n",
	})

	_, err := LoadBytes("crm.zip", data, "")
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "expected exactly 1")
}

func TestLoadBytes_ZIPCorrupt(t *testing.T) {
	_, err := LoadBytes("crm.zip", []byte("not a zip"), "")
	assert.Error(t, err)
}
