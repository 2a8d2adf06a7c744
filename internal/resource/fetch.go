package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// defaultMaxBytes caps a single fetched body.
const defaultMaxBytes = 8 << 20

// defaultHTTPTimeout bounds a fetch when the caller's context has no deadline.
const defaultHTTPTimeout = 15 * time.Second

// Fetch errors.
var (
	ErrUnsupportedScheme = errors.New("unsupported resource scheme")
	ErrEmptyRef          = errors.New("resource reference is empty")
	ErrTooLarge          = errors.New("resource exceeds size limit")
)

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	Ref  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.Ref, e.Code)
}

// Fetcher retrieves raw resource bodies.
type Fetcher struct {
	client   *http.Client
	baseDir  string
	maxBytes int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithBaseDir resolves relative file references against dir.
func WithBaseDir(dir string) FetcherOption {
	return func(f *Fetcher) { f.baseDir = dir }
}

// WithMaxBytes caps fetched bodies at n bytes.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) { f.maxBytes = n }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body and media type of ref.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, "", ErrEmptyRef
	}

	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare paths, including Windows drive letters.
		return f.fetchFile(ctx, ref)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, ref)
	case "file":
		return f.fetchFile(ctx, u.Path)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, ref string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", ref, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{Ref: ref, Code: resp.StatusCode}
	}

	data, err := f.readLimited(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", ref, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, parseErr := mime.ParseMediaType(contentType); parseErr == nil {
		contentType = mediaType
	}
	return data, contentType, nil
}

func (f *Fetcher) fetchFile(ctx context.Context, path string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	if !filepath.IsAbs(path) && f.baseDir != "" {
		path = filepath.Join(f.baseDir, path)
	}

	//nolint:gosec // Local references are user-supplied catalog paths.
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	data, err := f.readLimited(file)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return data, mime.TypeByExtension(filepath.Ext(path)), nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
