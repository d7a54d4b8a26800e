package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultMaxDownloadSize caps mirrored downloads at 1 GiB.
	DefaultMaxDownloadSize = 1 << 30
	// DefaultDownloadTimeout bounds one outbound fetch.
	DefaultDownloadTimeout = 5 * time.Minute
)

// Bucket is a remote key-value blob store.
type Bucket interface {
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes all keys in one call. Missing keys are not an error.
	Delete(ctx context.Context, keys []string) error
}

// Binding ties a category to its bucket and public subdomain label.
type Binding struct {
	Bucket    Bucket
	Subdomain string
}

// Dispatcher routes classified payloads to bucket operations.
type Dispatcher struct {
	bindings        map[Category]Binding
	domain          string
	httpClient      *http.Client
	maxDownloadSize int64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient sets the client used to fetch download URLs.
func WithHTTPClient(client *http.Client) DispatcherOption {
	return func(d *Dispatcher) {
		d.httpClient = client
	}
}

// WithMaxDownloadSize caps the size of mirrored downloads. Zero disables the cap.
func WithMaxDownloadSize(n int64) DispatcherOption {
	return func(d *Dispatcher) {
		d.maxDownloadSize = n
	}
}

// NewDispatcher creates a Dispatcher. domain is the public mirror domain used in
// confirmation messages, e.g. "example.com" for https://<subdomain>.example.com.
func NewDispatcher(bindings map[Category]Binding, domain string, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		bindings:        bindings,
		domain:          domain,
		httpClient:      &http.Client{Timeout: DefaultDownloadTimeout},
		maxDownloadSize: DefaultMaxDownloadSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch performs the bucket operation for p and returns a confirmation message.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) (string, error) {
	binding, err := d.resolve(p.FileCategory())
	if err != nil {
		return "", err
	}

	switch req := p.(type) {
	case *UploadRequest:
		return d.upload(ctx, binding, req)
	case *DownloadRequest:
		return d.download(ctx, binding, req)
	case *DeletionRequest:
		return d.delete(ctx, binding, req)
	default:
		return "", fmt.Errorf("dispatch: unsupported payload %T", p)
	}
}

// resolve looks up the binding for a category. A missing binding means the category
// enumeration and the configured buckets have drifted apart.
func (d *Dispatcher) resolve(c Category) (Binding, error) {
	slog.Debug("resolving bucket", "category", c)

	b, ok := d.bindings[c]
	if !ok || b.Bucket == nil {
		return Binding{}, fmt.Errorf("resolve bucket for %s: %w", c, ErrConfiguration)
	}
	return b, nil
}

func (d *Dispatcher) upload(ctx context.Context, b Binding, req *UploadRequest) (string, error) {
	data, err := DecodeBase64(req.File)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", req.FileName, err)
	}

	slog.Info("storing upload", "file", req.FileName, "bytes", len(data), "category", req.Category)
	if err := b.Bucket.Put(ctx, req.FileName, data); err != nil {
		return "", fmt.Errorf("upload %s: %w: %w", req.FileName, ErrUpstream, err)
	}

	return fmt.Sprintf("Saved %s to %s", req.FileName, d.publicURL(b, req.FileName)), nil
}

func (d *Dispatcher) download(ctx context.Context, b Binding, req *DownloadRequest) (string, error) {
	slog.Info("fetching download", "url", req.DownloadURL, "file", req.FileName)

	data, err := d.fetch(ctx, req.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", req.DownloadURL, err)
	}

	slog.Info("storing download", "file", req.FileName, "bytes", len(data), "category", req.Category)
	if err := b.Bucket.Put(ctx, req.FileName, data); err != nil {
		return "", fmt.Errorf("download %s: %w: %w", req.DownloadURL, ErrUpstream, err)
	}

	return fmt.Sprintf("Saved %s to %s", req.DownloadURL, d.publicURL(b, req.FileName)), nil
}

func (d *Dispatcher) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrUpstream, err)
	}

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrUpstream, resp.Status)
	}

	var body io.Reader = resp.Body
	if d.maxDownloadSize > 0 {
		if resp.ContentLength > d.maxDownloadSize {
			return nil, fmt.Errorf("%w: content length %d exceeds limit %d", ErrUpstream, resp.ContentLength, d.maxDownloadSize)
		}
		body = io.LimitReader(resp.Body, d.maxDownloadSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}

	if d.maxDownloadSize > 0 && int64(len(data)) > d.maxDownloadSize {
		return nil, fmt.Errorf("%w: body exceeds limit %d", ErrUpstream, d.maxDownloadSize)
	}

	return data, nil
}

func (d *Dispatcher) delete(ctx context.Context, b Binding, req *DeletionRequest) (string, error) {
	slog.Info("deleting files", "count", len(req.FileNames), "category", req.Category)

	if err := b.Bucket.Delete(ctx, req.FileNames); err != nil {
		return "", fmt.Errorf("delete %d files: %w: %w", len(req.FileNames), ErrUpstream, err)
	}

	slog.Info("deleted files", "origin", d.origin(b), "files", strings.Join(req.FileNames, ", "))
	return fmt.Sprintf("Deleted %d files from %s", len(req.FileNames), d.origin(b)), nil
}

func (d *Dispatcher) origin(b Binding) string {
	return fmt.Sprintf("https://%s.%s", b.Subdomain, d.domain)
}

// publicURL maps a stored file name to its public address. Underscores in stored
// names stand for path separators on the mirror.
func (d *Dispatcher) publicURL(b Binding, fileName string) string {
	return d.origin(b) + "/" + strings.ReplaceAll(fileName, "_", "/")
}
