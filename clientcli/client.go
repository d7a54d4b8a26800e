package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/keybackend"
)

const (
	// DefaultTimeout is the default HTTP client timeout. Mirror requests wait for
	// the server to finish its own download, so this is generous.
	DefaultTimeout = 10 * time.Minute
)

// Client sends signed requests to a relay server.
type Client struct {
	endpoint   string
	httpClient *http.Client
	signer     *relay.SigningKey
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithClock sets the time source used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.ValidateWithAuth(); err != nil {
		return nil, err
	}

	// Apply defaults
	cfg = cfg.WithDefaults()

	material, err := keybackend.Load(keybackend.KeysConfig{
		PrivateKey:     cfg.PrivateKey,
		PrivateKeyFile: cfg.PrivateKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}

	signer, err := relay.ImportPrivateKey(material.PrivateKey)
	if err != nil {
		return nil, err
	}

	c := &Client{
		// Normalize endpoint URL (remove trailing slash)
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		signer:     signer,
		now:        time.Now,
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload uploads local files to the category bucket. Each file is sent as its own
// request, so a failure is recorded on its result and the rest continue.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if len(opts.Paths) == 0 {
		return nil, fmt.Errorf("upload: %w", ErrNoPaths)
	}
	if opts.FileName != "" && len(opts.Paths) > 1 {
		return nil, errors.New("upload: a file name can only be given for a single path")
	}
	if _, err := relay.ParseCategory(string(opts.Category)); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	results := make([]UploadResult, 0, len(opts.Paths))
	for _, localPath := range opts.Paths {
		// Check context cancellation
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := opts.FileName
		if name == "" {
			name = filepath.Base(localPath)
		}

		result, err := c.uploadSingle(ctx, opts.Category, localPath, name)
		if err != nil {
			result = UploadResult{
				LocalPath: localPath,
				FileName:  name,
				Category:  opts.Category,
				Err:       err,
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// uploadSingle reads, encodes and uploads one file.
func (c *Client) uploadSingle(ctx context.Context, category relay.Category, localPath, name string) (UploadResult, error) {
	if localPath == "" {
		return UploadResult{}, ErrEmptyPath
	}
	if err := checkFileName(name); err != nil {
		return UploadResult{}, err
	}

	data, err := os.ReadFile(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}

	message, err := c.send(ctx, http.MethodPut, uploadBody{
		FileCategory: category,
		FileName:     name,
		File:         relay.EncodeBase64(data),
		Timestamp:    c.now().UnixMilli(),
	})
	if err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		LocalPath: localPath,
		FileName:  name,
		Category:  category,
		Size:      int64(len(data)),
		Message:   message,
	}, nil
}

// Mirror asks the server to download opts.URL into the category bucket.
func (c *Client) Mirror(ctx context.Context, opts MirrorOptions) (*MirrorResult, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("mirror: %w", ErrEmptyURL)
	}
	if _, err := relay.ParseCategory(string(opts.Category)); err != nil {
		return nil, fmt.Errorf("mirror: %w", err)
	}

	u, err := url.Parse(opts.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("mirror: invalid download url %q", opts.URL)
	}

	name := opts.FileName
	if name == "" {
		name = path.Base(u.Path)
		if name == "/" || name == "." {
			name = ""
		}
	}
	if err := checkFileName(name); err != nil {
		return nil, fmt.Errorf("mirror: %w", err)
	}

	message, err := c.send(ctx, http.MethodPut, mirrorBody{
		FileCategory: opts.Category,
		FileName:     name,
		DownloadURL:  opts.URL,
		Timestamp:    c.now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}

	return &MirrorResult{
		URL:      opts.URL,
		FileName: name,
		Category: opts.Category,
		Message:  message,
	}, nil
}

// Delete removes files from the category bucket. Names are sent in batches of
// relay.MaxDeleteBatch; a failed batch is recorded and the rest continue.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.FileNames) == 0 {
		return nil, ErrNoFileNames
	}
	if _, err := relay.ParseCategory(string(opts.Category)); err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	for _, name := range opts.FileNames {
		if err := checkFileName(name); err != nil {
			return nil, fmt.Errorf("delete %q: %w", name, err)
		}
	}

	var results []DeleteResult
	for batch := range slices.Chunk(opts.FileNames, relay.MaxDeleteBatch) {
		// Check context cancellation
		if err := ctx.Err(); err != nil {
			return results, err
		}

		message, err := c.send(ctx, http.MethodDelete, deleteBody{
			FileCategory: opts.Category,
			FileNames:    batch,
			Timestamp:    c.now().UnixMilli(),
		})
		results = append(results, DeleteResult{
			FileNames: batch,
			Message:   message,
			Err:       err,
		})
	}

	return results, nil
}

// HasUploadErrors returns true if any upload failed.
func HasUploadErrors(results []UploadResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// HasDeleteErrors returns true if any delete batch failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// send marshals body, signs the exact bytes and returns the server's confirmation.
func (c *Client) send(ctx context.Context, method string, body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}

	signature, err := c.signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("sign body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+"/", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", signature)

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseServerError(resp.StatusCode, respBody)
	}

	return string(respBody), nil
}

func checkFileName(name string) error {
	if name == "" {
		return ErrEmptyFileName
	}
	if utf8.RuneCountInString(name) > relay.MaxFileNameLength {
		return ErrFileNameLength
	}
	return nil
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned when the server rejects the body (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrUnauthorized is returned when no signature was sent (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the caller IP is not permitted or the
	// signature does not verify (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
