// Package analysis is the HTTP client for the external Analysis Service that
// fragments images and detects fragment boundaries.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/fraglab/internal/reconcile"
	"github.com/jackzampolin/fraglab/internal/segment"
	"github.com/jackzampolin/fraglab/internal/wire"
)

// DefaultBaseURL is where the Analysis Service listens by default.
const DefaultBaseURL = "http://localhost:8080/api"

var (
	// ErrServiceUnavailable is returned when the service cannot be reached.
	ErrServiceUnavailable = errors.New("analysis service unavailable")

	// ErrServiceError is returned when the service answers with a failure.
	ErrServiceError = errors.New("analysis service error")
)

// File is one uploaded file.
type File struct {
	Name string
	Data []byte
}

// Response is the envelope of analyze, analyze-custom and reanalyze.
type Response struct {
	Success     bool                       `json:"success"`
	TotalImages int                        `json:"totalImages,omitempty"`
	Results     []reconcile.PerImageResult `json:"results"`
	Error       string                     `json:"error,omitempty"`
	ErrorType   string                     `json:"errorType,omitempty"`
}

// JPEGInfo describes where filler can be placed in an image.
type JPEGInfo struct {
	Success             bool   `json:"success"`
	EntropyStart        int64  `json:"entropyStart"`
	EntropyEnd          int64  `json:"entropyEnd"`
	HeaderEndBlock      int    `json:"headerEndBlock"`
	SafeNoiseStartBlock int    `json:"safeNoiseStartBlock"`
	Error               string `json:"error,omitempty"`
}

// Health is the liveness probe payload.
type Health struct {
	Service string `json:"service"`
}

// AnalyzeRequest is a batch analysis of uploaded files.
type AnalyzeRequest struct {
	Files    []File
	Fragment bool

	// InsertionSizeKB selects the filler size class. Zero lets the service
	// choose.
	InsertionSizeKB int
}

// Client talks to the Analysis Service.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a client-side timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points the client at a different service. Calls already in
// flight keep their original target.
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c.mu.Lock()
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	c.mu.Unlock()
}

// Health checks if the service is alive.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+"/health", nil)
	if err != nil {
		return nil, err
	}
	var h Health
	if err := c.do(req, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// WaitReady polls Health once per interval until it succeeds or timeout
// elapses.
func (c *Client) WaitReady(ctx context.Context, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	attempts := max(uint(timeout/interval), 1)

	err := retry.Do(
		func() error {
			_, err := c.Health(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("analysis service not ready", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrServiceError) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return nil
}

// Analyze uploads files for fragmentation and detection.
func (c *Client) Analyze(ctx context.Context, ar AnalyzeRequest) (*Response, error) {
	if len(ar.Files) == 0 {
		return nil, fmt.Errorf("%w: no files to analyze", segment.ErrInvalidInput)
	}
	body, contentType, err := multipartBody(func(w *multipart.Writer) error {
		for _, f := range ar.Files {
			if err := writeFile(w, "files", f); err != nil {
				return err
			}
		}
		if err := w.WriteField("fragment", strconv.FormatBool(ar.Fragment)); err != nil {
			return err
		}
		return w.WriteField("insertionSize", strconv.Itoa(ar.InsertionSizeKB))
	})
	if err != nil {
		return nil, err
	}
	return c.postAnalysis(ctx, "/analyze", body, contentType)
}

// AnalyzeCustom fragments one file according to structure and runs detection.
func (c *Client) AnalyzeCustom(ctx context.Context, f File, structure wire.Structure) (*Response, error) {
	encoded, err := structure.Encode()
	if err != nil {
		return nil, err
	}
	body, contentType, err := multipartBody(func(w *multipart.Writer) error {
		if err := writeFile(w, "file", f); err != nil {
			return err
		}
		if err := w.WriteField("fragment", "true"); err != nil {
			return err
		}
		return w.WriteField("structure", string(encoded))
	})
	if err != nil {
		return nil, err
	}
	return c.postAnalysis(ctx, "/analyze-custom", body, contentType)
}

// Reanalyze reruns detection on previously fragmented files.
func (c *Client) Reanalyze(ctx context.Context, filenames []string) (*Response, error) {
	b, err := json.Marshal(map[string][]string{"filenames": filenames})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	return c.postAnalysis(ctx, "/reanalyze", bytes.NewReader(b), "application/json")
}

// JPEGInfo asks the service where the entropy-coded region of f lies.
func (c *Client) JPEGInfo(ctx context.Context, f File) (*JPEGInfo, error) {
	body, contentType, err := multipartBody(func(w *multipart.Writer) error {
		return writeFile(w, "file", f)
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+"/jpeg-info", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var info JPEGInfo
	if err := c.do(req, &info); err != nil {
		return nil, err
	}
	if !info.Success {
		return nil, serviceError(info.Error)
	}
	return &info, nil
}

func (c *Client) postAnalysis(ctx context.Context, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	var resp Response
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, serviceError(resp.Error)
	}
	c.logger.Info("analysis complete",
		"path", path,
		"images", len(resp.Results),
		"duration", time.Since(start),
	)
	return &resp, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%w (%d): %s", ErrServiceError, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("%w (%d): %s", ErrServiceError, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrServiceError, err)
		}
	}
	return nil
}

func serviceError(msg string) error {
	if msg == "" {
		msg = "request was not successful"
	}
	return fmt.Errorf("%w: %s", ErrServiceError, msg)
}

func multipartBody(fill func(*multipart.Writer) error) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field string, f File) error {
	part, err := w.CreateFormFile(field, f.Name)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Data)
	return err
}
