package graphhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"communitygraph/internal/logger"
)

// Writer posts graph documents to a remote HTTP endpoint.
type Writer struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// Config configures the HTTP writer.
type Config struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
}

// NewWriter creates an HTTP writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("http graph URL is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger.Infof("Graph HTTP writer initialized: %s", cfg.URL)
	return &Writer{
		url:     cfg.URL,
		headers: cfg.Headers,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// maxErrorBody bounds how much of a rejected response is quoted in errors.
const maxErrorBody = 512

// WriteDocument posts one serialized graph document. A non-2xx response is an
// error that quotes the start of the response body.
func (w *Writer) WriteDocument(ctx context.Context, data []byte) error {
	req, err := w.newRequest(ctx, data)
	if err != nil {
		return err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post graph document to %s: %w", w.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: readErrorBody(resp.Body)}
	}
	io.Copy(io.Discard, resp.Body)

	logger.Debugf("Graph document posted: url=%s status=%d bytes=%d", w.url, resp.StatusCode, len(data))
	return nil
}

func (w *Writer) newRequest(ctx context.Context, data []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build graph request: %w", err)
	}
	req.ContentLength = int64(len(data))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// StatusError reports a response the endpoint did not accept.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("graph endpoint rejected document: %s", e.Status)
	}
	return fmt.Sprintf("graph endpoint rejected document: %s: %s", e.Status, e.Body)
}

func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	io.Copy(io.Discard, r)
	return strings.TrimSpace(string(body))
}

// Close releases HTTP resources.
func (w *Writer) Close() error {
	w.client.CloseIdleConnections()
	return nil
}
