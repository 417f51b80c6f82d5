// Package sina adapts the Sina Finance suggestion, listing, detail and document hosts.
package sina

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const maxPageBytes = 8 << 20

// Site describes the upstream endpoints and per-call timeouts.
type Site struct {
	SuggestURL    string
	ListBaseURL   string
	DetailBaseURL string
	Timeouts      Timeouts
}

// Timeouts bound each kind of outbound call.
type Timeouts struct {
	Suggest time.Duration
	Listing time.Duration
	Detail  time.Duration
	// PDF bounds the wait for response headers only; the body streams without a deadline.
	PDF time.Duration
}

// Client issues browser-like GET requests.
type Client struct {
	http           *http.Client
	userAgent      string
	acceptLanguage string
}

// NewClient wires an HTTP client; it must not carry a global Timeout since PDF bodies stream.
func NewClient(httpClient *http.Client, userAgent, acceptLanguage string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:           httpClient,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
	}
}

// GetPage fetches a page within timeout and decodes it from enc (nil means UTF-8).
func (c *Client) GetPage(ctx context.Context, rawURL string, timeout time.Duration, enc encoding.Encoding) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned %s", rawURL, resp.Status)
	}

	var reader io.Reader = io.LimitReader(resp.Body, maxPageBytes)
	if enc != nil {
		reader = transform.NewReader(reader, enc.NewDecoder())
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(body), nil
}

// Open starts a streaming GET. headerTimeout bounds the wait for response headers;
// the returned body releases the request context on Close.
func (c *Client) Open(ctx context.Context, rawURL, referer string, headerTimeout time.Duration) (*http.Response, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		cancel()
		return nil, err
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	var timer *time.Timer
	if headerTimeout > 0 {
		timer = time.AfterFunc(headerTimeout, cancel)
	}

	resp, err := c.http.Do(req)
	fired := timer != nil && !timer.Stop()
	if err != nil {
		cancel()
		if fired {
			return nil, errHeaderTimeout
		}
		return nil, fmt.Errorf("request document: %w", err)
	}
	if fired {
		resp.Body.Close()
		cancel()
		return nil, errHeaderTimeout
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

var errHeaderTimeout = errors.New("timed out waiting for response headers")

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}
	return req, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
