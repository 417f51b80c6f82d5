package sina

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"BulletinScraper/internal/ports"
)

// Downloader opens PDF documents on the attachment host.
type Downloader struct {
	client        *Client
	headerTimeout time.Duration
	logger        *slog.Logger
}

var _ ports.Downloader = (*Downloader)(nil)

// NewDownloader builds a streaming downloader; headerTimeout bounds the wait for headers.
func NewDownloader(client *Client, headerTimeout time.Duration, log *slog.Logger) *Downloader {
	return &Downloader{client: client, headerTimeout: headerTimeout, logger: log}
}

// Download opens the document, sending referer as the Referer header. Any status
// other than 200 is an error and the body is already closed.
func (d *Downloader) Download(ctx context.Context, rawURL, referer string) (*ports.Download, error) {
	resp, err := d.client.Open(ctx, rawURL, referer, d.headerTimeout)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("document host returned %s", resp.Status)
	}

	if d.logger != nil {
		d.logger.Debug("pdf stream opened", "url", rawURL, "content_length", resp.ContentLength)
	}
	return &ports.Download{Body: resp.Body, Size: resp.ContentLength}, nil
}
