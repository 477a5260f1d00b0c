package extract

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/utils"
)

const (
	// DefaultTimeout bounds a whole page fetch.
	DefaultTimeout = 3500 * time.Millisecond

	// DefaultMaxBytes caps how much of a page body is read.
	DefaultMaxBytes = 150 * 1024

	userAgent = "Mozilla/5.0 (compatible; curator-bot/1.0; +https://github.com/MrSnakeDoc/curator)"
)

// Fetcher retrieves pages for classification. Every fetch is bounded
// by a timeout and a byte cap so a single slow host cannot stall a
// batch run.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	log      logger.Logger
}

// NewFetcher builds a Fetcher. Zero timeout or maxBytes select the
// defaults.
func NewFetcher(timeout time.Duration, maxBytes int64, log logger.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext(ctx, network, addr)
			},
			TLSHandshakeTimeout: timeout,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			MaxIdleConnsPerHost: 2,
		},
	}

	return &Fetcher{
		client:   client,
		timeout:  timeout,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Fetch retrieves the page at rawURL and parses it into a TextBag.
// Callers are expected to treat an error as "no content" and keep
// going; the classifier degrades instead of failing.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*TextBag, error) {
	fctx, cancel := context.WithTimeout(ctx, f.timeout)

	req, err := http.NewRequestWithContext(fctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	body := &utils.CancelOnClose{ReadCloser: resp.Body, Cancel: cancel}
	defer func() {
		_ = body.CancelOnCloseFunc()
	}()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "text/plain") {
		return nil, fmt.Errorf("unsupported content type %q", ct)
	}

	bag := Parse(io.LimitReader(body, f.maxBytes))

	f.log.Debugf("fetched %s: title=%q headings=%d", rawURL, bag.Title, len(bag.Headings))
	return bag, nil
}
