package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/multierr"

	"github.com/thesisvault/backend/pkg/config"
	"github.com/thesisvault/backend/pkg/logger"
)

// Client resolves public object URLs for thesis PDFs. The upload tooling has
// historically written files under several bucket/folder spellings, so lookups
// probe every configured combination until one answers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	buckets    []string
	folders    []string
	logg       *logger.Logger
}

// ErrNotFound is returned when no configured bucket/folder combination holds
// the requested object.
var ErrNotFound = errors.New("storage object not found")

func New(cfg config.StorageConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("storage base url is required")
	}
	buckets := splitList(strings.Join(cfg.Buckets, ","))
	if len(buckets) == 0 {
		return nil, errors.New("at least one storage bucket is required")
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.HeadTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		buckets:    buckets,
		folders:    splitListKeepEmpty(strings.Join(cfg.Folders, ",")),
		logg:       logg,
	}, nil
}

// PublicURL builds the public object URL for a bucket/folder/file triple.
// An empty folder addresses the bucket root.
func (c *Client) PublicURL(bucket, folder, filename string) string {
	parts := []string{c.baseURL, "storage/v1/object/public", bucket}
	if folder != "" {
		parts = append(parts, folder)
	}
	parts = append(parts, url.PathEscape(filename))
	return strings.Join(parts, "/")
}

// Ping checks that the object store answers at all. Any HTTP status counts
// as reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/storage/v1/object/public", nil)
	if err != nil {
		return fmt.Errorf("building ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping storage: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Exists issues a HEAD request against the given public URL.
func (c *Client) Exists(ctx context.Context, objectURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, objectURL, nil)
	if err != nil {
		return false, fmt.Errorf("building head request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("head %s: %w", objectURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound ||
		resp.StatusCode == http.StatusBadRequest:
		// Supabase answers 400 for unknown buckets
		return false, nil
	default:
		return false, fmt.Errorf("head %s: unexpected status %d", objectURL, resp.StatusCode)
	}
}

// ResolvePDF probes every bucket/folder combination for the given filename and
// returns the first URL that answers. Probe transport failures are collected
// so a dependency outage is distinguishable from a genuinely missing file.
func (c *Client) ResolvePDF(ctx context.Context, filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", errors.New("filename is required")
	}

	var probeErrs error
	for _, bucket := range c.buckets {
		for _, folder := range c.folders {
			candidate := c.PublicURL(bucket, folder, filename)
			found, err := c.Exists(ctx, candidate)
			if err != nil {
				probeErrs = multierr.Append(probeErrs, err)
				continue
			}
			if found {
				return candidate, nil
			}
		}
	}

	if probeErrs != nil {
		return "", fmt.Errorf("resolving %q: %w", filename, probeErrs)
	}
	return "", fmt.Errorf("resolving %q: %w", filename, ErrNotFound)
}

// Candidates lists every URL ResolvePDF would probe, for diagnostics.
func (c *Client) Candidates(filename string) []string {
	urls := make([]string, 0, len(c.buckets)*len(c.folders))
	for _, bucket := range c.buckets {
		for _, folder := range c.folders {
			urls = append(urls, c.PublicURL(bucket, folder, filename))
		}
	}
	return urls
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// splitListKeepEmpty preserves empty entries, which address the bucket root.
func splitListKeepEmpty(value string) []string {
	if value == "" {
		return []string{""}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
