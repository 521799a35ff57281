// Package lightroom talks to the vendor's two API surfaces: public share
// links and the authenticated per-account catalog. The API is undocumented
// and inconsistently shaped; everything fragile lives behind this package.
package lightroom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultWebBase   = "https://lightroom.adobe.com"
	defaultAPIDomain = "adobe.com"
	defaultUserAgent = "lrsync/1.0"
)

// Config holds the settings needed to create a vendor API client.
type Config struct {
	WebBase   string        // share page + API host, default lightroom.adobe.com
	APIKey    string        // vendor API key header value
	APIDomain string        // hosts allowed to receive the API key
	Delay     time.Duration // politeness delay before each request
	UserAgent string
}

// Client is a vendor API client. Rendition and listing calls retry with
// backoff; rendition generation is asynchronous on the vendor side and the
// most failure-prone path.
type Client struct {
	webBase   string
	webHost   string
	apiKey    string
	apiDomain string
	userAgent string
	delay     time.Duration

	http *retryablehttp.Client
	// bare client with redirects disabled, for private rendition resolution
	noRedirect *http.Client
}

// New creates a vendor API client with the given configuration.
func New(cfg Config) *Client {
	webBase := cfg.WebBase
	if webBase == "" {
		webBase = defaultWebBase
	}
	apiDomain := cfg.APIDomain
	if apiDomain == "" {
		apiDomain = defaultAPIDomain
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 8 * time.Second
	rc.HTTPClient.Timeout = 60 * time.Second
	rc.Logger = nil

	webBase = strings.TrimRight(webBase, "/")
	webHost := ""
	if u, err := url.Parse(webBase); err == nil {
		webHost = strings.ToLower(u.Hostname())
	}

	return &Client{
		webBase:   webBase,
		webHost:   webHost,
		apiKey:    cfg.APIKey,
		apiDomain: apiDomain,
		userAgent: userAgent,
		delay:     cfg.Delay,
		http:      rc,
		noRedirect: &http.Client{
			Timeout: 60 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// hostAllowed reports whether the API key and bearer token may be sent to the
// given URL. The configured web base host is always allowed (it is the vendor
// endpoint by definition, even when overridden); beyond that, hosts under the
// API domain qualify. Credentials must never leak to arbitrary third-party
// hosts such as redirect targets or the CDN serving rendition bytes.
func (c *Client) hostAllowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != "" && host == c.webHost {
		return true
	}
	return host == c.apiDomain || strings.HasSuffix(host, "."+c.apiDomain)
}

// setHeaders applies the standard headers, attaching the API key and bearer
// token only for vendor hosts.
func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")
	if !c.hostAllowed(req.URL.String()) {
		return
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// get fetches a URL and returns the raw body. token may be empty for public
// mode calls.
func (c *Client) get(ctx context.Context, rawURL, token string) ([]byte, error) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req.Request, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("request %s: status %d: %s", rawURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// getJSON fetches a vendor endpoint, strips the anti-script prefix, and
// decodes into v.
func (c *Client) getJSON(ctx context.Context, rawURL, token string, v any) error {
	body, err := c.get(ctx, rawURL, token)
	if err != nil {
		return err
	}
	return decodeVendorResponse(body, v)
}
