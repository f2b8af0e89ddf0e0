package httpx

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Client is a small wrapper around http.Client with tuned transport defaults
// shared by all upstream adapters. An optional proxy URL overrides the
// environment proxy.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// New builds a Client with the given per-call timeout and optional proxy.
func New(timeout time.Duration, proxyURL string) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: "sharkwatch/1.0",
	}
}

// Do sends the request with the default User-Agent applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return c.HTTP.Do(req)
}
