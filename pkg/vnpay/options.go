package vnpay

import (
	"net/http"
	"time"
)

type Option func(*Client)

// HTTPClient replaces the HTTP client used for server-to-server requests.
func HTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// RequestTimeout bounds the server-to-server requests to the provider API.
func RequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// Location sets the timezone used for vnp_CreateDate timestamps. The
// provider expects merchant-local time.
func Location(loc *time.Location) Option {
	return func(c *Client) {
		c.loc = loc
	}
}

// Clock replaces the time source, used by tests for deterministic order
// references and create dates.
func Clock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// ServerIP sets the vnp_IpAddr value for server-to-server requests and for
// payment requests that carry no client address.
func ServerIP(ip string) Option {
	return func(c *Client) {
		c.serverIP = ip
	}
}
