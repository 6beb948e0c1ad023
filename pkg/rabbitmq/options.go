package rabbitmq

import "time"

type Option func(*Client)

// ConnAttempts sets the number of initial connection attempts before giving up.
func ConnAttempts(attempts int) Option {
	return func(c *Client) {
		c.connAttempts = attempts
	}
}

// BaseBackoff sets the first reconnect delay.
func BaseBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.baseBackoff = d
	}
}

// MaxBackoff caps the reconnect delay.
func MaxBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.maxBackoff = d
	}
}
