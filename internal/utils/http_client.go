package utils

import "github.com/go-resty/resty/v2"

// HTTPClient embeds *resty.Client so callers get the full resty request
// API while the application keeps a single place to hang shared outbound
// HTTP behavior.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an HTTPClient with its own connection pool and
// default resty configuration.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
