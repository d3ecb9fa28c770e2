package client

import "net/http"

// DefaultGatewayPort is the port the in-tunnel config service listens on.
const DefaultGatewayPort = 1337

type config struct {
	gatewayPort int
	httpClient  *http.Client
}

func newDefaultConfig() *config {
	return &config{
		gatewayPort: DefaultGatewayPort,
		httpClient:  &http.Client{},
	}
}

type Option func(*config)

// WithGatewayPort sets the port used to reach the gateway's config service.
func WithGatewayPort(port int) Option {
	return func(cfg *config) {
		cfg.gatewayPort = port
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = client
	}
}
