package customHttpClient

import (
	"net/http"

	"github.com/adforge/briefapi/internal/config"
)

// Shared pooled transport so the render handoff and provider SDKs reuse
// connections instead of paying the TLS handshake per call.
var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

func PooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
