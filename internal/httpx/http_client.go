package httpx

import (
	"net/http"
	"time"
)

const DefaultTimeout = 60 * time.Second

var externalHTTPClient = &http.Client{
	Timeout: DefaultTimeout,
}

// ExternalHTTPClient is the client used for every outbound call (Redmine,
// Slack, Anthropic).
func ExternalHTTPClient() *http.Client {
	return externalHTTPClient
}

// ConfigureExternalHTTPClient sets the shared timeout. Non-positive values
// restore the default. It returns the timeout actually applied.
func ConfigureExternalHTTPClient(timeoutSeconds int) time.Duration {
	timeout := DefaultTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	externalHTTPClient.Timeout = timeout
	return timeout
}
