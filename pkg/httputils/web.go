package httputils

import (
	"net/http"
	"time"

	"github.com/autobrr/autobrr/pkg/sharedhttp"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// rateLimitedTransport paces every request through a limiter before handing
// it to the underlying transport.
type rateLimitedTransport struct {
	limiter ratelimit.Limiter
	next    http.RoundTripper
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.limiter.Take()
	return t.next.RoundTrip(req)
}

// NewRetryableHttpClient returns a client that retries transient failures
// with backoff and paces requests through the provided rate limiter.
func NewRetryableHttpClient(timeout time.Duration, rl ratelimit.Limiter, log *logrus.Entry) *http.Client {
	retryableClient := retryablehttp.NewClient()
	retryableClient.RetryMax = 3
	retryableClient.RetryWaitMin = 1 * time.Second
	retryableClient.RetryWaitMax = 10 * time.Second
	retryableClient.HTTPClient.Timeout = timeout
	retryableClient.HTTPClient.Transport = sharedhttp.Transport
	retryableClient.Logger = log

	httpClient := retryableClient.StandardClient()
	httpClient.Timeout = timeout
	httpClient.Transport = &rateLimitedTransport{
		limiter: rl,
		next:    httpClient.Transport,
	}

	return httpClient
}
