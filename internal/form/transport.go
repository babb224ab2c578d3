// internal/form/transport.go
//
// Contact form – outbound JSON POST.
//
// Context
//   A submission is one POST with a JSON body.  Any 2xx status is success.
//   Other statuses map to *ServerError and transport failures (timeout,
//   DNS, refused connection) map to *NetworkError.  The client never
//   retries: a retry could deliver the same lead twice.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Transport delivers a payload to an endpoint.
type Transport interface {
	Post(ctx context.Context, url string, payload map[string]string) error
}

// HTTPTransport is the resty-backed Transport.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport returns a Transport whose requests are capped at
// timeout.  The per-submit context deadline applies on top.
func NewHTTPTransport(timeout time.Duration, log *zap.SugaredLogger) *HTTPTransport {
	if log == nil {
		log = zap.S()
	}
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(log)
	return &HTTPTransport{client: c}
}

// Post sends payload as JSON to url.
func (t *HTTPTransport) Post(ctx context.Context, url string, payload map[string]string) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(url)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		return &ServerError{Status: code}
	}
	return nil
}
