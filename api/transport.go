package api

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker wrapped around the HTTP
// transport.
type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings trips after five consecutive failures and probes
// again after thirty seconds.
func DefaultBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{
		Name:                name,
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// WithBreaker wraps the client's transport with a circuit breaker. Transport
// errors and 5xx responses count as failures; while the circuit is open every
// call fails fast with *NetworkError. Apply after WithHTTPClient so the
// breaker wraps the transport actually in use.
func WithBreaker(settings BreakerSettings) Option {
	return func(c *Client) {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = newBreakerTransport(base, settings)
	}
}

// errServerStatus marks a 5xx response as a breaker failure while keeping
// the response itself available to the caller.
var errServerStatus = errors.New("server status")

type breakerTransport struct {
	base http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

var _ http.RoundTripper = (*breakerTransport)(nil)

func newBreakerTransport(base http.RoundTripper, settings BreakerSettings) *breakerTransport {
	failures := settings.ConsecutiveFailures
	if failures == 0 {
		failures = DefaultBreakerSettings(settings.Name).ConsecutiveFailures
	}
	return &breakerTransport{
		base: base,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: settings.MaxRequests,
			Interval:    settings.Interval,
			Timeout:     settings.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
		}),
	}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.cb.Execute(func() (interface{}, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	// The failure is recorded against the breaker, but the response still
	// carries the backend's error detail and must reach the caller.
	if errors.Is(err, errServerStatus) {
		return result.(*http.Response), nil
	}
	if err != nil {
		return nil, err
	}
	return result.(*http.Response), nil
}
