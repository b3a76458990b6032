package retry

import (
	"errors"
	"io"
	"net/http"
	"time"
)

// Policy decides which outcomes are worth retrying when fetching assets from
// the external asset server.
type Policy struct {
	// ConnectFailure retries errors that look transient (temporary network
	// errors, unexpected EOF).
	ConnectFailure bool
	// ServerError retries any 5xx response.
	ServerError bool
	// StatusCodes retries these exact status codes in addition to the above.
	StatusCodes []int
}

// NewDefaultPolicy retries connect failures, 5xx responses and 429.
func NewDefaultPolicy() *Policy {
	return &Policy{
		ConnectFailure: true,
		ServerError:    true,
		StatusCodes:    []int{http.StatusTooManyRequests},
	}
}

func (p *Policy) ShouldRetryResponse(response *http.Response) bool {
	if p.ServerError && response.StatusCode >= 500 && response.StatusCode < 600 {
		return true
	}
	for _, code := range p.StatusCodes {
		if code == response.StatusCode {
			return true
		}
	}
	return false
}

func (p *Policy) ShouldRetryError(err error) bool {
	if !p.ConnectFailure {
		return false
	}
	type temporary interface{ Temporary() bool }
	var terr temporary
	return (errors.As(err, &terr) && terr.Temporary()) || errors.Is(err, io.EOF)
}

// Transport is an http.RoundTripper that retries per the policy, sleeping per
// the strategy between attempts. The zero value performs a single attempt
// against http.DefaultTransport.
type Transport struct {
	Base          http.RoundTripper
	RetryStrategy Strategy
	RetryOn       *Policy
}

func (t *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	var retryCount uint
	for {
		response, err := t.base().RoundTrip(request)

		sleep, exhausted := t.strategy().Sleep(retryCount)

		if err != nil {
			if exhausted || t.RetryOn == nil || !t.RetryOn.ShouldRetryError(err) {
				return nil, err
			}
		} else {
			if exhausted || t.RetryOn == nil || !t.RetryOn.ShouldRetryResponse(response) {
				return response, nil
			}
			// The connection can only be reused once the body is drained.
			_, _ = io.Copy(io.Discard, response.Body)
			_ = response.Body.Close()
		}

		timer := time.NewTimer(sleep)
		select {
		case <-request.Context().Done():
			timer.Stop()
			return nil, request.Context().Err()
		case <-timer.C:
		}
		retryCount++
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) strategy() Strategy {
	if t.RetryStrategy != nil {
		return t.RetryStrategy
	}
	return NewNever()
}
