package entity

import (
	"errors"
	"fmt"
)

// Error kinds returned by a provider call. Skippable kinds are retried.
var (
	ErrTemporaryBlock    = errors.New("temporary block")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrForbidden         = errors.New("forbidden")
	ErrTimeout           = errors.New("timeout")
	ErrNotOK             = errors.New("response not ok")
	ErrMalformedResponse = errors.New("malformed response")
)

// RequestError is a classified failure of one provider call.
type RequestError struct {
	Kind       error
	StatusCode int
	URL        string
	Err        error
}

func (e *RequestError) Error() string {
	msg := e.Kind.Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.URL != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.URL)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ClassifyStatus maps an HTTP status code onto an error kind. 2xx returns nil.
func ClassifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == 430:
		return ErrTemporaryBlock
	case status == 429:
		return ErrTooManyRequests
	case status == 403, status == 401:
		return ErrForbidden
	case status == 504, status == 406:
		return ErrTimeout
	default:
		return ErrNotOK
	}
}

// IsSkippable reports whether err is a transient failure eligible for retry.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrTemporaryBlock) ||
		errors.Is(err, ErrTooManyRequests) ||
		errors.Is(err, ErrTimeout)
}

// KindName returns a short label for the error kind, used in logs and metrics.
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTemporaryBlock):
		return "temporary_block"
	case errors.Is(err, ErrTooManyRequests):
		return "too_many_requests"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	default:
		return "not_ok"
	}
}
