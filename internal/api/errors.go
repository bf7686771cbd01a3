package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Veraticus/phonecdp/internal/common"
)

// APIError is returned for any non-2xx response. Its message is the detail
// the service supplied, or the bare status code when there was none.
type APIError struct {
	Detail     string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Detail
}

// newAPIError resolves the message for a failed response body. FastAPI sends
// either {"detail": "..."} or, for validation failures, a list of objects
// carrying "msg".
func newAPIError(status int, body []byte) *APIError {
	detail := ""
	if gjson.ValidBytes(body) {
		d := gjson.GetBytes(body, "detail")
		switch {
		case d.Type == gjson.String:
			detail = d.String()
		case d.IsArray():
			var msgs []string
			for _, m := range d.Get("#.msg").Array() {
				if s := m.String(); s != "" {
					msgs = append(msgs, s)
				}
			}
			detail = strings.Join(msgs, "; ")
		}
	}
	if detail == "" {
		detail = strconv.Itoa(status)
	}
	return &APIError{StatusCode: status, Detail: detail}
}

// TransportError is returned when no response reached the client.
type TransportError struct {
	Err    error
	Method string
	Path   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable marks transport failures and 5xx responses as retryable for
// common.WithRetry. Other errors are returned unchanged.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusInternalServerError {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}
