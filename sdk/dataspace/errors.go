// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrNoPolicy is returned when a dataset carries no odrl policy.
	ErrNoPolicy = errors.New("dataset has no policy")
	// ErrMalformed marks a response body that could not be interpreted.
	ErrMalformed = errors.New("malformed response")
)

const excerptLimit = 512

// RemoteError reports a non-2xx status or an unreadable body from a
// management API call.
type RemoteError struct {
	Op         string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: connector responded with %d %s - %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Err, e.StatusCode)
	default:
		return fmt.Sprintf("%s: connector responded with %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

func (e *RemoteError) IsConflict() bool { return e.StatusCode == http.StatusConflict }

// NewRemoteError builds a RemoteError, extracting a message from EDC error
// bodies ([{"message": ...}] or {"message": ...} / {"error": ...}).
func NewRemoteError(op, url string, status int, body []byte) *RemoteError {
	return &RemoteError{
		Op:         op,
		URL:        url,
		StatusCode: status,
		Message:    errorMessage(body),
		Body:       body,
	}
}

func errorMessage(body []byte) string {
	var list []map[string]any
	if json.Unmarshal(body, &list) == nil {
		for _, m := range list {
			if msg, ok := m["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	var obj map[string]any
	if json.Unmarshal(body, &obj) == nil {
		for _, k := range []string{"message", "error", "errorDetail"} {
			if msg, ok := obj[k].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return ""
}

// NotFoundError is returned when no dataset in a provider catalog matches.
type NotFoundError struct {
	AssetID  string
	Provider string
	Scanned  int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asset %q not found in catalog of %s (%d datasets scanned)", e.AssetID, e.Provider, e.Scanned)
}

// NegotiationFailedError is returned when the connector reports a terminal failure state.
type NegotiationFailedError struct {
	NegotiationID string
	State         string
	Reason        string
}

func (e *NegotiationFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("negotiation %s ended in state %s", e.NegotiationID, e.State)
	}
	return fmt.Sprintf("negotiation %s ended in state %s: %s", e.NegotiationID, e.State, e.Reason)
}

// NegotiationTimeoutError is returned when no terminal state was reached in time.
// The negotiation may still complete on the connector; callers may retry.
type NegotiationTimeoutError struct {
	NegotiationID string
	LastState     string
	Attempts      int
	Elapsed       time.Duration
}

func (e *NegotiationTimeoutError) Error() string {
	return fmt.Sprintf("negotiation %s still %s after %d polls (%s)",
		e.NegotiationID, e.LastState, e.Attempts, e.Elapsed.Truncate(time.Millisecond))
}

// EdrTimeoutError is returned when no EDR for the agreement appeared in time.
type EdrTimeoutError struct {
	AgreementID string
	Attempts    int
	Elapsed     time.Duration
	LastErr     error
}

func (e *EdrTimeoutError) Error() string {
	msg := fmt.Sprintf("no EDR for agreement %s after %d polls (%s)",
		e.AgreementID, e.Attempts, e.Elapsed.Truncate(time.Millisecond))
	if e.LastErr != nil {
		msg += ": last error: " + e.LastErr.Error()
	}
	return msg
}

func (e *EdrTimeoutError) Unwrap() error { return e.LastErr }

// FetchError reports a failed data-plane download.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("fetch %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: status %d", e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Excerpt truncates b to at most n bytes for logs and error messages.
func Excerpt(b []byte, n int) string {
	if n <= 0 {
		n = excerptLimit
	}
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// IsRetryable reports whether a full workflow retry may succeed: polling
// timeouts and server-side failures.
func IsRetryable(err error) bool {
	var (
		nt *NegotiationTimeoutError
		et *EdrTimeoutError
		re *RemoteError
		fe *FetchError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return false
	case errors.As(err, &nt), errors.As(err, &et):
		return true
	case errors.As(err, &re):
		return re.StatusCode == 0 || re.StatusCode >= 500
	case errors.As(err, &fe):
		return fe.StatusCode == 0 || fe.StatusCode >= 500
	default:
		return false
	}
}
