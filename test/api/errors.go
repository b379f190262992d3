/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError is returned when no HTTP response was obtained at all,
// e.g. DNS failure, connection refused or the request timing out.
type TransportError struct {
	Method  string
	Path    string
	TraceID string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure (trace ID: %s): %v", e.Method, e.Path, e.TraceID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a response body is not valid JSON,
// or does not decode into the expected shape.
type MalformedResponseError struct {
	Body []byte
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response body: %v, body: %s", e.Err, truncate(e.Body))
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a named field is absent from a response,
// or present with the wrong type.
type MissingFieldError struct {
	Field  string
	Reason string
}

func (e *MissingFieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("field %q %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("field %q not found in response", e.Field)
}

// StatusError is returned by the typed client helpers when the service replied
// with a status code outside the set the operation accepts.
type StatusError struct {
	Method   string
	Path     string
	Expected []int
	Actual   int
	Body     []byte
	TraceID  string
}

func (e *StatusError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, code := range e.Expected {
		expected[i] = fmt.Sprint(code)
	}

	return fmt.Sprintf("%s %s: unexpected status code: expected %s, got %d, body: %s (trace ID: %s)",
		e.Method, e.Path, strings.Join(expected, " or "), e.Actual, truncate(e.Body), e.TraceID)
}

// CleanupError records a failed best-effort deletion of a fixture.
// It is logged and handed back for inspection, never used to fail a test.
type CleanupError struct {
	ID  string
	Tag string
	Err error
}

func (e *CleanupError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("cleanup of pending fixture tagged %s failed: %v", e.Tag, e.Err)
	}

	return fmt.Sprintf("cleanup of object %s failed: %v", e.ID, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a StatusError carrying a 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError

	return errors.As(err, &statusErr) && statusErr.Actual == http.StatusNotFound
}

// IsTransport reports whether err originated from a transport failure.
func IsTransport(err error) bool {
	var transportErr *TransportError

	return errors.As(err, &transportErr)
}

const maxBodyInError = 512

func truncate(body []byte) string {
	if len(body) <= maxBodyInError {
		return string(body)
	}

	return string(body[:maxBodyInError]) + "..."
}
