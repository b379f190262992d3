/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
)

type APIClient struct {
	baseURL   string
	client    *http.Client
	authToken string
	apiKey    string
	config    *TestConfig
	endpoints *Endpoints
}

// NewAPIClient creates a client from the environment.  If baseURL is empty
// the configured one is used.
func NewAPIClient(baseURL string) (*APIClient, error) {
	config, err := LoadTestConfig()
	if err != nil {
		return nil, err
	}

	if baseURL == "" {
		baseURL = config.BaseURL
	}

	return newAPIClientWithConfig(config, baseURL), nil
}

func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	return newAPIClientWithConfig(config, config.BaseURL)
}

// common constructor logic.
func newAPIClientWithConfig(config *TestConfig, baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		authToken: config.AuthToken,
		apiKey:    config.APIKey,
		config:    config,
		endpoints: NewEndpoints(),
	}
}

func (c *APIClient) SetAuthToken(token string) {
	c.authToken = token
}

// BaseURL returns the URL all paths are resolved against.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Endpoints returns the path patterns used by the client.
func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, expected []int, resp *Response) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=%v got=%d body=%s trace=%s\n", method, path, expected, resp.StatusCode, truncate(resp.Body), resp.TraceID)
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", resp.TraceID)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

type requestOptions struct {
	body    interface{}
	hasBody bool
	headers http.Header
	query   url.Values
}

// RequestOption customises a single Send.
type RequestOption func(*requestOptions)

// WithJSONBody serialises body as the request payload.
func WithJSONBody(body interface{}) RequestOption {
	return func(o *requestOptions) {
		o.body = body
		o.hasBody = true
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Add(key, value)
	}
}

// WithQuery appends query parameters to the path.
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, values := range query {
			for _, v := range values {
				o.query.Add(k, v)
			}
		}
	}
}

//nolint:gochecknoglobals
var supportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

// Send issues exactly one request and returns whatever the service replied
// with.  Non-2xx statuses are not errors, only failing to get a response is,
// in which case a *TransportError is returned.
//
//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) Send(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	if !slices.Contains(supportedMethods, method) {
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	options := &requestOptions{
		headers: http.Header{},
		query:   url.Values{},
	}

	for _, o := range opts {
		o(options)
	}

	fullURL := c.baseURL + path
	if len(options.query) > 0 {
		fullURL += "?" + options.query.Encode()
	}

	var body io.Reader

	if options.hasBody {
		data, err := json.Marshal(options.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	for k, values := range options.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, &TransportError{Method: method, Path: path, TraceID: traceID, Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, traceParent, err, "reading response body")
		return nil, &TransportError{Method: method, Path: path, TraceID: traceID, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if c.config.LogRequests || c.config.DebugLogging {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if (c.config.LogResponses || c.config.DebugLogging) && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Header:     resp.Header,
		TraceID:    traceID,
		Duration:   duration,
	}, nil
}

// sendExpecting wraps Send and converts a status outside expected into a
// *StatusError.  The response is returned in both cases.
func (c *APIClient) sendExpecting(ctx context.Context, method, path string, expected []int, opts ...RequestOption) (*Response, error) {
	resp, err := c.Send(ctx, method, path, opts...)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(expected, resp.StatusCode) {
		c.logUnexpectedStatus(method, path, expected, resp)

		return resp, &StatusError{
			Method:   method,
			Path:     path,
			Expected: expected,
			Actual:   resp.StatusCode,
			Body:     resp.Body,
			TraceID:  resp.TraceID,
		}
	}

	return resp, nil
}

// ListObjects lists objects, optionally restricted to the given IDs.
func (c *APIClient) ListObjects(ctx context.Context, objectIDs ...string) ([]Object, error) {
	path := c.endpoints.ListObjects()

	resp, err := c.sendExpecting(ctx, http.MethodGet, path, []int{http.StatusOK}, WithQuery(c.endpoints.ListObjectsQuery(objectIDs...)))
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}

	objects, err := DecodeObjects(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling objects response: %w", err)
	}

	return objects, nil
}

// CreateObject creates a new object.  Both 200 and 201 are accepted as the
// public service replies 200 where a strict implementation would reply 201.
func (c *APIClient) CreateObject(ctx context.Context, object Object) (*Object, error) {
	path := c.endpoints.CreateObject()

	resp, err := c.sendExpecting(ctx, http.MethodPost, path, []int{http.StatusOK, http.StatusCreated}, WithJSONBody(object))
	if err != nil {
		return nil, fmt.Errorf("creating object: %w", err)
	}

	created, err := DecodeObject(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling object response: %w", err)
	}

	if created.ID == "" {
		return nil, fmt.Errorf("creating object: %w", &MissingFieldError{Field: "id"})
	}

	return created, nil
}

// GetObject retrieves a specific object.  A missing object is reported as a
// *StatusError for which IsNotFound is true.
func (c *APIClient) GetObject(ctx context.Context, objectID string) (*Object, error) {
	path := c.endpoints.GetObject(objectID)

	resp, err := c.sendExpecting(ctx, http.MethodGet, path, []int{http.StatusOK})
	if err != nil {
		return nil, fmt.Errorf("getting object %s: %w", objectID, err)
	}

	object, err := DecodeObject(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling object response: %w", err)
	}

	return object, nil
}

// UpdateObject replaces an object's name and data.
func (c *APIClient) UpdateObject(ctx context.Context, objectID string, object Object) (*Object, error) {
	path := c.endpoints.UpdateObject(objectID)

	// The ID is carried in the path only.
	object.ID = ""

	resp, err := c.sendExpecting(ctx, http.MethodPut, path, []int{http.StatusOK}, WithJSONBody(object))
	if err != nil {
		return nil, fmt.Errorf("updating object %s: %w", objectID, err)
	}

	updated, err := DecodeObject(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling object response: %w", err)
	}

	return updated, nil
}

// DeleteObject deletes an object and returns the status code the service
// replied with.  Deleting an object that does not exist is not an error.
func (c *APIClient) DeleteObject(ctx context.Context, objectID string) (int, error) {
	path := c.endpoints.DeleteObject(objectID)

	resp, err := c.sendExpecting(ctx, http.MethodDelete, path, []int{http.StatusOK, http.StatusNoContent, http.StatusNotFound})
	if err != nil {
		if resp != nil {
			return resp.StatusCode, fmt.Errorf("deleting object %s: %w", objectID, err)
		}

		return 0, fmt.Errorf("deleting object %s: %w", objectID, err)
	}

	return resp.StatusCode, nil
}
