package framework

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	defaultRequestTimeout     = time.Second * 10
	defaultStatusQueryTimeout = time.Second * 10
	statusQueryInterval       = time.Millisecond * 100

	RequestIDHeader = "X-Request-Id"
)

// HarnessConfig describes the service under test and how to talk to it.
type HarnessConfig struct {
	// BaseURL is the absolute URL that request paths are resolved against.
	BaseURL string

	// APIKeyHeader and APIKey, if both are set, add an API key header to every request.
	APIKeyHeader string
	APIKey       string

	UserAgent string

	// Timeout bounds each request, including reading the response body.
	Timeout time.Duration

	// StatusQueryTimeout is how long NewTestHarness keeps trying to reach the service.
	StatusQueryTimeout time.Duration

	// HTTPClient defaults to a new http.Client.
	HTTPClient *http.Client
}

type TestHarness struct {
	baseURL    *url.URL
	headers    http.Header
	timeout    time.Duration
	httpClient *http.Client
	logger     Logger
}

// Request is one HTTP request to the service under test.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header

	// Body is sent as JSON unless it is null.
	Body ldvalue.Value
}

// Response is everything the harness captured from one HTTP response.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// NewTestHarness creates a TestHarness instance, and verifies that the service is responding
// by querying its base URL.
func NewTestHarness(
	config HarnessConfig,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if startupOutput == nil {
		startupOutput = io.Discard
	}

	baseURL, err := parseBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}

	h := &TestHarness{
		baseURL:    baseURL,
		headers:    make(http.Header),
		timeout:    config.Timeout,
		httpClient: config.HTTPClient,
		logger:     debugLogger,
	}
	if h.timeout <= 0 {
		h.timeout = defaultRequestTimeout
	}
	if h.httpClient == nil {
		h.httpClient = &http.Client{}
	}
	h.headers.Set("Accept", "application/json")
	if config.UserAgent != "" {
		h.headers.Set("User-Agent", config.UserAgent)
	}
	if config.APIKeyHeader != "" && config.APIKey != "" {
		h.headers.Set(config.APIKeyHeader, config.APIKey)
	}

	statusQueryTimeout := config.StatusQueryTimeout
	if statusQueryTimeout <= 0 {
		statusQueryTimeout = defaultStatusQueryTimeout
	}
	if err := h.queryServiceStatus(statusQueryTimeout, startupOutput); err != nil {
		return nil, err
	}

	return h, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be an absolute http or https URL", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// queryServiceStatus polls the base URL until the service answers. Any response other than
// a server error counts, since the root of an API is not required to return 200. On timeout
// the error describes the last probe that got as far as an answer or a connection failure.
func (h *TestHarness) queryServiceStatus(timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to service at %s", h.baseURL)

	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		fmt.Fprintf(output, ".")
		status, err := h.probe(deadline)
		if err == nil && status < 500 {
			fmt.Fprintln(output)
			h.logger.Printf("Status query to %s returned %d", h.baseURL, status)
			return nil
		}
		if err == nil {
			err = fmt.Errorf("service returned status code %d", status)
		}
		if lastErr == nil || !errors.Is(err, context.DeadlineExceeded) {
			lastErr = err
		}
		if !time.Now().Add(statusQueryInterval).Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", lastErr)
		}
		time.Sleep(statusQueryInterval)
	}
}

func (h *TestHarness) probe(deadline time.Time) (int, error) {
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL.String(), nil)
	if err != nil {
		return 0, err
	}
	for k, v := range h.headers {
		req.Header[k] = v
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

// BaseURL returns the URL that request paths are resolved against.
func (h *TestHarness) BaseURL() string {
	return h.baseURL.String()
}

// URL returns the absolute URL that the request will be sent to.
func (h *TestHarness) URL(req Request) string {
	ref := &url.URL{Path: strings.TrimPrefix(req.Path, "/")}
	if len(req.Query) > 0 {
		ref.RawQuery = req.Query.Encode()
	}
	return h.baseURL.ResolveReference(ref).String()
}

// Do sends the request and reads the whole response. It returns an error only if no HTTP
// response was received; any status code is a successful result as far as Do is concerned.
func (h *TestHarness) Do(ctx context.Context, req Request, logger Logger) (Response, error) {
	if logger == nil {
		logger = h.logger
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := h.URL(req)

	var data []byte
	var body io.Reader
	if !req.Body.IsNull() {
		data = []byte(req.Body.JSONString())
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Response{}, err
	}
	for k, v := range h.headers {
		httpReq.Header[k] = v
	}
	for k, v := range req.Headers {
		httpReq.Header[k] = v
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	logger.Printf("Sending %s %s (request ID %s)", method, target, requestID)
	if data != nil {
		logger.Printf("Request body: %s", string(data))
	}

	start := time.Now()
	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		logger.Printf("Request failed: %s", err)
		return Response{}, err
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)
	if err != nil {
		logger.Printf("Error reading response body: %s", err)
		return Response{}, fmt.Errorf("error reading response body: %w", err)
	}
	logger.Printf("Received status %d after %s: %s", resp.StatusCode, elapsed, string(respBody))

	return Response{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      respBody,
		RequestID: requestID,
	}, nil
}
