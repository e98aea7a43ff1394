package reqrestests

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/apitests/reqres-contract-tests/contract"
	"github.com/apitests/reqres-contract-tests/fixtures"
	"github.com/apitests/reqres-contract-tests/framework"
	"github.com/apitests/reqres-contract-tests/schema"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/require"
)

type environment struct {
	harness  *framework.TestHarness
	registry *schema.Registry
	fixtures fixtures.Source
	clock    func() time.Time
}

// T represents a scenario or group of scenarios in the reqres test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, with per-scenario debug output provided by the framework
// package.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T. The Require methods of T apply the checks that every scenario shares; each
// one fails the scenario and exits immediately if its check does not pass, reporting which kind
// of check it was.
type T struct {
	context *framework.Context
	env     *environment
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

// Step runs part of a scenario under a descriptive name, for reporting.
func (t *T) Step(name string, action func()) {
	t.context.Step(name, action)
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) now() time.Time {
	return t.env.clock()
}

func (t *T) fail(err error) {
	t.context.Error(err)
}

func (t *T) failNow(err error) {
	t.context.Error(err)
	t.context.FailNow()
}

// Fixtures loads a fixture set, failing the test if it cannot be read.
func (t *T) Fixtures(name string) []ldvalue.Value {
	entries, err := t.env.fixtures.Load(name)
	require.NoError(t, err, "could not load fixture set %s", name)
	return entries
}

// Send issues one request and returns the response. A transport failure ends the test.
func (t *T) Send(req framework.Request) framework.Response {
	resp, err := t.env.harness.Do(context.Background(), req, t.context.DebugLogger())
	if err != nil {
		method := req.Method
		if method == "" {
			method = http.MethodGet
		}
		t.failNow(contract.TransportError{Method: method, URL: t.env.harness.URL(req), Err: err})
	}
	return resp
}

func (t *T) Get(path string, query url.Values) framework.Response {
	return t.Send(framework.Request{Method: http.MethodGet, Path: path, Query: query})
}

func (t *T) Post(path string, body ldvalue.Value) framework.Response {
	return t.Send(framework.Request{Method: http.MethodPost, Path: path, Body: body})
}

func (t *T) Put(path string, body ldvalue.Value) framework.Response {
	return t.Send(framework.Request{Method: http.MethodPut, Path: path, Body: body})
}

func (t *T) Patch(path string, body ldvalue.Value) framework.Response {
	return t.Send(framework.Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (t *T) Delete(path string) framework.Response {
	return t.Send(framework.Request{Method: http.MethodDelete, Path: path})
}

// RequireStatus ends the test if the response status is not the expected one.
func (t *T) RequireStatus(resp framework.Response, expected int) {
	if resp.Status != expected {
		t.failNow(contract.StatusError{Expected: expected, Actual: resp.Status, Body: string(resp.Body)})
	}
}

// RequireSchema ends the test unless the response body is JSON that matches the contract for
// the given kind. It returns the parsed body.
func (t *T) RequireSchema(resp framework.Response, kind schema.Kind) contract.Document {
	doc, err := contract.ParseDocument(resp.Body)
	if err != nil {
		t.failNow(contract.SchemaError{Kind: kind, Reason: err.Error(), Err: err})
	}
	if err := t.env.registry.ValidateJSON(doc.Raw(), kind); err != nil {
		t.failNow(contract.NewSchemaError(kind, err))
	}
	return doc
}

// RequireEmptyBody ends the test if the response has any body at all.
func (t *T) RequireEmptyBody(resp framework.Response) {
	require.Equal(t, "", string(resp.Body), "response body should be empty")
}

// Check applies field-level predicates. Every failing value is reported, and the test
// continues.
func (t *T) Check(doc contract.Document, predicates ...contract.Predicate) {
	for _, p := range predicates {
		t.Debug("checking that %s", p)
	}
	for _, err := range contract.Check(doc, predicates...) {
		t.fail(err)
	}
}
