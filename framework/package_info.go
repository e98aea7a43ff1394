// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of API contract tests.
//
// The general model is:
//
// 1. The test harness talks to a live HTTP service at a configured base URL. Before any tests
// run, it checks that the service is reachable.
//
// 2. Each request made through the harness is a single synchronous round trip whose details
// are written to the debug output of the test that made it.
//
// 3. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for choosing the
// requests to send and the assertions to make, and for providing a domain-specific test API
// on top of the test context.
package framework
