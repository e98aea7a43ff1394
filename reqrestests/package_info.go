// Package reqrestests contains the reqres API contract scenarios and their supporting API.
//
// Test harness infrastructure that is not specific to this API, such as sending requests and
// recording results, is in the lower-level framework package. Structural contracts are in the
// schema package, and field-level rules are in the contract package.
package reqrestests
