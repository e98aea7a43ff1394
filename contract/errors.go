// Package contract contains the checks that a response must pass after it has been received:
// the failure types that distinguish each kind of check, and the field-level predicates that
// go beyond what a schema can express.
package contract

import (
	"fmt"

	"github.com/apitests/reqres-contract-tests/schema"
)

// TransportError means that no HTTP response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport failure: %s %s: %s", e.Method, e.URL, e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// StatusError means the response had a different status code than the scenario expects.
type StatusError struct {
	Expected int
	Actual   int
	Body     string
}

func (e StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("status mismatch: expected %d, got %d with body %s", e.Expected, e.Actual, truncate(e.Body, 200))
}

// SchemaError means the response body did not match its structural contract.
type SchemaError struct {
	Kind   schema.Kind
	Path   string
	Reason string
	Err    error
}

// NewSchemaError converts an error from the schema registry.
func NewSchemaError(kind schema.Kind, err error) SchemaError {
	se := SchemaError{Kind: kind, Reason: err.Error(), Err: err}
	if ve, ok := err.(*schema.ValidationError); ok {
		se.Path = ve.Path
		se.Reason = ve.Reason
	}
	return se
}

func (e SchemaError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("schema mismatch: %s at %s: %s", e.Kind, path, e.Reason)
}

func (e SchemaError) Unwrap() error {
	return e.Err
}

// PredicateError means a field value broke a business rule.
type PredicateError struct {
	Field     string
	Predicate string
	// Value is the raw JSON of the offending value, or empty if the field was missing.
	Value string
}

func (e PredicateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field check failed: %s should %s, but it is missing", e.Field, e.Predicate)
	}
	return fmt.Sprintf("field check failed: %s should %s, but it is %s", e.Field, e.Predicate, e.Value)
}
