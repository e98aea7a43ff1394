// Package schema holds the structural contracts for each response shape of the API, and
// validates JSON documents against them.
//
// A contract only says which properties are required and what JSON type each one has. Rules
// about values, such as ranges or string suffixes, are checked separately by the tests.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind is the logical name of a response shape. It is also the base name of the schema file.
type Kind string

const (
	ResourceItem   Kind = "resource_item"
	ResourceList   Kind = "resource_list"
	SingleResource Kind = "single_resource"
	UserRecord     Kind = "user_record"
	UserList       Kind = "user_list"
	SingleUser     Kind = "single_user"
	RegisteredUser Kind = "registered_user"
	LoginSuccess   Kind = "login_success"
	LoginError     Kind = "login_error"
	CreatedUser    Kind = "created_user"
	UpdatedUser    Kind = "updated_user"
)

// ErrUnknownKind is returned when validating against a kind the registry does not have.
var ErrUnknownKind = errors.New("unknown schema kind")

// schemaBaseURL only identifies schemas inside the compiler; nothing is fetched from it.
const schemaBaseURL = "https://schemas.reqres.local/"

//go:embed schemas/*.json
var builtinSchemas embed.FS

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Registry is a set of compiled schemas. It is immutable once created and safe for
// concurrent use.
type Registry struct {
	schemas map[Kind]*jsonschema.Schema
}

// ValidationError describes the first place where a document breaks its contract.
type ValidationError struct {
	Kind Kind
	// Path is a JSON pointer to the offending value; it is empty for the document root.
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("document does not match %s at %s: %s", e.Kind, path, e.Reason)
}

// Default returns the registry of built-in schemas, compiling it on first use.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(builtinSchemas, "schemas")
		if err != nil {
			defaultErr = err
			return
		}
		defaultRegistry, defaultErr = NewRegistry(sub)
	})
	return defaultRegistry, defaultErr
}

// NewRegistry compiles every *.json file at the top level of fsys. Schemas may refer to each
// other by file name with "$ref".
func NewRegistry(fsys fs.FS) (*Registry, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("no schema files found")
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", name, err)
		}
		if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("loading schema %s: %w", name, err)
		}
	}

	r := &Registry{schemas: make(map[Kind]*jsonschema.Schema, len(names))}
	for _, name := range names {
		s, err := compiler.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", name, err)
		}
		r.schemas[Kind(strings.TrimSuffix(name, ".json"))] = s
	}
	return r, nil
}

// Kinds returns the names of all schemas in the registry, sorted.
func (r *Registry) Kinds() []Kind {
	ret := make([]Kind, 0, len(r.schemas))
	for k := range r.schemas {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// Validate checks a decoded JSON value (as produced by encoding/json) against a schema.
// It returns a *ValidationError if the document does not match.
func (r *Registry) Validate(doc interface{}, kind Kind) error {
	s, ok := r.schemas[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	err := s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	leaf := firstLeafCause(ve)
	return &ValidationError{Kind: kind, Path: leaf.InstanceLocation, Reason: leaf.Message}
}

// ValidateJSON decodes data and validates it. Invalid JSON is reported as a *ValidationError
// at the document root.
func (r *Registry) ValidateJSON(data []byte, kind Kind) error {
	if _, ok := r.schemas[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return &ValidationError{Kind: kind, Reason: "invalid JSON: " + err.Error()}
	}
	if dec.More() {
		return &ValidationError{Kind: kind, Reason: "invalid JSON: unexpected data after top-level value"}
	}
	return r.Validate(doc, kind)
}

func firstLeafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
