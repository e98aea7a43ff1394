package contract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// FreshnessLayout is the minute-precision form that timestamps are compared in.
const FreshnessLayout = "2006-01-02 15:04"

// Predicate is a rule about one or more values in a document.
type Predicate interface {
	// Check returns nil if the rule holds. Otherwise it returns one or more PredicateErrors,
	// combined with errors.Join when there are several.
	Check(doc Document) error
	String() string
}

// Check applies each predicate to the document and returns every failure, one error per
// offending value.
func Check(doc Document, predicates ...Predicate) []error {
	var ret []error
	for _, p := range predicates {
		ret = append(ret, flatten(p.Check(doc))...)
	}
	return ret
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var ret []error
		for _, e := range joined.Unwrap() {
			ret = append(ret, flatten(e)...)
		}
		return ret
	}
	return []error{err}
}

type fieldPredicate struct {
	field       string
	description string
	test        func(doc Document, v gjson.Result) bool
}

func (p fieldPredicate) Check(doc Document) error {
	v := doc.Get(p.field)
	if !v.Exists() {
		return PredicateError{Field: p.field, Predicate: p.description}
	}
	if !p.test(doc, v) {
		return PredicateError{Field: p.field, Predicate: p.description, Value: v.Raw}
	}
	return nil
}

func (p fieldPredicate) String() string {
	return p.field + " should " + p.description
}

// Equals requires a string field to have exactly the given value.
func Equals(field, want string) Predicate {
	return fieldPredicate{
		field:       field,
		description: "equal " + strconv.Quote(want),
		test: func(_ Document, v gjson.Result) bool {
			return v.Type == gjson.String && v.Str == want
		},
	}
}

// EqualsValue requires a field to hold the same JSON value as want. Types must match too, so
// the string "2" does not equal the number 2.
func EqualsValue(field string, want ldvalue.Value) Predicate {
	return valuePredicate{field: field, want: want}
}

type valuePredicate struct {
	field string
	want  ldvalue.Value
}

func (p valuePredicate) Check(doc Document) error {
	v, ok := doc.Lookup(p.field)
	if !ok {
		return PredicateError{Field: p.field, Predicate: p.description()}
	}
	if !v.Equal(p.want) {
		return PredicateError{Field: p.field, Predicate: p.description(), Value: v.JSONString()}
	}
	return nil
}

func (p valuePredicate) description() string {
	return "equal " + p.want.JSONString()
}

func (p valuePredicate) String() string {
	return p.field + " should " + p.description()
}

// HasPrefix requires a string field to start with prefix.
func HasPrefix(field, prefix string) Predicate {
	return fieldPredicate{
		field:       field,
		description: "start with " + strconv.Quote(prefix),
		test: func(_ Document, v gjson.Result) bool {
			return v.Type == gjson.String && strings.HasPrefix(v.Str, prefix)
		},
	}
}

// HasSuffix requires a string field to end with suffix.
func HasSuffix(field, suffix string) Predicate {
	return fieldPredicate{
		field:       field,
		description: "end with " + strconv.Quote(suffix),
		test: func(_ Document, v gjson.Result) bool {
			return v.Type == gjson.String && strings.HasSuffix(v.Str, suffix)
		},
	}
}

// HasSuffixFromField requires a string field to end with the value of another field in the
// same document followed by suffix. For instance, an avatar URL ending in "{id}-image.jpg".
func HasSuffixFromField(field, otherField, suffix string) Predicate {
	return fieldPredicate{
		field:       field,
		description: fmt.Sprintf("end with the value of %s followed by %q", otherField, suffix),
		test: func(doc Document, v gjson.Result) bool {
			other := doc.Get(otherField)
			if !other.Exists() || other.IsObject() || other.IsArray() {
				return false
			}
			return v.Type == gjson.String && strings.HasSuffix(v.Str, other.String()+suffix)
		},
	}
}

// AtLeast requires a numeric field to be greater than or equal to min.
func AtLeast(field string, min float64) Predicate {
	return fieldPredicate{
		field:       field,
		description: "be at least " + strconv.FormatFloat(min, 'f', -1, 64),
		test: func(_ Document, v gjson.Result) bool {
			return v.Type == gjson.Number && v.Num >= min
		},
	}
}

// IsInteger requires a field to be a JSON number with no fractional part.
func IsInteger(field string) Predicate {
	return fieldPredicate{
		field:       field,
		description: "be an integer",
		test: func(_ Document, v gjson.Result) bool {
			if v.Type != gjson.Number {
				return false
			}
			_, err := strconv.ParseInt(v.Raw, 10, 64)
			return err == nil
		},
	}
}

// IsArray requires a field to be a JSON array.
func IsArray(field string) Predicate {
	return fieldPredicate{
		field:       field,
		description: "be an array",
		test:        func(_ Document, v gjson.Result) bool { return v.IsArray() },
	}
}

// IsObject requires a field to be a JSON object.
func IsObject(field string) Predicate {
	return fieldPredicate{
		field:       field,
		description: "be an object",
		test:        func(_ Document, v gjson.Result) bool { return v.IsObject() },
	}
}

// IsFresh requires a timestamp field to fall in the same UTC minute as now(). The timestamp is
// compared as text: 'T' is replaced with a space and only the first 16 characters are used, so
// that "2026-10-19T12:30:42.123Z" becomes "2026-10-19 12:30".
func IsFresh(field string, now func() time.Time) Predicate {
	return freshPredicate{field: field, now: now}
}

type freshPredicate struct {
	field string
	now   func() time.Time
}

func (p freshPredicate) Check(doc Document) error {
	v := doc.Get(p.field)
	want := p.now().UTC().Format(FreshnessLayout)
	description := "be a timestamp in the current minute (" + want + " UTC)"
	if !v.Exists() {
		return PredicateError{Field: p.field, Predicate: description}
	}
	if v.Type != gjson.String || minuteOf(v.Str) != want {
		return PredicateError{Field: p.field, Predicate: description, Value: v.Raw}
	}
	return nil
}

func (p freshPredicate) String() string {
	return p.field + " should be a timestamp in the current minute"
}

func minuteOf(timestamp string) string {
	s := strings.Replace(timestamp, "T", " ", 1)
	if len(s) < len(FreshnessLayout) {
		return s
	}
	return s[:len(FreshnessLayout)]
}

// Each applies predicates to every element of an array field. Field names in the resulting
// errors include the element index, as in "data.3.year".
func Each(arrayField string, predicates ...Predicate) Predicate {
	return eachPredicate{field: arrayField, predicates: predicates}
}

type eachPredicate struct {
	field      string
	predicates []Predicate
}

func (p eachPredicate) Check(doc Document) error {
	arr := doc.Get(p.field)
	if !arr.IsArray() {
		return PredicateError{Field: p.field, Predicate: "be an array", Value: arr.Raw}
	}
	var errs []error
	for i, elem := range arr.Array() {
		elemDoc := Document{raw: []byte(elem.Raw)}
		prefix := fmt.Sprintf("%s.%d.", p.field, i)
		for _, err := range Check(elemDoc, p.predicates...) {
			var pe PredicateError
			if errors.As(err, &pe) {
				pe.Field = prefix + pe.Field
				err = pe
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p eachPredicate) String() string {
	parts := make([]string, 0, len(p.predicates))
	for _, pred := range p.predicates {
		parts = append(parts, pred.String())
	}
	return "each element of " + p.field + ": " + strings.Join(parts, "; ")
}
