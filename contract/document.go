package contract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Document is a JSON response body. It keeps the original bytes so that field lookups and
// error messages see exactly what the service sent.
type Document struct {
	raw []byte
}

// ParseDocument checks that data is a single well-formed JSON value.
func ParseDocument(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("response body is not valid JSON: %q", truncate(string(data), 200))
	}
	return Document{raw: data}, nil
}

// Raw returns the document bytes.
func (d Document) Raw() []byte {
	return d.raw
}

// Get looks up a value by gjson path, such as "data.email" or "data.#.year".
func (d Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Value returns the whole document as an ldvalue.Value.
func (d Document) Value() ldvalue.Value {
	var v ldvalue.Value
	if err := json.Unmarshal(d.raw, &v); err != nil {
		return ldvalue.Null()
	}
	return v
}

// Lookup finds a value by a dotted path of object keys and array indexes, such as
// "data.0.email". The second result is false if any element of the path is missing.
func (d Document) Lookup(path string) (ldvalue.Value, bool) {
	v := d.Value()
	if path == "" {
		return v, true
	}
	for _, element := range strings.Split(path, ".") {
		switch v.Type() {
		case ldvalue.ObjectType:
			if !hasKey(v, element) {
				return ldvalue.Null(), false
			}
			v = v.GetByKey(element)
		case ldvalue.ArrayType:
			i, err := strconv.Atoi(element)
			if err != nil || i < 0 || i >= v.Count() {
				return ldvalue.Null(), false
			}
			v = v.GetByIndex(i)
		default:
			return ldvalue.Null(), false
		}
	}
	return v, true
}

func hasKey(v ldvalue.Value, key string) bool {
	for _, k := range v.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func (d Document) String() string {
	return string(d.raw)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
