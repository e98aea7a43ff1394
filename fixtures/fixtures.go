// Package fixtures loads the input data for parametrized scenarios. A fixture set is a JSON
// array of objects; each object is the input for one run of a scenario.
package fixtures

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Names of the fixture sets used by the test suite.
const (
	RegisterUsers        = "register_users.json"
	LoginUsers           = "login_users.json"
	LoginWithoutPassword = "login_users_without_password.json"
)

//go:embed data/*.json
var builtinData embed.FS

// Source provides fixture sets by name.
type Source interface {
	Load(name string) ([]ldvalue.Value, error)
}

// FSSource reads fixture sets from files in a file system.
type FSSource struct {
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Dir returns a source that reads fixture sets from a directory.
func Dir(path string) *FSSource {
	return NewFSSource(os.DirFS(path))
}

// Builtin returns the fixture sets compiled into the binary.
func Builtin() *FSSource {
	sub, err := fs.Sub(builtinData, "data")
	if err != nil {
		panic(err) // only possible if the embed pattern above is wrong
	}
	return NewFSSource(sub)
}

func (s *FSSource) Load(name string) ([]ldvalue.Value, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, err
	}
	var entries []ldvalue.Value
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("fixture set %s is not a JSON array: %w", name, err)
	}
	for i, e := range entries {
		if e.Type() != ldvalue.ObjectType {
			return nil, fmt.Errorf("fixture set %s: entry %d is %s, not an object", name, i, e.Type())
		}
	}
	return entries, nil
}

// Layered tries each source in order, moving on to the next only if a set does not exist.
func Layered(sources ...Source) Source {
	return layeredSource(sources)
}

type layeredSource []Source

func (l layeredSource) Load(name string) ([]ldvalue.Value, error) {
	for _, s := range l {
		entries, err := s.Load(name)
		if err == nil {
			return entries, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fixture set %s: %w", name, fs.ErrNotExist)
}
