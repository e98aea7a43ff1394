package fixtures

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSetsAreArraysOfObjects(t *testing.T) {
	for _, name := range []string{RegisterUsers, LoginUsers, LoginWithoutPassword} {
		entries, err := Builtin().Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, entries, name)
	}
}

func TestBuiltinLoginWithoutPasswordHasNoPassword(t *testing.T) {
	entries, err := Builtin().Load(LoginWithoutPassword)
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, e.GetByKey("password").IsNull(), "entry %s", e.JSONString())
		assert.NotEmpty(t, e.GetByKey("email").StringValue())
	}
}

func TestLoadRejectsMalformedSets(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"object.json":   {Data: []byte(`{"email": "a"}`)},
		"scalars.json":  {Data: []byte(`[{"email": "a"}, 3]`)},
		"invalid.json":  {Data: []byte(`[`)},
		"empty.json":    {Data: []byte(`[]`)},
		"multiple.json": {Data: []byte(`[{"a": 1}, {"b": 2}]`)},
	})

	_, err := src.Load("object.json")
	assert.Error(t, err)
	_, err = src.Load("scalars.json")
	assert.ErrorContains(t, err, "entry 1")
	_, err = src.Load("invalid.json")
	assert.Error(t, err)
	_, err = src.Load("missing.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	entries, err := src.Load("empty.json")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = src.Load("multiple.json")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[1].GetByKey("b").IntValue())
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LoginUsers),
		[]byte(`[{"email": "janet.weaver@reqres.in", "password": "x"}]`), 0o600))

	entries, err := Dir(dir).Load(LoginUsers)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "janet.weaver@reqres.in", entries[0].GetByKey("email").StringValue())
}

func TestLayeredFallsBackOnlyForMissingSets(t *testing.T) {
	override := NewFSSource(fstest.MapFS{
		LoginUsers:    {Data: []byte(`[{"email": "override@reqres.in"}]`)},
		RegisterUsers: {Data: []byte(`not json`)},
	})
	src := Layered(override, Builtin())

	entries, err := src.Load(LoginUsers)
	require.NoError(t, err)
	assert.Equal(t, "override@reqres.in", entries[0].GetByKey("email").StringValue())

	entries, err = src.Load(LoginWithoutPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	_, err = src.Load(RegisterUsers)
	assert.Error(t, err, "a broken override is not silently replaced")

	_, err = src.Load("nothing.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
