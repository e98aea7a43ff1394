package contract

import (
	"errors"
	"testing"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Document {
	t.Helper()
	doc, err := ParseDocument([]byte(s))
	require.NoError(t, err)
	return doc
}

func requirePredicateErrors(t *testing.T, errs []error) []PredicateError {
	t.Helper()
	ret := make([]PredicateError, 0, len(errs))
	for _, err := range errs {
		var pe PredicateError
		require.True(t, errors.As(err, &pe), "expected PredicateError, got %T: %s", err, err)
		ret = append(ret, pe)
	}
	return ret
}

func TestEquals(t *testing.T) {
	doc := mustParse(t, `{"error": "Missing password", "n": 1}`)
	assert.Empty(t, Check(doc, Equals("error", "Missing password")))

	pes := requirePredicateErrors(t, Check(doc, Equals("error", "Missing email"), Equals("n", "1")))
	require.Len(t, pes, 2)
	assert.Equal(t, "error", pes[0].Field)
	assert.Equal(t, `"Missing password"`, pes[0].Value)
	assert.Equal(t, "n", pes[1].Field)
}

func TestHasPrefixAndSuffix(t *testing.T) {
	doc := mustParse(t, `{"color": "#C74375", "email": "janet.weaver@reqres.in"}`)
	assert.Empty(t, Check(doc, HasPrefix("color", "#"), HasSuffix("email", "reqres.in")))
	assert.Len(t, Check(doc, HasPrefix("email", "#"), HasSuffix("color", "reqres.in")), 2)
}

func TestMissingFieldIsReported(t *testing.T) {
	doc := mustParse(t, `{}`)
	pes := requirePredicateErrors(t, Check(doc, HasPrefix("color", "#")))
	require.Len(t, pes, 1)
	assert.Equal(t, "", pes[0].Value)
	assert.Contains(t, pes[0].Error(), "it is missing")
}

func TestAtLeast(t *testing.T) {
	doc := mustParse(t, `{"old": 1999, "new": 2000, "text": "2001"}`)
	assert.Empty(t, Check(doc, AtLeast("new", 2000)))
	pes := requirePredicateErrors(t, Check(doc, AtLeast("old", 2000), AtLeast("text", 2000)))
	require.Len(t, pes, 2)
	assert.Equal(t, "1999", pes[0].Value)
	assert.Equal(t, "field check failed: old should be at least 2000, but it is 1999", pes[0].Error())
}

func TestIsInteger(t *testing.T) {
	doc := mustParse(t, `{"page": 1, "half": 1.5, "text": "1"}`)
	assert.Empty(t, Check(doc, IsInteger("page")))
	assert.Len(t, Check(doc, IsInteger("half"), IsInteger("text")), 2)
}

func TestIsArrayAndIsObject(t *testing.T) {
	doc := mustParse(t, `{"data": [], "one": {}}`)
	assert.Empty(t, Check(doc, IsArray("data"), IsObject("one")))
	assert.Len(t, Check(doc, IsArray("one"), IsObject("data")), 2)
}

func TestHasSuffixFromField(t *testing.T) {
	doc := mustParse(t, `{"id": 2, "avatar": "https://reqres.in/img/faces/2-image.jpg"}`)
	assert.Empty(t, Check(doc, HasSuffixFromField("avatar", "id", "-image.jpg")))

	wrong := mustParse(t, `{"id": 3, "avatar": "https://reqres.in/img/faces/2-image.jpg"}`)
	assert.Len(t, Check(wrong, HasSuffixFromField("avatar", "id", "-image.jpg")), 1)

	noID := mustParse(t, `{"avatar": "https://reqres.in/img/faces/2-image.jpg"}`)
	assert.Len(t, Check(noID, HasSuffixFromField("avatar", "id", "-image.jpg")), 1)
}

func TestIsFresh(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 10, 19, 12, 30, 15, 0, time.UTC) }

	fresh := mustParse(t, `{"createdAt": "2026-10-19T12:30:59.999Z"}`)
	assert.Empty(t, Check(fresh, IsFresh("createdAt", now)))

	stale := mustParse(t, `{"createdAt": "2026-10-19T12:29:59.999Z"}`)
	pes := requirePredicateErrors(t, Check(stale, IsFresh("createdAt", now)))
	require.Len(t, pes, 1)
	assert.Contains(t, pes[0].Predicate, "2026-10-19 12:30")

	short := mustParse(t, `{"createdAt": "2026-10-19"}`)
	assert.Len(t, Check(short, IsFresh("createdAt", now)), 1)

	missing := mustParse(t, `{}`)
	assert.Len(t, Check(missing, IsFresh("createdAt", now)), 1)
}

func TestIsFreshComparesInUTC(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	now := func() time.Time { return time.Date(2026, 10, 19, 15, 30, 15, 0, zone) }
	doc := mustParse(t, `{"updatedAt": "2026-10-19T12:30:01.000Z"}`)
	assert.Empty(t, Check(doc, IsFresh("updatedAt", now)))
}

func TestEachReportsElementIndex(t *testing.T) {
	doc := mustParse(t, `{"data": [
		{"year": 2000, "color": "#98B2D1"},
		{"year": 1999, "color": "#C74375"},
		{"year": 2002, "color": "BF1932"}
	]}`)
	pes := requirePredicateErrors(t, Check(doc, Each("data", AtLeast("year", 2000), HasPrefix("color", "#"))))
	require.Len(t, pes, 2)
	assert.Equal(t, "data.1.year", pes[0].Field)
	assert.Equal(t, "data.2.color", pes[1].Field)
}

func TestEachOfNonArrayFails(t *testing.T) {
	doc := mustParse(t, `{"data": {}}`)
	pes := requirePredicateErrors(t, Check(doc, Each("data", AtLeast("year", 2000))))
	require.Len(t, pes, 1)
	assert.Equal(t, "data", pes[0].Field)
}

func TestEachOfEmptyArrayPasses(t *testing.T) {
	doc := mustParse(t, `{"data": []}`)
	assert.Empty(t, Check(doc, Each("data", AtLeast("year", 2000))))
}

func TestPredicateDescriptions(t *testing.T) {
	assert.Equal(t, `email should end with "reqres.in"`, HasSuffix("email", "reqres.in").String())
	assert.Equal(t, `each element of data: year should be at least 2000; color should start with "#"`,
		Each("data", AtLeast("year", 2000), HasPrefix("color", "#")).String())
}

func TestEqualsValue(t *testing.T) {
	doc := mustParse(t, `{"name": "morpheus", "id": "742", "count": 2, "data": [{"job": "leader"}]}`)

	assert.Empty(t, Check(doc,
		EqualsValue("name", ldvalue.String("morpheus")),
		EqualsValue("count", ldvalue.Int(2)),
		EqualsValue("data.0.job", ldvalue.String("leader")),
	))

	pes := requirePredicateErrors(t, Check(doc,
		EqualsValue("id", ldvalue.Int(742)),
		EqualsValue("job", ldvalue.String("leader")),
		EqualsValue("data.1.job", ldvalue.String("leader")),
	))
	require.Len(t, pes, 3)
	assert.Equal(t, "field check failed: id should equal 742, but it is \"742\"", pes[0].Error())
	assert.Equal(t, PredicateError{Field: "job", Predicate: `equal "leader"`}, pes[1])
	assert.Equal(t, "data.1.job", pes[2].Field)
	assert.Empty(t, pes[2].Value)
}

func TestLookup(t *testing.T) {
	doc := mustParse(t, `{"data": {"email": "a@reqres.in", "tags": [null, 3]}}`)

	v, ok := doc.Lookup("data.tags.0")
	assert.True(t, ok, "an explicit null is present")
	assert.True(t, v.IsNull())

	v, ok = doc.Lookup("data.tags.1")
	assert.True(t, ok)
	assert.Equal(t, 3, v.IntValue())

	for _, path := range []string{"data.name", "data.email.x", "data.tags.2", "data.tags.x"} {
		_, ok := doc.Lookup(path)
		assert.False(t, ok, path)
	}
}

func TestParseDocument(t *testing.T) {
	_, err := ParseDocument([]byte(`{"a":`))
	assert.Error(t, err)
	_, err = ParseDocument(nil)
	assert.Error(t, err)

	doc := mustParse(t, `{"data": {"email": "a@reqres.in"}}`)
	assert.Equal(t, "a@reqres.in", doc.Get("data.email").String())
	assert.Equal(t, "a@reqres.in", doc.Value().GetByKey("data").GetByKey("email").StringValue())
	assert.Equal(t, `{"data": {"email": "a@reqres.in"}}`, doc.String())
}
