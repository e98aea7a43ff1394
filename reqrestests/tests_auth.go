package reqrestests

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/apitests/reqres-contract-tests/contract"
	"github.com/apitests/reqres-contract-tests/fixtures"
	"github.com/apitests/reqres-contract-tests/schema"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoAuthTests(t *T) {
	t.Run("successful registration", func(t *T) {
		forEachFixture(t, fixtures.RegisterUsers, func(t *T, body ldvalue.Value) {
			resp := t.Post(RegisterPath, body)
			t.RequireStatus(resp, http.StatusOK)
			t.RequireSchema(resp, schema.RegisteredUser)
		})
	})

	t.Run("successful login", func(t *T) {
		forEachFixture(t, fixtures.LoginUsers, func(t *T, body ldvalue.Value) {
			resp := t.Post(LoginPath, body)
			t.RequireStatus(resp, http.StatusOK)
			t.RequireSchema(resp, schema.LoginSuccess)
		})
	})

	t.Run("login without password", func(t *T) {
		forEachFixture(t, fixtures.LoginWithoutPassword, func(t *T, body ldvalue.Value) {
			resp := t.Post(LoginPath, body)
			t.RequireStatus(resp, http.StatusBadRequest)
			doc := t.RequireSchema(resp, schema.LoginError)

			t.Step("error explains that the password is missing", func() {
				t.Check(doc, contract.Equals("error", missingPasswordMessage))
			})
		})
	})
}

// forEachFixture runs the action as a separate subtest for each entry of a fixture set.
func forEachFixture(t *T, setName string, action func(*T, ldvalue.Value)) {
	for i, entry := range t.Fixtures(setName) {
		entry := entry
		t.Run(fixtureTestName(i, entry), func(t *T) {
			action(t, entry)
		})
	}
}

func fixtureTestName(index int, entry ldvalue.Value) string {
	name := fmt.Sprintf("entry %d", index+1)
	if email := entry.GetByKey("email").StringValue(); email != "" {
		name += " " + email
	}
	// slashes separate levels in test IDs
	return strings.ReplaceAll(name, "/", "_")
}
