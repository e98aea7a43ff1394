package reqrestests

import (
	"net/http"
	"net/url"

	"github.com/apitests/reqres-contract-tests/contract"
	"github.com/apitests/reqres-contract-tests/schema"
)

func DoUserTests(t *T) {
	t.Run("list users", func(t *T) {
		resp := t.Get(ListUsersPath, url.Values{"page": {listUsersPage}})
		t.RequireStatus(resp, http.StatusOK)
		doc := t.RequireSchema(resp, schema.UserList)

		t.Step("every user has a reqres email and a matching avatar", func() {
			t.Check(doc, contract.Each("data",
				contract.HasSuffix("email", emailDomainSuffix),
				contract.HasSuffixFromField("avatar", "id", avatarSuffix),
			))
		})
	})

	t.Run("single user", func(t *T) {
		resp := t.Get(SingleUserPath, nil)
		t.RequireStatus(resp, http.StatusOK)
		doc := t.RequireSchema(resp, schema.SingleUser)

		t.Step("user has a reqres email and a matching avatar", func() {
			t.Check(doc,
				contract.HasSuffix("data.email", emailDomainSuffix),
				contract.HasSuffixFromField("data.avatar", "data.id", avatarSuffix),
			)
		})
	})

	t.Run("single user not found", func(t *T) {
		resp := t.Get(SingleUserNotFoundPath, nil)
		t.RequireStatus(resp, http.StatusNotFound)
	})
}
