package reqrestests

import (
	"net/http"

	"github.com/apitests/reqres-contract-tests/contract"
	"github.com/apitests/reqres-contract-tests/framework"
	"github.com/apitests/reqres-contract-tests/schema"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func userBody(name, job string) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	if name != "" {
		b = b.Set("name", ldvalue.String(name))
	}
	if job != "" {
		b = b.Set("job", ldvalue.String(job))
	}
	return b.Build()
}

func DoUserDataTests(t *T) {
	createCases := []struct {
		name string
		body ldvalue.Value
	}{
		{"create user with name and job", userBody("morpheus", "leader")},
		{"create user without name", userBody("", "leader")},
		{"create user without job", userBody("morpheus", "")},
	}
	for _, c := range createCases {
		c := c
		t.Run(c.name, func(t *T) {
			resp := t.Post(CreateUserPath, c.body)
			t.RequireStatus(resp, http.StatusCreated)
			doc := t.RequireSchema(resp, schema.CreatedUser)

			t.Step("response repeats the submitted fields", func() {
				requireEchoedFields(t, c.body, doc)
			})
			t.Step("creation date is the current time", func() {
				t.Check(doc, contract.IsFresh("createdAt", t.now))
			})
		})
	}

	updateMethods := []struct {
		name string
		send func(*T, string, ldvalue.Value) framework.Response
	}{
		{"update user with PUT", (*T).Put},
		{"update user with PATCH", (*T).Patch},
	}
	for _, m := range updateMethods {
		m := m
		t.Run(m.name, func(t *T) {
			body := userBody("morpheus", "zion resident")
			resp := m.send(t, UpdateUserPath, body)
			t.RequireStatus(resp, http.StatusOK)
			doc := t.RequireSchema(resp, schema.UpdatedUser)

			t.Step("response repeats the submitted fields", func() {
				requireEchoedFields(t, body, doc)
			})
			t.Step("update date is the current time", func() {
				t.Check(doc, contract.IsFresh("updatedAt", t.now))
			})
		})
	}

	t.Run("delete user", func(t *T) {
		resp := t.Delete(DeleteUserPath)
		t.RequireStatus(resp, http.StatusNoContent)
		t.RequireEmptyBody(resp)
	})
}

func requireEchoedFields(t *T, sent ldvalue.Value, doc contract.Document) {
	var predicates []contract.Predicate
	for _, key := range sent.Keys() {
		predicates = append(predicates, contract.EqualsValue(key, sent.GetByKey(key)))
	}
	t.Check(doc, predicates...)
}
