package reqrestests

import (
	"net/http"

	"github.com/apitests/reqres-contract-tests/contract"
	"github.com/apitests/reqres-contract-tests/schema"
)

func DoResourceTests(t *T) {
	t.Run("list resources", func(t *T) {
		resp := t.Get(ListResourcePath, nil)
		t.RequireStatus(resp, http.StatusOK)
		doc := t.RequireSchema(resp, schema.ResourceList)

		t.Step("page number is an integer and data is a list", func() {
			t.Check(doc, contract.IsInteger("page"), contract.IsArray("data"))
		})
		t.Step("every resource is recent and has a hex color", func() {
			t.Check(doc, contract.Each("data",
				contract.AtLeast("year", minimumResourceYear),
				contract.HasPrefix("color", colorPrefix),
			))
		})
	})

	t.Run("single resource", func(t *T) {
		resp := t.Get(SingleResourcePath, nil)
		t.RequireStatus(resp, http.StatusOK)
		doc := t.RequireSchema(resp, schema.SingleResource)

		t.Step("resource is recent and has a hex color", func() {
			t.Check(doc,
				contract.IsObject("data"),
				contract.AtLeast("data.year", minimumResourceYear),
				contract.HasPrefix("data.color", colorPrefix),
			)
		})
	})

	t.Run("single resource not found", func(t *T) {
		resp := t.Get(SingleResourceNotFoundPath, nil)
		t.RequireStatus(resp, http.StatusNotFound)
	})
}
