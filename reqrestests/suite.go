package reqrestests

import (
	"time"

	"github.com/apitests/reqres-contract-tests/fixtures"
	"github.com/apitests/reqres-contract-tests/framework"
	"github.com/apitests/reqres-contract-tests/schema"
)

// SuiteConfig holds the collaborators that the scenarios use.
type SuiteConfig struct {
	Harness *framework.TestHarness

	// Registry defaults to schema.Default().
	Registry *schema.Registry

	// Fixtures defaults to fixtures.Builtin().
	Fixtures fixtures.Source

	// Clock defaults to time.Now. Timestamps returned by the service are compared with it.
	Clock func() time.Time
}

func RunTestSuite(
	config SuiteConfig,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	env := &environment{
		harness:  config.Harness,
		registry: config.Registry,
		fixtures: config.Fixtures,
		clock:    config.Clock,
	}
	if env.registry == nil {
		registry, err := schema.Default()
		if err != nil {
			panic(err) // the built-in schemas are fixed at build time
		}
		env.registry = registry
	}
	if env.fixtures == nil {
		env.fixtures = fixtures.Builtin()
	}
	if env.clock == nil {
		env.clock = time.Now
	}

	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, env: env}

		t.Run("resources", DoResourceTests)
		t.Run("users", DoUserTests)
		t.Run("registration and login", DoAuthTests)
		t.Run("user data", DoUserDataTests)
	})
}
