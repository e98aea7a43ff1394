package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/apitests/reqres-contract-tests/config"
	"github.com/apitests/reqres-contract-tests/fixtures"
	"github.com/apitests/reqres-contract-tests/framework"
	"github.com/apitests/reqres-contract-tests/logging"
	"github.com/apitests/reqres-contract-tests/reqrestests"
	"github.com/apitests/reqres-contract-tests/schema"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args, os.Stderr) {
		return 2
	}

	logger := logging.New(os.Stderr, params.debugAll)

	if err := config.LoadDotEnv(params.envFile); err != nil {
		logger.Error("Could not load environment file", "error", err)
		return 1
	}
	cfg, err := config.Load(params.configPath, params.applyTo)
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		return 1
	}
	logger.Debug("Configuration loaded", "base_url", cfg.BaseURL, "fixtures_dir", cfg.FixturesDir,
		"timeout", cfg.Timeout)

	registry, err := schema.Default()
	if err != nil {
		logger.Error("Built-in response schemas are invalid", "error", err)
		return 1
	}
	logger.Debug("Response schemas loaded", "kinds", registry.Kinds())

	harness, err := framework.NewTestHarness(
		framework.HarnessConfig{
			BaseURL:      cfg.BaseURL,
			APIKeyHeader: cfg.APIKeyHeader,
			APIKey:       cfg.APIKey,
			UserAgent:    cfg.UserAgent,
			Timeout:      cfg.Timeout,
		},
		logging.NewPrintfLogger(logger, slog.LevelDebug),
		os.Stdout,
	)
	if err != nil {
		logger.Error("Service is not reachable", "url", cfg.BaseURL, "error", err)
		return 1
	}
	logger.Debug("Service is reachable", "base_url", harness.BaseURL())

	var source fixtures.Source = fixtures.Builtin()
	if cfg.FixturesDir != "" {
		source = fixtures.Layered(fixtures.Dir(cfg.FixturesDir), fixtures.Builtin())
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := reqrestests.RunTestSuite(
		reqrestests.SuiteConfig{Harness: harness, Registry: registry, Fixtures: source},
		params.filters.AsFilter,
		testLogger,
	)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Printf("\nTo run only the failed tests:\n  %s\n", params.rerunCommand(args[0], results.Failures))
		return 1
	}
	return 0
}
