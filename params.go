package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apitests/reqres-contract-tests/config"
	"github.com/apitests/reqres-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	configPath  string
	envFile     string
	baseURL     string
	apiKey      string
	fixturesDir string
	timeout     time.Duration
	filters     framework.RegexFilters
	debug       bool
	debugAll    bool

	// names of the flags that were given explicitly
	set map[string]bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.StringVar(&c.envFile, "env-file", ".env", "file of environment variables to load if it exists")
	fs.StringVar(&c.baseURL, "url", "", "base URL of the service under test (default "+config.DefaultBaseURL+")")
	fs.StringVar(&c.apiKey, "api-key", "", "API key to send with every request")
	fs.StringVar(&c.fixturesDir, "fixtures", "", "directory of fixture files that replace the built-in ones")
	fs.DurationVar(&c.timeout, "timeout", 0, "timeout for each request (default "+config.DefaultTimeout.String()+")")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	c.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.set[f.Name] = true })
	return true
}

// applyTo overrides the loaded settings with the flags that were given.
func (c *commandParams) applyTo(cfg *config.Config) {
	if c.set["url"] {
		cfg.BaseURL = c.baseURL
	}
	if c.set["api-key"] {
		cfg.APIKey = c.apiKey
	}
	if c.set["fixtures"] {
		cfg.FixturesDir = c.fixturesDir
	}
	if c.set["timeout"] {
		cfg.Timeout = c.timeout
	}
}

// rerunCommand returns a command line that runs only the failed tests, with the same settings
// as this run.
func (c *commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	if len(failures) == 0 {
		return ""
	}
	var b commandBuilder
	b.add(program)
	if c.set["config"] {
		b.add("-config", c.configPath)
	}
	if c.set["env-file"] {
		b.add("-env-file", c.envFile)
	}
	if c.set["url"] {
		b.add("-url", c.baseURL)
	}
	// -api-key is left out so that the key is not printed
	if c.set["fixtures"] {
		b.add("-fixtures", c.fixturesDir)
	}
	if c.set["timeout"] {
		b.add("-timeout", c.timeout.String())
	}
	for _, f := range failures {
		b.add("-run", framework.ExactMatchPattern(f.TestID))
	}
	b.add("-debug")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
