package config

import (
	"fmt"

	"github.com/barrenmains/embed-report/pkg/errors"
	"github.com/barrenmains/embed-report/pkg/hooks"
)

// Validate checks the configuration eagerly, before any build runs.
// Malformed association values, unsafe names, and paths that escape the
// workspace are all rejected here rather than at archive time.
func (c *Config) Validate() error {
	if c.Project == "" {
		return errors.ConfigError("project must be set", nil)
	}
	if len(c.Targets) == 0 {
		return errors.ConfigError("at least one target must be configured", nil)
	}

	// Target construction runs the full per-target validation.
	seen := make(map[string]bool, len(c.Targets))
	for _, tc := range c.Targets {
		if seen[tc.Name] {
			return errors.ConfigError(fmt.Sprintf("duplicate target name %q", tc.Name), nil)
		}
		seen[tc.Name] = true
	}
	if _, err := c.BuildTargets(); err != nil {
		return err
	}

	for _, hc := range c.Hooks {
		if hc.Command == "" {
			return errors.ConfigError(fmt.Sprintf("hook %q: command must not be empty", hc.Name), nil)
		}
		if !hooks.ValidEvent(hc.Event) {
			return errors.ConfigError(fmt.Sprintf("hook %q: unknown event %q (want on_success or on_failure)", hc.Name, hc.Event), nil)
		}
	}

	switch c.Global.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.ConfigError(fmt.Sprintf("unknown log level %q", c.Global.LogLevel), nil)
	}

	return nil
}
