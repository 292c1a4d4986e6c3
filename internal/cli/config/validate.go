package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/uomc/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var problems []string

	if !output.Mode(c.OutputFormat).IsValid() {
		modes := make([]string, 0, len(output.Modes()))
		for _, m := range output.Modes() {
			modes = append(modes, string(m))
		}
		problems = append(problems, fmt.Sprintf("output must be one of %s, got %q", strings.Join(modes, "|"), c.OutputFormat))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if !strings.Contains(c.UnitFormat, "%v") {
		problems = append(problems, fmt.Sprintf("unit_format %q has no %%v verb for the value", c.UnitFormat))
	}
	if !strings.Contains(c.ScaleFormat, "%v") {
		problems = append(problems, fmt.Sprintf("scale_format %q has no %%v verb for the value", c.ScaleFormat))
	}
	if strings.ContainsAny(c.Namespace, " \t;") {
		problems = append(problems, fmt.Sprintf("namespace %q is not a dotted identifier", c.Namespace))
	}
	if c.Watch.Debounce < 0 {
		problems = append(problems, "watch.debounce must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
