package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/uomc/internal/cli/config"
	"github.com/leapstack-labs/uomc/internal/cli/output"
	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/parser"
	"github.com/spf13/cobra"
)

// stdinName is the input argument that reads definitions from stdin.
const stdinName = "-"

// ErrNoInputs is returned when neither arguments nor configuration name a
// definitions file.
var ErrNoInputs = errors.New("no definition files given (pass files or set inputs in uomc.yaml)")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Defaults()
}

// Inputs returns the definition files to compile: args when given,
// otherwise the configured inputs.
func (c *CommandContext) Inputs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(c.Cfg.Inputs) > 0 {
		return c.Cfg.Inputs, nil
	}
	return nil, ErrNoInputs
}

// Options returns parser options for a compilation into model.
func (c *CommandContext) Options(model *core.Model, source string) parser.Options {
	return parser.Options{
		Model:       model,
		Namespace:   c.Cfg.Namespace,
		UnitFormat:  c.Cfg.UnitFormat,
		ScaleFormat: c.Cfg.ScaleFormat,
		Source:      source,
		Logger:      c.Logger.With("source", source),
	}
}

// Compile parses every file into one model, in order. stdin is read for
// the "-" argument. The result holds everything accepted before a hard
// error.
func (c *CommandContext) Compile(files []string, stdin io.Reader) (*parser.Result, error) {
	model := core.NewModel()
	total := &parser.Result{Model: model}

	for _, path := range files {
		var (
			res *parser.Result
			err error
		)
		if path == stdinName {
			res, err = parser.Parse(stdin, c.Options(model, "<stdin>"))
		} else {
			res, err = parser.ParseFile(path, c.Options(model, path))
		}
		if res != nil {
			total.Diagnostics = append(total.Diagnostics, res.Diagnostics...)
		}
		if err != nil {
			return total, fmt.Errorf("%s: %w", path, err)
		}
		c.Logger.Debug("compiled definitions",
			"source", path,
			"units", len(model.Units),
			"scales", len(model.Scales),
		)
	}

	c.Logger.Info("compilation finished",
		"files", len(files),
		"units", len(model.Units),
		"scales", len(model.Scales),
		"errors", len(total.Diagnostics.Errors()),
		"warnings", len(total.Diagnostics.Warnings()),
	)
	return total, nil
}

// Failed reports whether diags should fail the command. Warnings count
// in strict mode.
func (c *CommandContext) Failed(diags core.Diagnostics) bool {
	if diags.HasErrors() {
		return true
	}
	return c.Cfg.Strict && len(diags.Warnings()) > 0
}
