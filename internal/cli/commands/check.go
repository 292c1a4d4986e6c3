package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrCheckFailed is returned when checking found errors, or warnings in
// strict mode.
var ErrCheckFailed = errors.New("check failed")

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check definitions and report diagnostics",
		Long: `Compile definitions without printing the model. Every diagnostic is
reported with its source position. The command fails when an error was
found, or any warning when --strict is set.`,
		Example: `  # Check the configured inputs
  uomc check

  # Treat warnings as failures
  uomc check --strict si.uom`,
		RunE: runCheck,
	}
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	files, err := cc.Inputs(args)
	if err != nil {
		return err
	}

	res, compileErr := cc.Compile(files, cmd.InOrStdin())
	if err := cc.Renderer.RenderDiagnostics(res.Diagnostics); err != nil {
		return fmt.Errorf("failed to render diagnostics: %w", err)
	}
	if compileErr != nil {
		return compileErr
	}
	if cc.Failed(res.Diagnostics) {
		return ErrCheckFailed
	}
	return nil
}
