package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/uomc/internal/cli/output"
	"github.com/spf13/cobra"
)

// ErrCompileFailed is returned when a compilation produced errors, or
// warnings in strict mode.
var ErrCompileFailed = errors.New("compilation failed")

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile definitions and print the resulting model",
		Long: `Compile one or more definition files into a single model and print its
units, scales, operations and families.

Files are compiled in order into the same namespace, so later files may
refer to units declared by earlier ones. Use "-" to read from stdin.`,
		Example: `  # Compile the configured inputs
  uomc compile

  # Compile two files as JSON
  uomc compile si.uom imperial.uom -o json`,
		RunE: runCompile,
	}
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	files, err := cc.Inputs(args)
	if err != nil {
		return err
	}

	res, err := cc.Compile(files, cmd.InOrStdin())
	if err != nil {
		cc.Renderer.PrintDiagnostics(res.Diagnostics)
		return err
	}

	rep := output.NewReport(res.Model, res.Diagnostics)
	if err := cc.Renderer.RenderReport(rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if cc.Failed(res.Diagnostics) {
		return fmt.Errorf("%w: %d error(s), %d warning(s)", ErrCompileFailed,
			len(res.Diagnostics.Errors()), len(res.Diagnostics.Warnings()))
	}
	return nil
}
