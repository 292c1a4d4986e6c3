package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/uomc/pkg/dimension"
	"github.com/leapstack-labs/uomc/pkg/number"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and dimension limits",
		Long: `Display the uomc version together with the limits of the build:
the width of a dimension exponent field, the exponent range of every
magnitude, and the numeric kinds a unit may declare.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "uomc v%s\n", version)
			_, _ = fmt.Fprintf(out, "dimension: %d magnitudes, %d-bit exponents (%d..%d)\n",
				dimension.Count, dimension.FieldBits, dimension.MinExponent, dimension.MaxExponent)
			kinds := make([]string, 0, len(number.Kinds()))
			for _, k := range number.Kinds() {
				kinds = append(kinds, k.String())
			}
			_, _ = fmt.Fprintf(out, "numeric kinds: %s\n", strings.Join(kinds, ", "))
		},
	}
}
