package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/uomc/internal/cli/config"
	clitestutil "github.com/leapstack-labs/uomc/internal/cli/testutil"
	"github.com/leapstack-labs/uomc/internal/testutil"
	"github.com/leapstack-labs/uomc/pkg/core"
)

const siDefs = `
unit Meter "m" = <Length>;
unit Second "s" = <Time>;
unit MeterPerSec "m/s" = Meter / Second;
`

const imperialDefs = `
unit Foot "ft" = 0.3048 * Meter;
unit Inch "in" = Foot / 12;
`

func newTestContext(t *testing.T) (*CommandContext, *clitestutil.TestRenderer) {
	t.Helper()
	tr := clitestutil.NewTestRendererAuto()
	return &CommandContext{
		Cfg:      config.Defaults(),
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
	}, tr
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewCompileCommand(), "compile [files...]", nil},
		{NewCheckCommand(), "check [files...]", nil},
		{NewREPLCommand(), "repl [files...]", []string{"history-file"}},
		{NewWatchCommand(), "watch [files...]", []string{"debounce"}},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestCompileCommand(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "si.uom", siDefs)

	out, _, err := execute(t, NewCompileCommand(), "", path)
	require.NoError(t, err)

	assert.Contains(t, out, "# Units")
	assert.Contains(t, out, "| Meter")
	assert.Contains(t, out, "MeterPerSec = Meter / Second")
	assert.Contains(t, out, "**Units:** 3")
	clitestutil.AssertNoANSI(t, out)
}

func TestCompileCommand_Stdin(t *testing.T) {
	out, _, err := execute(t, NewCompileCommand(), siDefs, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "**Units:** 3")
}

func TestCompileCommand_Errors(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "bad.uom", siDefs+`unit Bad "b" = Furlong;`)

	out, _, err := execute(t, NewCompileCommand(), "", path)
	require.ErrorIs(t, err, ErrCompileFailed)
	assert.Contains(t, err.Error(), "1 error(s), 0 warning(s)")
	assert.Contains(t, out, `unknown unit "Furlong"`)
	assert.Contains(t, out, "**Units:** 3")
}

func TestCompileCommand_NoInputs(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, NewCompileCommand(), "")
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		defs    string
		wantErr error
		wantOut string
	}{
		{"clean", siDefs, nil, "no problems found"},
		{"warning", siDefs + `unit Accel "m/s2" = Meter / Second / Second;`, nil, "1 warning(s)"},
		{"error", siDefs + `unit Meter "mm" = <Length>;`, ErrCheckFailed, "1 error(s), 0 warning(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.name+".uom", tt.defs)
			out, _, err := execute(t, NewCheckCommand(), "", path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.wantOut)
			assert.NotContains(t, out, "# Units")
		})
	}
}

func TestCommandContext_Inputs(t *testing.T) {
	cc, _ := newTestContext(t)

	_, err := cc.Inputs(nil)
	require.ErrorIs(t, err, ErrNoInputs)

	cc.Cfg.Inputs = []string{"a.uom"}
	files, err := cc.Inputs(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.uom"}, files)

	files, err = cc.Inputs([]string{"b.uom"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.uom"}, files)
}

func TestCommandContext_Failed(t *testing.T) {
	warning := core.Diagnostic{Severity: core.SeverityWarning, Message: "w"}
	failure := core.Diagnostic{Severity: core.SeverityError, Message: "e"}
	tests := []struct {
		name   string
		strict bool
		diags  core.Diagnostics
		want   bool
	}{
		{"none", false, nil, false},
		{"warning", false, core.Diagnostics{warning}, false},
		{"warning strict", true, core.Diagnostics{warning}, true},
		{"error", false, core.Diagnostics{warning, failure}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, _ := newTestContext(t)
			cc.Cfg.Strict = tt.strict
			assert.Equal(t, tt.want, cc.Failed(tt.diags))
		})
	}
}

func TestCompile_FilesShareModel(t *testing.T) {
	dir := t.TempDir()
	si := testutil.WriteFile(t, dir, "si.uom", siDefs)
	imperial := testutil.WriteFile(t, dir, "imperial.uom", imperialDefs)

	cc, _ := newTestContext(t)
	cc.Cfg.Namespace = "Units"
	res, err := cc.Compile([]string{si, imperial}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	inch, ok := res.Model.Unit("Inch")
	require.True(t, ok)
	assert.Equal(t, "Units.Inch", inch.QualifiedName())
	assert.Equal(t, "Units.Meter", inch.Family().QualifiedName())
}

func TestCompile_OrderMatters(t *testing.T) {
	dir := t.TempDir()
	si := testutil.WriteFile(t, dir, "si.uom", siDefs)
	imperial := testutil.WriteFile(t, dir, "imperial.uom", imperialDefs)

	cc, _ := newTestContext(t)
	res, err := cc.Compile([]string{imperial, si}, nil)
	require.NoError(t, err)
	require.True(t, res.Diagnostics.HasErrors())
	assert.Equal(t, imperial, res.Diagnostics[0].Source)
	_, ok := res.Model.Unit("Foot")
	assert.False(t, ok)
}

func TestCompile_MissingFile(t *testing.T) {
	dir := t.TempDir()
	si := testutil.WriteFile(t, dir, "si.uom", siDefs)
	missing := dir + "/missing.uom"

	cc, _ := newTestContext(t)
	res, err := cc.Compile([]string{si, missing}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.uom")
	require.NotNil(t, res)
	assert.Len(t, res.Model.Units, 3)
}
