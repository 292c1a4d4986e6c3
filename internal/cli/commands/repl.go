package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/uomc/internal/cli/output"
	"github.com/leapstack-labs/uomc/pkg/core"
	"github.com/leapstack-labs/uomc/pkg/parser"
)

const (
	replPrompt         = "uomc> "
	replContinuePrompt = " ...> "
	replSource         = "<repl>"
)

// NewREPLCommand creates the interactive shell command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl [files...]",
		Short: "Declare and inspect units interactively",
		Long: `Start an interactive shell. Declarations typed at the prompt extend the
model; a declaration may span lines and ends with a semicolon. Files given
as arguments are compiled before the first prompt.

Type .help for the list of commands.`,
		RunE: runREPL,
	}
	cmd.Flags().String("history-file", "", "History file (default: .uomc_history)")
	return cmd
}

func runREPL(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	session := newREPLSession(cc)
	for _, path := range args {
		session.Load(path)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     cc.Cfg.REPL.HistoryFile,
		AutoComplete:    session.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "uomc interactive shell")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.Discard()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if session.Eval(line) {
			return nil
		}
		if session.Pending() {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

// replSession holds the state of an interactive shell: the model being
// extended and the declaration typed so far.
type replSession struct {
	cc     *CommandContext
	r      *output.Renderer
	model  *core.Model
	diags  core.Diagnostics
	buffer strings.Builder
}

func newREPLSession(cc *CommandContext) *replSession {
	return &replSession{
		cc:    cc,
		r:     cc.Renderer,
		model: core.NewModel(),
	}
}

// Pending reports whether an unterminated declaration is buffered.
func (s *replSession) Pending() bool { return s.buffer.Len() > 0 }

// Discard drops the buffered declaration.
func (s *replSession) Discard() { s.buffer.Reset() }

// Eval handles one input line. It returns true when the session should end.
func (s *replSession) Eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !s.Pending() && strings.HasPrefix(line, ".") {
		return s.command(strings.Fields(line))
	}

	// Accumulate declarations until semicolon
	s.buffer.WriteString(line)
	s.buffer.WriteString("\n")
	if !strings.HasSuffix(line, ";") {
		return false
	}
	src := s.buffer.String()
	s.buffer.Reset()
	s.declare(src)
	return false
}

// Load compiles a definitions file into the session model.
func (s *replSession) Load(path string) {
	before := s.counts()
	res, err := parser.ParseFile(path, s.cc.Options(s.model, path))
	s.finish(res, err, before)
}

func (s *replSession) declare(src string) {
	before := s.counts()
	res, err := parser.ParseString(src, s.cc.Options(s.model, replSource))
	s.finish(res, err, before)
}

func (s *replSession) finish(res *parser.Result, err error, before [2]int) {
	if res != nil {
		s.diags = append(s.diags, res.Diagnostics...)
		s.r.PrintDiagnostics(res.Diagnostics)
	}
	for _, u := range s.model.Units[before[0]:] {
		s.r.Success(fmt.Sprintf("unit %s: %s", u.QualifiedName(), u.Sense.Value))
	}
	for _, sc := range s.model.Scales[before[1]:] {
		s.r.Success(fmt.Sprintf("scale %s on %s", sc.QualifiedName(), sc.Unit.QualifiedName()))
	}
	if err != nil {
		s.r.Error(fmt.Sprintf("Error: %v", err))
	}
}

func (s *replSession) counts() [2]int {
	return [2]int{len(s.model.Units), len(s.model.Scales)}
}

func (s *replSession) command(parts []string) bool {
	command := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}
	rep := func() output.Report { return output.NewReport(s.model, nil) }

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.r.Writer())

	case ".units":
		s.r.RenderUnits(rep())

	case ".scales":
		s.r.RenderScales(rep())

	case ".ops":
		if arg == "" {
			if !s.r.RenderOperations(rep()) {
				s.r.Muted("no operations")
			}
			return false
		}
		u, ok := s.unit(arg)
		if !ok {
			return false
		}
		if len(u.Operations) == 0 {
			s.r.Muted("no operations")
		}
		for _, op := range u.Operations {
			s.r.Println(op.String())
		}

	case ".unit":
		if u, ok := s.unit(arg); ok {
			if err := s.r.RenderUnit(u); err != nil {
				s.r.Error(fmt.Sprintf("Error: %v", err))
			}
		}

	case ".family":
		s.family(arg)

	case ".diag":
		if err := s.r.RenderDiagnostics(s.diags); err != nil {
			s.r.Error(fmt.Sprintf("Error: %v", err))
		}

	case ".load":
		if arg == "" {
			s.r.Error("Usage: .load <file>")
			return false
		}
		s.Load(arg)

	case ".reset":
		s.model = core.NewModel()
		s.diags = nil
		s.r.Muted("model cleared")

	default:
		s.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (s *replSession) unit(name string) (*core.UnitType, bool) {
	if name == "" {
		s.r.Error("Usage: .unit <name>")
		return nil, false
	}
	u, ok := s.model.Unit(name)
	if !ok {
		if u, ok = s.model.UnitBySymbol(name); !ok {
			s.r.Error(fmt.Sprintf("unknown unit %s", name))
		}
	}
	return u, ok
}

func (s *replSession) family(name string) {
	if name == "" {
		s.r.Error("Usage: .family <name>")
		return
	}
	var members []string
	if sc, ok := s.model.Scale(name); ok {
		for _, rel := range sc.ScaleRelatives() {
			members = append(members, rel.QualifiedName())
		}
	} else if u, ok := s.unit(name); ok {
		for _, rel := range u.UnitRelatives() {
			members = append(members, rel.QualifiedName())
		}
	} else {
		return
	}
	s.r.Println(strings.Join(members, ", "))
}

// names lists every unit and scale name for completion.
func (s *replSession) names(string) []string {
	names := make([]string, 0, len(s.model.Units)+len(s.model.Scales))
	for _, u := range s.model.Units {
		names = append(names, u.QualifiedName())
	}
	for _, sc := range s.model.Scales {
		names = append(names, sc.QualifiedName())
	}
	sort.Strings(names)
	return names
}

func (s *replSession) completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".units"),
		readline.PcItem(".scales"),
		readline.PcItem(".ops", readline.PcItemDynamic(s.names)),
		readline.PcItem(".unit", readline.PcItemDynamic(s.names)),
		readline.PcItem(".family", readline.PcItemDynamic(s.names)),
		readline.PcItem(".diag"),
		readline.PcItem(".load"),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("unit"),
		readline.PcItem("scale"),
	)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .units           List all units
  .scales          List all scales
  .ops [unit]      Show derived operations, of one unit or all
  .unit <name>     Describe a unit (name or symbol)
  .family <name>   List the relatives of a unit or scale
  .diag            Show every diagnostic of the session
  .load <file>     Compile a definitions file into the session
  .reset           Start over with an empty model
  .quit / .exit    Exit the shell

Tips:
  - Declarations must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for unit and scale names
`
	_, _ = fmt.Fprintln(w, help)
}
