package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/uomc/pkg/core"
)

// Report is the display form of a compiled model.
type Report struct {
	Units       []UnitInfo       `json:"units" yaml:"units"`
	Scales      []ScaleInfo      `json:"scales" yaml:"scales"`
	Families    []FamilyInfo     `json:"families" yaml:"families"`
	Diagnostics []DiagnosticInfo `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// UnitInfo describes one unit.
type UnitInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       string   `json:"kind" yaml:"kind"`
	Symbols    []string `json:"symbols" yaml:"symbols"`
	Format     string   `json:"format" yaml:"format"`
	Dimension  string   `json:"dimension" yaml:"dimension"`
	Sense      string   `json:"sense" yaml:"sense"`
	Factor     string   `json:"factor" yaml:"factor"`
	FactorCode string   `json:"factor_code" yaml:"factor_code"`
	Exact      bool     `json:"exact" yaml:"exact"`
	Family     string   `json:"family" yaml:"family"`
	Operations []string `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// ScaleInfo describes one scale.
type ScaleInfo struct {
	Name       string `json:"name" yaml:"name"`
	Unit       string `json:"unit" yaml:"unit"`
	RefPoint   string `json:"refpoint" yaml:"refpoint"`
	Format     string `json:"format" yaml:"format"`
	Offset     string `json:"offset" yaml:"offset"`
	OffsetCode string `json:"offset_code" yaml:"offset_code"`
	Exact      bool   `json:"exact" yaml:"exact"`
	Family     string `json:"family" yaml:"family"`
}

// FamilyInfo lists the members of a family, prime first.
type FamilyInfo struct {
	Prime   string   `json:"prime" yaml:"prime"`
	Kind    string   `json:"kind" yaml:"kind"` // unit or scale
	Members []string `json:"members" yaml:"members"`
}

// DiagnosticInfo is the display form of a diagnostic.
type DiagnosticInfo struct {
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
}

// NewReport builds the report of a model and its diagnostics.
func NewReport(m *core.Model, diags core.Diagnostics) Report {
	rep := Report{
		Units:       make([]UnitInfo, 0, len(m.Units)),
		Scales:      make([]ScaleInfo, 0, len(m.Scales)),
		Families:    []FamilyInfo{},
		Diagnostics: NewDiagnosticInfos(diags),
	}
	for _, u := range m.Units {
		rep.Units = append(rep.Units, NewUnitInfo(u))
	}
	for _, s := range m.Scales {
		rep.Scales = append(rep.Scales, ScaleInfo{
			Name:       s.QualifiedName(),
			Unit:       s.Unit.QualifiedName(),
			RefPoint:   s.RefPoint,
			Format:     s.Format,
			Offset:     s.Offset.Value.Code(),
			OffsetCode: s.Offset.Code,
			Exact:      s.Offset.IsTrueValue,
			Family:     s.Family().QualifiedName(),
		})
	}
	for _, f := range m.Families() {
		rep.Families = append(rep.Families, unitFamily(f))
	}
	rep.Families = append(rep.Families, scaleFamilies(m.Scales)...)
	return rep
}

// NewUnitInfo describes a single unit.
func NewUnitInfo(u *core.UnitType) UnitInfo {
	info := UnitInfo{
		Name:       u.QualifiedName(),
		Kind:       u.Kind.String(),
		Symbols:    append([]string(nil), u.Tags...),
		Format:     u.Format,
		Dimension:  u.Sense.Value.String(),
		Sense:      u.Sense.Code,
		Factor:     u.Factor.Value.Code(),
		FactorCode: u.Factor.Code,
		Exact:      u.Factor.IsTrueValue,
		Family:     u.Family().QualifiedName(),
	}
	for _, op := range u.Operations {
		info.Operations = append(info.Operations, op.String())
	}
	return info
}

// NewDiagnosticInfos converts diagnostics for display.
func NewDiagnosticInfos(diags core.Diagnostics) []DiagnosticInfo {
	if len(diags) == 0 {
		return nil
	}
	infos := make([]DiagnosticInfo, len(diags))
	for i, d := range diags {
		infos[i] = DiagnosticInfo{
			Source:   d.Source,
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Severity: d.Severity.String(),
			Message:  d.Message,
			Token:    d.Token,
		}
	}
	return infos
}

func unitFamily(units []*core.UnitType) FamilyInfo {
	f := FamilyInfo{Prime: units[0].Family().QualifiedName(), Kind: "unit"}
	for _, u := range units {
		f.Members = append(f.Members, u.QualifiedName())
	}
	return f
}

func scaleFamilies(scales []*core.ScaleType) []FamilyInfo {
	var families []FamilyInfo
	index := make(map[core.Measure]int)
	for _, s := range scales {
		i, ok := index[s.Family()]
		if !ok {
			i = len(families)
			index[s.Family()] = i
			families = append(families, FamilyInfo{Prime: s.Family().QualifiedName(), Kind: "scale"})
		}
		families[i].Members = append(families[i].Members, s.QualifiedName())
	}
	return families
}

// RenderReport writes a model report in the effective mode.
func (r *Renderer) RenderReport(rep Report) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(rep)
	case ModeYAML:
		return r.YAML(rep)
	}

	r.RenderUnits(rep)
	if len(rep.Scales) > 0 {
		r.Println()
		r.RenderScales(rep)
	}
	if countOperations(rep.Units) > 0 {
		r.Println()
		r.RenderOperations(rep)
	}
	r.Println()
	r.RenderFamilies(rep)
	if len(rep.Diagnostics) > 0 {
		r.Println()
		r.Header(1, "Diagnostics")
		r.renderDiagnostics(rep.Diagnostics)
	}
	r.Println()
	r.renderSummary(rep)
	return nil
}

// RenderUnits writes the unit table.
func (r *Renderer) RenderUnits(rep Report) {
	r.Header(1, "Units")
	r.renderTable(unitTable(rep.Units))
}

// RenderScales writes the scale table.
func (r *Renderer) RenderScales(rep Report) {
	r.Header(1, "Scales")
	r.renderTable(scaleTable(rep.Scales))
}

// RenderOperations writes the operation table. It writes nothing and
// returns false when no unit has operations.
func (r *Renderer) RenderOperations(rep Report) bool {
	if countOperations(rep.Units) == 0 {
		return false
	}
	r.Header(1, "Operations")
	r.renderTable(operationTable(rep.Units))
	return true
}

// RenderFamilies writes one line per family.
func (r *Renderer) RenderFamilies(rep Report) {
	r.Header(1, "Families")
	for _, f := range rep.Families {
		r.renderFamily(f)
	}
}

// PrintDiagnostics writes diagnostics one per line, without a summary.
func (r *Renderer) PrintDiagnostics(diags core.Diagnostics) {
	r.renderDiagnostics(NewDiagnosticInfos(diags))
}

// RenderDiagnostics writes diagnostics only, followed by a summary line.
func (r *Renderer) RenderDiagnostics(diags core.Diagnostics) error {
	infos := NewDiagnosticInfos(diags)
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(diagnosticsDoc{Diagnostics: infos})
	case ModeYAML:
		return r.YAML(diagnosticsDoc{Diagnostics: infos})
	}
	r.renderDiagnostics(infos)
	errs, warns := len(diags.Errors()), len(diags.Warnings())
	switch {
	case errs > 0:
		r.Println(r.styles.Error.Render(fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)))
	case warns > 0:
		r.Println(r.styles.Warning.Render(fmt.Sprintf("%d warning(s)", warns)))
	default:
		r.Success("no problems found")
	}
	return nil
}

type diagnosticsDoc struct {
	Diagnostics []DiagnosticInfo `json:"diagnostics" yaml:"diagnostics"`
}

// RenderUnit writes a single unit with its relatives and operations.
func (r *Renderer) RenderUnit(u *core.UnitType) error {
	info := NewUnitInfo(u)
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(info)
	case ModeYAML:
		return r.YAML(info)
	}
	md := r.EffectiveMode() == ModeMarkdown
	r.Header(2, info.Name)
	kv := func(k, v string) {
		if md {
			r.Println(FormatKeyValue(k, v) + "  ")
			return
		}
		r.Printf("%s %s\n", r.styles.Bold.Render(k+":"), v)
	}
	kv("Kind", info.Kind)
	kv("Symbols", strings.Join(info.Symbols, ", "))
	kv("Dimension", info.Dimension)
	kv("Factor", info.Factor+" ("+info.FactorCode+")")
	var relatives []string
	for _, rel := range u.UnitRelatives() {
		relatives = append(relatives, rel.QualifiedName())
	}
	kv("Family", strings.Join(relatives, ", "))
	if len(info.Operations) == 0 {
		return nil
	}
	r.Println()
	if md {
		r.Println(FormatList(info.Operations))
		return nil
	}
	for _, op := range info.Operations {
		r.Println("  " + op)
	}
	return nil
}

func (r *Renderer) renderTable(t table.Writer) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return
	}
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
}

func unitTable(units []UnitInfo) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Unit", "Symbols", "Kind", "Dimension", "Factor", "Family"})
	for _, u := range units {
		factor := u.FactorCode
		if u.Exact && u.Factor != u.FactorCode {
			factor = u.Factor + " = " + u.FactorCode
		}
		t.AppendRow(table.Row{u.Name, strings.Join(u.Symbols, " "), u.Kind, u.Dimension, factor, u.Family})
	}
	return t
}

func scaleTable(scales []ScaleInfo) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Scale", "Unit", "RefPoint", "Offset", "Family"})
	for _, s := range scales {
		t.AppendRow(table.Row{s.Name, s.Unit, s.RefPoint, s.OffsetCode, s.Family})
	}
	return t
}

func operationTable(units []UnitInfo) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Unit", "Operation"})
	for _, u := range units {
		for _, op := range u.Operations {
			t.AppendRow(table.Row{u.Name, op})
		}
	}
	return t
}

func (r *Renderer) renderFamily(f FamilyInfo) {
	members := strings.Join(f.Members, ", ")
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("- %s %s: %s\n", f.Kind, f.Prime, members)
		return
	}
	r.Printf("  %s %s: %s\n", r.styles.Muted.Render(f.Kind), r.styles.Name.Render(f.Prime), members)
}

func (r *Renderer) renderDiagnostics(diags []DiagnosticInfo) {
	for _, d := range diags {
		loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
		if d.Source != "" {
			loc = d.Source + ":" + loc
		}
		sev, _ := core.ParseSeverity(d.Severity)
		line := fmt.Sprintf("%s: %s: %s", loc, r.styles.Severity(sev).Render(d.Severity), d.Message)
		if d.Token != "" {
			line += r.styles.Muted.Render(fmt.Sprintf(" (near %q)", d.Token))
		}
		if r.EffectiveMode() == ModeMarkdown {
			line = "- " + line
		}
		r.Println(line)
	}
}

func (r *Renderer) renderSummary(rep Report) {
	ops := countOperations(rep.Units)
	summary := []string{
		FormatKeyValue("Units", fmt.Sprintf("%d", len(rep.Units))),
		FormatKeyValue("Scales", fmt.Sprintf("%d", len(rep.Scales))),
		FormatKeyValue("Operations", fmt.Sprintf("%d", ops)),
	}
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(strings.Join(summary, "  \n"))
		return
	}
	r.Muted(fmt.Sprintf("%d units, %d scales, %d operations", len(rep.Units), len(rep.Scales), ops))
}

func countOperations(units []UnitInfo) int {
	var n int
	for _, u := range units {
		n += len(u.Operations)
	}
	return n
}
