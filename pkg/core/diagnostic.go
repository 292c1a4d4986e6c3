package core

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/uomc/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError marks a rejected declaration; the model is incomplete.
	SeverityError Severity = iota
	// SeverityWarning marks an accepted declaration that deserves review.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// Diagnostic is one message reported while compiling a definitions source.
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	Token    string // offending token text
	Message  string
	Source   string // file name, empty for in-memory sources
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// String renders "source:line:column: severity: message (near "token")".
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Source != "" {
		sb.WriteString(d.Source)
		sb.WriteByte(':')
	}
	fmt.Fprintf(&sb, "%d:%d: %s: %s", d.Pos.Line, d.Pos.Column, d.Severity, d.Message)
	if d.Token != "" {
		fmt.Fprintf(&sb, " (near %q)", d.Token)
	}
	return sb.String()
}

// DiagnosticFunc receives diagnostics as they are reported.
type DiagnosticFunc func(Diagnostic)

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error. When true the model
// is incomplete and must not be handed to a generator.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors returns the error diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	return ds.filter(SeverityError)
}

// Warnings returns the warning diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(SeverityWarning)
}

// AtLeast returns the diagnostics whose severity is at least as important as threshold.
func (ds Diagnostics) AtLeast(threshold Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}

func (ds Diagnostics) filter(sev Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}
