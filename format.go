package exc

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders exceptions and violations for human consumption.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a formatter. Pass true to colorize output.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Styles used for report formatting. Color is forced on at construction
// so that the formatter's UseColor flag alone decides the output.
var (
	styleHeader     = newStyle(color.FgRed, color.Bold)
	styleIdentifier = newStyle(color.FgYellow)
	styleLocation   = newStyle(color.FgCyan)
	stylePayload    = newStyle(color.FgWhite)
	styleDim        = newStyle(color.FgHiBlack)
)

func newStyle(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// FormatException renders the report the default terminate handler prints:
// a header naming the identifier, then origin, payload and suppressed
// lines as applicable. A nil exception renders the empty-rethrow report.
func (f *Formatter) FormatException(e *Exception) string {
	var b strings.Builder
	if e == nil {
		b.WriteString(f.paint(styleHeader, "no active exception to rethrow"))
		return b.String()
	}
	head := fmt.Sprintf("unhandled exception %d (0x%X)", e.ID, uint(e.ID))
	b.WriteString(f.paint(styleHeader, head))
	if !e.Origin.IsZero() {
		b.WriteString("\n  ")
		b.WriteString(f.paint(styleDim, "origin:"))
		b.WriteString(" ")
		b.WriteString(f.paint(styleLocation, e.Origin.String()))
	}
	if e.Payload != nil {
		b.WriteString("\n  ")
		b.WriteString(f.paint(styleDim, "payload:"))
		b.WriteString(" ")
		b.WriteString(f.paint(stylePayload, fmt.Sprintf("%v", e.Payload)))
	}
	for _, sup := range e.Suppressed() {
		b.WriteString("\n  ")
		b.WriteString(f.paint(styleDim, "suppressed:"))
		b.WriteString(" ")
		b.WriteString(sup.Error())
	}
	return b.String()
}

// FormatViolation renders a contract violation report.
func (f *Formatter) FormatViolation(v *Violation) string {
	var b strings.Builder
	b.WriteString(f.paint(styleHeader, "contract violation:"))
	b.WriteString(" ")
	b.WriteString(f.paint(styleIdentifier, v.Kind.String()))
	b.WriteString("\n  ")
	b.WriteString(v.cause.Error())
	if !v.Origin.IsZero() {
		b.WriteString("\n  ")
		b.WriteString(f.paint(styleDim, "origin:"))
		b.WriteString(" ")
		b.WriteString(f.paint(styleLocation, v.Origin.String()))
	}
	if v.Runtime != "" {
		b.WriteString("\n  ")
		b.WriteString(f.paint(styleDim, "runtime:"))
		b.WriteString(" ")
		b.WriteString(v.Runtime)
	}
	return b.String()
}
