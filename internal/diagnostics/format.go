package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	hintColor    = color.New(color.FgCyan)
	infoColor    = color.New(color.FgHiBlack)
	caretColor   = color.New(color.FgRed, color.Bold)
	boldColor    = color.New(color.Bold)
)

func colorFor(s Severity) *color.Color {
	switch s {
	case Error:
		return errorColor
	case Warning:
		return warningColor
	case Hint:
		return hintColor
	default:
		return infoColor
	}
}

// Format renders d as a single human-readable block with file:line:column
// header, a caret under the offending column when source is available, and
// the message. It mirrors the teacher's CompilerError.Format shape,
// generalised to carry severity and a numeric code.
func (d Diagnostic) Format(source string) string {
	var sb strings.Builder

	sev := colorFor(d.Severity)
	sb.WriteString(sev.Sprintf("%s", d.Severity.String()))
	sb.WriteString(fmt.Sprintf("[%d] ", d.Code))
	if d.File != "" {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: ", d.File, d.Range.Start.Line, d.Range.Start.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%d:%d: ", d.Range.Start.Line, d.Range.Start.Column))
	}
	sb.WriteString(boldColor.Sprint(d.Message))
	sb.WriteString("\n")

	if line := sourceLine(source, d.Range.Start.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Range.Start.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Range.Start.Column))
		sb.WriteString(caretColor.Sprint("^"))
		sb.WriteString("\n")
	}

	for _, rel := range d.RelatedInformation {
		sb.WriteString(fmt.Sprintf("    note: %s (%s:%d:%d)\n", rel.Message, rel.File, rel.Range.Start.Line, rel.Range.Start.Column))
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a slice of diagnostics, one block per entry, with a
// summary header when there is more than one.
func FormatAll(diags []Diagnostic, sources map[string]string) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(sources[diags[0].File])
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d diagnostic(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(d.Format(sources[d.File]))
		if i < len(diags)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
