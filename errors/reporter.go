package errors

import (
	"fmt"
	"strings"
)

// Reporter renders diagnostics against the original source the way
// the teacher's MarsReporter does: a red header, then a "-->" location
// and the offending source line framed by a gutter. Lexico tracks only
// a line per token (no column), so no caret marks a column within the
// line.
type Reporter struct {
	source   string
	filename string
	errs     []*Error
}

// NewReporter creates a Reporter for the given source and filename
// (used only in the rendered header, e.g. "program.lex:12").
func NewReporter(source, filename string) *Reporter {
	return &Reporter{source: source, filename: filename}
}

// Add records a diagnostic for later rendering.
func (r *Reporter) Add(err *Error) { r.errs = append(r.errs, err) }

// HasErrors reports whether any diagnostic was recorded.
func (r *Reporter) HasErrors() bool { return len(r.errs) > 0 }

// String renders all recorded diagnostics in the teacher's style.
func (r *Reporter) String() string {
	if len(r.errs) == 0 {
		return ""
	}
	lines := strings.Split(r.source, "\n")

	var sb strings.Builder
	for i, e := range r.errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("\033[31merror[%s]\033[0m: %s\n", e.Code, e.Message))
		if e.Phase != PhaseRuntime {
			sb.WriteString(fmt.Sprintf("  \033[34m-->\033[0m %s:%d\n", r.filename, e.Line))
			if e.Line > 0 && e.Line <= len(lines) {
				sb.WriteString(fmt.Sprintf("  \033[34m|\033[0m %s\n", lines[e.Line-1]))
			}
		} else if e.Op != "" {
			sb.WriteString(fmt.Sprintf("  \033[34m-->\033[0m operación '%s'\n", e.Op))
		}
		if e.Help != "" {
			sb.WriteString(fmt.Sprintf("  \033[32mhelp:\033[0m %s\n", e.Help))
		}
	}
	sb.WriteString(fmt.Sprintf("\n\033[31merror\033[0m: se abortó tras %d diagnóstico(s)\n", len(r.errs)))
	return sb.String()
}
