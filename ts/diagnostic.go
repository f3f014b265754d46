package ts

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Diagnostic reports a problem at a position in a source file. Passes
// accumulate diagnostics and continue; they never abort on source problems.
type Diagnostic struct {
	FileName string
	Pos      int
	Line     int // 1-based, 0 when unknown
	Col      int // 1-based, 0 when unknown
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.FileName, d.Line, d.Col, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.FileName, d.Severity, d.Message)
}

// ErrorAt builds an error diagnostic for a node in file.
func ErrorAt(file *SourceFile, node Node, format string, args ...any) Diagnostic {
	return at(file, node, SeverityError, format, args...)
}

// WarningAt builds a warning diagnostic for a node in file.
func WarningAt(file *SourceFile, node Node, format string, args ...any) Diagnostic {
	return at(file, node, SeverityWarning, format, args...)
}

func at(file *SourceFile, node Node, sev Severity, format string, args ...any) Diagnostic {
	d := Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	}
	if file != nil {
		d.FileName = file.FileName
		if node != nil {
			d.Pos = node.Pos()
			d.Line, d.Col = file.LineCol(node.Pos())
		}
	}
	return d
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= SeverityError {
			return true
		}
	}
	return false
}
