package schema

import "fmt"

// Severity separates hard validation failures from advisory findings.
type Severity string

const (
	// SeverityError marks a required-field violation; the task result is
	// Failed and the value must not be applied.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory finding ("typical range" style); the
	// value is usable and the caller decides whether to surface the hint.
	SeverityWarning Severity = "warning"
)

// Diagnostic is one validation finding on a parsed result.
type Diagnostic struct {
	Field    string
	Rule     string
	Message  string
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s (%s): %s", d.Severity, d.Field, d.Rule, d.Message)
}

func errorf(field, rule, format string, args ...any) Diagnostic {
	return Diagnostic{Field: field, Rule: rule, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(field, rule, format string, args ...any) Diagnostic {
	return Diagnostic{Field: field, Rule: rule, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

// HasErrors reports whether any diagnostic is a hard failure.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic is advisory.
func HasWarnings(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
