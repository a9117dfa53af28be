package domain

import "fmt"

// Severity classifies the health of a monitored object. Values compare by
// equality only; check pipelines overwrite the running severity rather than
// taking a maximum (see rules package).
type Severity string

const (
	SeverityOK       Severity = "OK"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// ParseSeverity maps a config-supplied string to a Severity. UNKNOWN is not
// accepted from configuration: it is reserved for indeterminate runtime
// states, not something an operator can assign to a check.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityOK, SeverityWarning, SeverityCritical:
		return Severity(s), nil
	default:
		return "", fmt.Errorf("invalid severity %q, allowed values are: OK, WARNING, CRITICAL", s)
	}
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityOK, SeverityWarning, SeverityCritical, SeverityUnknown:
		return true
	}
	return false
}
