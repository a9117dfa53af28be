package render

import (
	"github.com/fatih/color"

	"github.com/mqops/mqmon/internal/domain"
)

// Severity colors match the classic console convention. EnableColor is
// forced so rendering does not depend on tty autodetection: the colored
// option in config is the single switch.
var severityColors = map[domain.Severity]*color.Color{
	domain.SeverityOK:       forced(color.FgGreen),
	domain.SeverityWarning:  forced(color.FgYellow),
	domain.SeverityCritical: forced(color.FgRed),
	domain.SeverityUnknown:  forced(color.FgWhite),
}

func forced(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// colorize wraps text in the severity's color when enabled. Callers color
// whole lines or whole cells, never individual tokens.
func colorize(text string, sev domain.Severity, colored bool) string {
	if !colored {
		return text
	}
	c, ok := severityColors[sev]
	if !ok {
		c = severityColors[domain.SeverityUnknown]
	}
	return c.Sprint(text)
}
