// Package render serializes cycle reports into the supported output
// encodings. All encodings share one visibility policy so the filtering of
// system objects cannot drift between formats.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mqops/mqmon/internal/domain"
)

// Formats lists the supported output encodings. "console" is the
// line-oriented format.
var Formats = []string{"console", "json", "csv", "table"}

// Known reports whether format is a supported encoding. Config validation
// uses it so an unknown format is rejected at load time; New never sees one
// in a correctly started process.
func Known(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Options apply uniformly to every renderer.
type Options struct {
	// Colored enables the severity color mapping. Only the console and
	// table renderers honor it; json and csv stay severity-agnostic in
	// presentation.
	Colored bool
	// IncludeSystem renders plain system objects too. Debug aid; the
	// default policy hides SYSTEM.* names unless they match SYSTEM.ADMIN.
	IncludeSystem bool
}

// visible is the shared filtering rule of all four formats.
func (o Options) visible(name string) bool {
	if o.IncludeSystem {
		return true
	}
	return domain.Classify(name).Visible()
}

// Renderer turns one cycle report into its serialized form.
type Renderer interface {
	Render(rep *domain.CycleReport) (string, error)
}

// New constructs the renderer for a format.
func New(format string, opts Options) (Renderer, error) {
	switch format {
	case "console":
		return &LineRenderer{opts: opts, now: time.Now}, nil
	case "json":
		return &JSONRenderer{opts: opts}, nil
	case "csv":
		return &CSVRenderer{opts: opts}, nil
	case "table":
		return &TableRenderer{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q, allowed values are: %s", format, strings.Join(Formats, ", "))
	}
}
