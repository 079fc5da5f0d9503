package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderText prints a view for terminals. Collapsed days show only their header.
func RenderText(w io.Writer, v View) error {
	p := &printer{w: w}
	p.printf("%s\n", v.Title)
	p.printf("%s\n", strings.Repeat("=", len([]rune(v.Title))))
	if v.Summary != "" {
		p.printf("%s\n", v.Summary)
	}
	p.printf("Total estimated cost: %s\n", v.Cost)

	for _, d := range v.Days {
		marker := "+"
		if d.Open {
			marker = "-"
		}
		p.printf("\n[%s] Day %d: %s\n", marker, d.Day, d.Theme)
		if !d.Open {
			continue
		}
		for _, a := range d.Activities {
			p.printf("  * %s (%s)\n", a.Title, a.EstimatedCost)
			p.printf("    %s\n", a.Description)
			p.printf("    Why: %s\n", a.Justification)
		}
	}

	if v.HasSources() {
		p.printf("\nSources:\n")
		for _, s := range v.Sources {
			if s.Title != "" && s.Title != s.URI {
				p.printf("  - %s <%s>\n", s.Title, s.URI)
			} else {
				p.printf("  - %s\n", s.URI)
			}
		}
	}
	return p.err
}

// printer keeps the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
