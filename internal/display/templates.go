package display

import (
	"embed"
	"html/template"
	"io"
	"sync"
)

// PageTemplate is the entry template for every shell state.
const PageTemplate = "page"

//go:embed templates/*.html
var templateFS embed.FS

var parseTemplates = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
})

// Templates returns the parsed page templates, ready for gin's SetHTMLTemplate.
func Templates() *template.Template {
	return parseTemplates()
}

// Render writes the HTML page for p.
func Render(w io.Writer, p Page) error {
	return Templates().ExecuteTemplate(w, PageTemplate, p)
}
