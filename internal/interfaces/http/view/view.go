package view

import (
	"embed"
	"html/template"

	"github.com/erp/dashboard/internal/domain/identity"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page is the data every page template receives
type Page struct {
	Title    string
	Nav      string
	Identity identity.Identity
	// Alert is a blocking error shown above the content
	Alert string
	// Notice confirms a completed action
	Notice string
	// Stale marks content that could not be refreshed from the backend
	Stale bool
	Data  any
}

// Templates parses the embedded page templates
func Templates(f *Formatter) (*template.Template, error) {
	funcs := template.FuncMap{
		"money":       f.Money,
		"qty":         f.Quantity,
		"statusClass": statusClass,
	}
	return template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}
