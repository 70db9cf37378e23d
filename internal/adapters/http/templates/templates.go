// Package templates holds the HTML pages of the blog, embedded in the binary.
//
// Pages link to each other through the named route table only; the url,
// postURL and query functions wrap routes.Reverse and friends so a template
// never spells out a path.
package templates

import (
	"embed"
	"html/template"

	"github.com/jsamuelsen/go-blog-service/internal/routes"
)

// Page template names.
const (
	List          = "list.html"
	Detail        = "detail.html"
	Form          = "form.html"
	ConfirmDelete = "confirm_delete.html"
	NotFound      = "not_found.html"
	Error         = "error.html"
)

//go:embed *.html
var files embed.FS

// Funcs returns the functions available to every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"url":     routes.Reverse,
		"postURL": routes.PostURL,
		"query":   routes.Query,
	}
}

// New parses every embedded page.
func New() (*template.Template, error) {
	return template.New("blog").Funcs(Funcs()).ParseFS(files, "*.html")
}

// Must is like New but panics on a parse error. The pages are compiled into
// the binary, so a failure here is a build defect.
func Must() *template.Template {
	return template.Must(New())
}
