package templates

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"pageURL": PageURL,
}

// PageURL links to a page of the record list, keeping the search term.
func PageURL(page int, search string) string {
	u := fmt.Sprintf("/display/%d", page)
	if search != "" {
		u += "?search=" + url.QueryEscape(search)
	}
	return u
}

// Load parses every page template. Names are the file base names, e.g. "display.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "html/*.html")
}
