// Package templates embeds the HTML pages of the front end.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Pages names every page template; each is executed through "layout".
var Pages = []string{"home", "post", "compose", "tags", "tag", "notfound", "error"}

// Parse builds one template set per page, each combined with the layout.
func Parse(funcs template.FuncMap) (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(files, "layout.html", "partials.html", page+".html")
		if err != nil {
			return nil, err
		}
		out[page] = t
	}
	return out, nil
}
