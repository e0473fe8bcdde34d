package render

import (
	"embed"
	"html/template"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/views"
)

//go:embed templates/*.tmpl.htm
var templateFS embed.FS

var tmplFuncMap = template.FuncMap{
	"fn": func(value interface{}) string {
		switch e := value.(type) {
		case engine.Number:
			if math.IsNaN(float64(e)) {
				return "NaN"
			}
			return humanize.CommafWithDigits(float64(e), 2)
		case float64:
			return humanize.CommafWithDigits(e, 2)
		case int:
			return humanize.Comma(int64(e))
		}
		return ""
	},
	"chartURL": ChartURL,
}

var tmplPage = template.Must(
	template.New("page.tmpl.htm").
		Funcs(tmplFuncMap).
		ParseFS(templateFS, "templates/page.tmpl.htm"),
)

// ChartURL is where the dashboard serves the PNG of a chart section.
func ChartURL(kind views.Kind, section string) string {
	return "/charts/" + string(kind) + "/" + section + ".png"
}

type navItem struct {
	Kind   views.Kind
	Title  string
	Active bool
}

type pageData struct {
	*views.Page
	Nav []navItem
}

// WriteHTML renders page as a full HTML document with the navigation
// sidebar. Charts are referenced by ChartURL.
func WriteHTML(w io.Writer, page *views.Page) error {
	data := pageData{Page: page}
	for _, k := range views.Kinds() {
		data.Nav = append(data.Nav, navItem{Kind: k, Title: k.Title(), Active: k == page.Kind})
	}
	return errors.Wrap(tmplPage.Execute(w, data), "render html")
}
