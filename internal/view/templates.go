package view

import (
	"embed"
	"html/template"
	"net/url"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// DateLayout 是页面上展示日期的格式。
const DateLayout = "2006-01-02"

// FuncMap returns the helpers available to every page template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": FormatDate,
		"tagPath": func(name string) string {
			return "/tags/" + url.PathEscape(name)
		},
		"postPath": func(u string) string {
			return "/posts/" + url.PathEscape(u)
		},
	}
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// Templates 解析内嵌的全部页面模板。
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
