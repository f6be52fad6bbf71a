// Package web holds the server-rendered HTML templates and their helper functions.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var files embed.FS

// BaseLayout wraps every page.
const BaseLayout = "layouts/base"

// NewEngine returns the template engine. mediaURL prefixes stored image paths.
func NewEngine(mediaURL string) *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(Funcs(mediaURL))
	return engine
}

// Funcs returns the helper functions available to templates.
func Funcs(mediaURL string) map[string]interface{} {
	return map[string]interface{}{
		"truncatechars": TruncateChars,
		"linebreaksbr":  LinebreaksBR,
		"date":          FormatDate,
		"dict":          Dict,
		"media": func(name string) string {
			return mediaURL + strings.TrimPrefix(name, "/")
		},
	}
}

// TruncateChars shortens s to at most n characters, ending in an ellipsis when cut.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// LinebreaksBR escapes s and turns newlines into <br> tags.
func LinebreaksBR(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

// FormatDate renders a publication date like "2 January 2006".
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

// Dict builds a map from alternating keys and values so partials can take several arguments.
func Dict(pairs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			m[key] = pairs[i+1]
		}
	}
	return m
}
