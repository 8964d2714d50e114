package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"finbook/web"
)

// templateFuncs are the helpers available inside page templates.
var templateFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

// LoadTemplates parses the embedded page templates into the router.
// A parse failure here is fatal at startup; there is no recovery path for a
// missing template at request time.
func LoadTemplates(router *gin.Engine) error {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	return nil
}

// MountStatic serves the embedded static assets under /static.
func MountStatic(router *gin.Engine) error {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to mount static assets: %w", err)
	}
	router.StaticFS("/static", http.FS(sub))
	return nil
}
