package server

import (
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.gohtml
var tplFS embed.FS

var pageTemplates = template.Must(template.ParseFS(tplFS, "templates/*.gohtml"))

type authResult struct {
	Title   string
	Message string
	OK      bool
}

// authResultPage renders the landing page the OAuth callback redirects the
// browser to.
func authResultPage(res authResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := pageTemplates.ExecuteTemplate(w, "auth_result", res); err != nil {
			log.Printf("render auth result: %v", err)
		}
	}
}
