package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

const (
	pageDashboard = "dashboard"
	pageUpload    = "upload"
	pageResults   = "results"
	pageProvider  = "provider"
	pageReports   = "reports"
	pageSettings  = "settings"
	pageNotFound  = "notfound"
)

var pageNames = []string{
	pageDashboard,
	pageUpload,
	pageResults,
	pageProvider,
	pageReports,
	pageSettings,
	pageNotFound,
}

var funcs = template.FuncMap{
	"percent": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
}

// renderer holds one template set per page, each combining the layout with
// the page's content block.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executes a template into a buffer so a failure never leaves a
// half-written response.
func (r *renderer) render(page, tmpl string, data any) ([]byte, error) {
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", page, tmpl, err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) writePage(w http.ResponseWriter, status int, page string, data pageData) error {
	body, err := r.render(page, "layout", data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	return nil
}

func staticHandler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}

type navItem struct {
	Name   string
	Href   string
	Active bool
}

var navigation = []navItem{
	{Name: "Dashboard", Href: "/dashboard"},
	{Name: "Upload Data", Href: "/upload"},
	{Name: "Validation Results", Href: "/results"},
	{Name: "Providers", Href: "/providers"},
	{Name: "Reports", Href: "/reports"},
	{Name: "Settings", Href: "/settings"},
}

// pageData is what the layout renders. Data is the page's own model.
type pageData struct {
	Title string
	Nav   []navItem
	Data  any
}

func newPageData(title, activeHref string, data any) pageData {
	nav := make([]navItem, len(navigation))
	copy(nav, navigation)
	for i := range nav {
		nav[i].Active = nav[i].Href == activeHref
	}
	return pageData{Title: title, Nav: nav, Data: data}
}
