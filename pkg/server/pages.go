package server

import (
	"html/template"
	"net/http"

	"github.com/barrenmains/embed-report/pkg/registry"
)

// section is one embedded report on a page.
type section struct {
	Title string

	// Fragment is trusted: the renderer builds it from validated
	// target names and heights only.
	Fragment string
}

type projectPage struct {
	Project  string
	Sections []section
	Builds   []registry.BuildRecord
}

type buildPage struct {
	Project  string
	BuildID  string
	Sections []section
	Record   *registry.BuildRecord
}

var pageFuncs = template.FuncMap{
	"raw": func(s string) template.HTML { return template.HTML(s) },
}

var projectTmpl = template.Must(template.New("project").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Project}} - Reports</title></head>
<body>
<h1>{{.Project}}</h1>
{{range .Sections}}
<h2>{{.Title}}</h2>
{{raw .Fragment}}
{{end}}
<h2>Builds</h2>
{{if .Builds}}
<ul>
{{range .Builds}}
<li><a href="/builds/{{.ID}}/">{{.ID}}</a> &mdash; {{.CreatedAt.Format "2006-01-02 15:04:05 MST"}} &mdash; {{if .Success}}success{{else}}failed{{end}}</li>
{{end}}
</ul>
{{else}}
<p>No builds recorded.</p>
{{end}}
</body>
</html>
`))

var buildTmpl = template.Must(template.New("build").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Project}} build {{.BuildID}} - Reports</title></head>
<body>
<h1>{{.Project}} &mdash; build {{.BuildID}}</h1>
{{if .Record}}
<p>Ran at {{.Record.CreatedAt.Format "2006-01-02 15:04:05 MST"}} &mdash; {{if .Record.Success}}success{{else}}failed{{end}}</p>
{{end}}
{{range .Sections}}
<h2>{{.Title}}</h2>
{{raw .Fragment}}
{{end}}
<p><a href="/">Back to project</a></p>
</body>
</html>
`))

func (s *Server) renderPage(w http.ResponseWriter, page projectPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := projectTmpl.Execute(w, page); err != nil {
		s.logger.Error("failed to render project page", "error", err)
	}
}

func (s *Server) renderBuild(w http.ResponseWriter, page buildPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := buildTmpl.Execute(w, page); err != nil {
		s.logger.Error("failed to render build page", "error", err)
	}
}
