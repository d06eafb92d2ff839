package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"squadpage/internal/domain/message"
	"squadpage/internal/domain/person"
	"squadpage/internal/domain/squad"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists every page template; each is parsed together with layout.html.
var pages = []string{"index", "season", "student", "messages"}

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// baseFuncs are bound at parse time. csrfField is rebound per request.
var baseFuncs = template.FuncMap{
	"csrfField":      func() template.HTML { return "" },
	"renderMarkdown": renderMarkdown,
	"seasons":        func() []person.Season { return person.Seasons },
}

// renderer holds the parsed page templates.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	v := &renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tpl, err := template.New("layout.html").Funcs(baseFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = tpl
	}
	return v, nil
}

// render executes a page into a buffer and writes it with status 200.
// Execution errors become a 500 without a partial page.
func (v *renderer) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	base, ok := v.pages[name]
	if !ok {
		internalError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}
	tpl, err := base.Clone()
	if err != nil {
		internalError(w, r, fmt.Errorf("clone template %s: %w", name, err))
		return
	}
	tpl.Funcs(template.FuncMap{
		"csrfField": func() template.HTML { return csrf.TemplateField(r) },
	})

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("render_write_failed", "template", name, "error", err.Error())
	}
}

// RosterList is the person listing shared by every roster page.
type RosterList struct {
	Persons []person.Person
	Squads  []squad.Squad
}

// SquadNames returns the names of the listed squads p belongs to, comma separated.
func (l RosterList) SquadNames(p person.Person) string {
	var names []string
	for _, s := range l.Squads {
		if p.InSquad(s.ID) {
			names = append(names, s.Name)
		}
	}
	return strings.Join(names, ", ")
}

// IndexView backs index.html.
type IndexView struct {
	RosterList
	ReverseName bool
}

// SeasonView backs season.html. Exactly one season flag is set.
type SeasonView struct {
	RosterList
	Season                         person.Season
	Spring, Summer, Autumn, Winter bool
}

func newSeasonView(list RosterList, s person.Season) SeasonView {
	return SeasonView{
		RosterList: list,
		Season:     s,
		Spring:     s == person.Spring,
		Summer:     s == person.Summer,
		Autumn:     s == person.Autumn,
		Winter:     s == person.Winter,
	}
}

// StudentView backs student.html.
type StudentView struct {
	RosterList
	PersonDetail person.Person
	Messages     []message.Message
	TeamName     string
}

// MessagesView backs messages.html.
type MessagesView struct {
	Messages []message.Message
}
