// Package view renders the HTML pages. Every page is the layout (the shell with the search box
// and the contact list) with its "detail" slot filled by one page template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/microcosm-cc/bluemonday"
	"gitlab.com/dirk.krummacker/contacts-web/internal/model"
)

// Page names, usable as the name argument of gin's Context.HTML.
const (
	PageIndex   = "index"
	PageContact = "contact"
	PageEdit    = "edit"
	PageError   = "error"
)

//go:embed templates/*.html
var templateFS embed.FS

// notesPolicy strips all markup from the notes before line breaks are added.
var notesPolicy = bluemonday.StrictPolicy()

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

// Page is the data every page template receives.
type Page struct {
	// Query is the current search term, shown in the search box.
	Query string
	// Contacts is the sidebar list.
	Contacts []model.Contact
	// Contact is the contact shown in the detail slot, if any.
	Contact *model.Contact
	Status  int
	Message string
}

// Renderer implements gin's render.HTMLRender with one template set per page.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the layout once and clones it for every page, so that each page can define its own
// "title" and "detail" templates.
func New() (*Renderer, error) {
	base, err := template.New("base").
		Funcs(template.FuncMap{"notes": Notes}).
		ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageContact, PageEdit, PageError} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", page, err)
		}
		tmpl, err := clone.ParseFS(templateFS, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Instance returns the renderer for the named page.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.templates[name]
	if !ok {
		panic(fmt.Sprintf("view: unknown page %q", name))
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

// Notes turns free text into HTML: all markup is removed and line breaks are kept.
func Notes(text string) template.HTML {
	return template.HTML(lineBreaks.Replace(notesPolicy.Sanitize(text)))
}
