package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sort"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/stateworks/go-implied/pkg/implication"
	"github.com/stateworks/go-implied/pkg/model"
)

//go:embed templates
var templateFS embed.FS

// previewRenderer turns an implication document into a read-only HTML page.
// All free text passes through a strict sanitizer before interpolation; the
// documents are editable by hand, so their contents are untrusted.
type previewRenderer struct {
	template *pongo2.Template
	policy   *bluemonday.Policy
}

func newPreviewRenderer() (*previewRenderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("server: template fs: %w", err)
	}
	set := pongo2.NewSet("implied", pongo2.NewFSLoader(sub))
	template, err := set.FromFile("preview.html")
	if err != nil {
		return nil, fmt.Errorf("server: load preview template: %w", err)
	}
	return &previewRenderer{
		template: template,
		policy:   bluemonday.StrictPolicy(),
	}, nil
}

func (p *previewRenderer) render(doc *implication.Document) ([]byte, error) {
	clean := p.policy.Sanitize

	fields := make([]map[string]any, 0, doc.Context.Len())
	for _, field := range doc.Context.Fields() {
		fields = append(fields, map[string]any{
			"name":  clean(field.Name),
			"type":  string(field.Type()),
			"value": clean(model.Format(field.Value)),
		})
	}

	screens := make([]map[string]any, 0, len(doc.Screens))
	ordered := append([]implication.Screen(nil), doc.Screens...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	for _, screen := range ordered {
		label := screen.Title
		if label == "" {
			label = screen.ID
		}
		screens = append(screens, map[string]any{
			"label":   clean(label),
			"covered": screen.Covered,
		})
	}

	transitions := make([]map[string]any, 0, len(doc.Transitions))
	for _, transition := range doc.Transitions {
		transitions = append(transitions, map[string]any{
			"event":  clean(transition.Event),
			"target": clean(transition.Target),
			"guard":  clean(transition.Guard),
		})
	}

	out, err := p.template.ExecuteBytes(pongo2.Context{
		"name":        clean(doc.Name),
		"description": clean(doc.Description),
		"fields":      fields,
		"screens":     screens,
		"transitions": transitions,
	})
	if err != nil {
		return nil, fmt.Errorf("server: render preview: %w", err)
	}
	return out, nil
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadParam(w, r)
	if !ok {
		return
	}
	html, err := s.preview.render(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "RENDER_ERROR", "preview rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}
