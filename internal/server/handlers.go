package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/internal/version"
)

// HealthResponse is served by /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Components int    `json:"components"`
	Clients    int    `json:"clients"`
	Reports    int    `json:"reports"`
}

// ErrorResponse is the JSON body of a failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString(`<main class="mx-auto max-w-3xl p-8"><h1 class="mb-6 text-2xl font-bold">Components</h1><ul class="space-y-4">`)
	for _, info := range s.registry.GetAll() {
		name := templ.EscapeString(info.Name)
		fmt.Fprintf(&b,
			`<li><a class="font-medium underline" href="/component/%s">%s</a> <a class="text-sm text-gray-500" href="/playground/%s">playground</a><p class="text-sm">%s</p></li>`,
			name, name, name, templ.EscapeString(info.Description))
	}
	b.WriteString(`</ul></main>`)

	s.writeHTML(w, http.StatusOK, s.renderer.RenderWithLayout("index", b.String()))
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Version:    version.Get().Short(),
		Components: s.registry.Count(),
		Clients:    s.hub.count(),
		Reports:    s.collector.Count(),
	})
}

func (s *PreviewServer) handleComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.GetAll())
}

// handleComponent serves a preview page. ?example=<name> renders one example,
// other query parameters are used as props, and without either every
// example is shown.
func (s *PreviewServer) handleComponent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	info, ok := s.registry.Get(name)
	if !ok {
		s.writeError(w, errors.ErrComponentNotFound(name))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<main class="mx-auto max-w-3xl space-y-8 p-8"><h1 class="text-2xl font-bold">%s</h1>`, templ.EscapeString(info.Name))

	sections, err := s.previewSections(r, info)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, section := range sections {
		fmt.Fprintf(&b, `<section><h2 class="mb-2 text-sm font-semibold text-gray-500">%s</h2><div class="rounded-md border p-6">%s</div></section>`,
			templ.EscapeString(section.title), section.html)
	}
	b.WriteString(`</main>`)
	b.WriteString(s.collector.ErrorOverlay(info.Name))

	s.writeHTML(w, http.StatusOK, s.renderer.RenderWithLayout(info.Name, b.String()))
}

type previewSection struct {
	title string
	html  string
}

func (s *PreviewServer) previewSections(r *http.Request, info *registry.ComponentInfo) ([]previewSection, error) {
	ctx := r.Context()

	if example := r.URL.Query().Get("example"); example != "" {
		html, err := s.renderer.RenderExample(ctx, info.Name, example)
		if err != nil {
			return nil, err
		}
		return []previewSection{{title: example, html: html}}, nil
	}

	if props := queryProps(r); len(props) > 0 || len(info.AllExamples()) == 0 {
		html, err := s.renderProps(r, info, props)
		if err != nil {
			return nil, err
		}
		return []previewSection{{title: "Custom", html: html}}, nil
	}

	var sections []previewSection
	for _, ex := range info.AllExamples() {
		html, err := s.renderer.RenderExample(ctx, info.Name, ex.Name)
		if err != nil {
			// One broken story does not hide the rest; the overlay lists it.
			html = fmt.Sprintf(`<p class="text-sm text-red-600">%s</p>`, templ.EscapeString(err.Error()))
		}
		sections = append(sections, previewSection{title: ex.Name, html: html})
	}
	return sections, nil
}

func (s *PreviewServer) renderProps(r *http.Request, info *registry.ComponentInfo, props map[string]string) (string, error) {
	if err := registry.ValidateProps(info, props); err != nil {
		s.handler.Handle(r.Context(), err)
		return "", err
	}
	return s.renderer.Render(r.Context(), info.Name, registry.StaticProps(props))
}

// handleRender serves the component markup alone.
func (s *PreviewServer) handleRender(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	info, ok := s.registry.Get(name)
	if !ok {
		s.writeError(w, errors.ErrComponentNotFound(name))
		return
	}

	var (
		html string
		err  error
	)
	if example := r.URL.Query().Get("example"); example != "" {
		html, err = s.renderer.RenderExample(r.Context(), name, example)
	} else {
		html, err = s.renderProps(r, info, queryProps(r))
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeHTML(w, http.StatusOK, html)
}

func (s *PreviewServer) handleReports(w http.ResponseWriter, r *http.Request) {
	if component := r.URL.Query().Get("component"); component != "" {
		writeJSON(w, http.StatusOK, s.collector.ByComponent(component))
		return
	}
	writeJSON(w, http.StatusOK, s.collector.Reports())
}

func (s *PreviewServer) handleClearReports(w http.ResponseWriter, r *http.Request) {
	s.collector.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// queryProps returns the query parameters other than example, first value
// wins.
func queryProps(r *http.Request) map[string]string {
	query := r.URL.Query()
	props := make(map[string]string, len(query))
	for key, values := range query {
		if key == "example" || len(values) == 0 {
			continue
		}
		props[key] = values[0]
	}
	return props
}

// statusFor maps an error to the HTTP status it is served with.
func statusFor(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.HasErrorType(err, errors.ErrorTypeValidation):
		return http.StatusBadRequest
	case errors.IsConfigurationError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	var ce *errors.ComponentError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func (s *PreviewServer) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: errorCode(err)})
}

func (s *PreviewServer) writeHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
