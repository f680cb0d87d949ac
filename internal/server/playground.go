package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/pkg/reactive"
)

// maxPlaygroundBody bounds a playground update request.
const maxPlaygroundBody = 64 << 10

// structuralProps change the shape of the built component, so setting one
// rebuilds it. The other props are read through memos on every render.
var structuralProps = []string{"disabled", "as", "href", "onclick", "ref", "children"}

// PlaygroundState is served by the playground API.
type PlaygroundState struct {
	Component string            `json:"component"`
	Props     map[string]string `json:"props"`
	HTML      string            `json:"html"`
	Error     string            `json:"error,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// playgroundSession holds one signal per prop of a component. The component
// is built once from the signals and rebuilt only after a structural prop
// changes.
type playgroundSession struct {
	name    string
	signals map[string]*reactive.Signal[string]
	unbinds []reactive.Unbind

	mutex     sync.Mutex
	component templ.Component
	builds    int

	stale   atomic.Bool
	changed atomic.Bool
}

func newPlaygroundSession(info *registry.ComponentInfo) *playgroundSession {
	var initial map[string]string
	if examples := info.AllExamples(); len(examples) > 0 {
		initial = examples[0].Props
	}

	session := &playgroundSession{
		name:    info.Name,
		signals: make(map[string]*reactive.Signal[string], len(registry.KnownProps)),
	}
	for _, key := range registry.KnownProps {
		signal := reactive.NewSignal(initial[key])
		structural := slices.Contains(structuralProps, key)
		session.unbinds = append(session.unbinds, signal.Bind(func(string) {
			session.changed.Store(true)
			if structural {
				session.stale.Store(true)
			}
		}))
		session.signals[key] = signal
	}
	return session
}

// props returns the signals as component props.
func (ps *playgroundSession) props() registry.Props {
	props := make(registry.Props, len(ps.signals))
	for key, signal := range ps.signals {
		props[key] = signal
	}
	return props
}

// values returns the props that are set.
func (ps *playgroundSession) values() map[string]string {
	values := make(map[string]string)
	for key, signal := range ps.signals {
		if v := signal.Get(); v != "" {
			values[key] = v
		}
	}
	return values
}

// set writes values to the signals and reports whether any of them changed.
func (ps *playgroundSession) set(values map[string]string) bool {
	for _, key := range sortedKeys(values) {
		if signal, ok := ps.signals[key]; ok {
			signal.Set(values[key])
		}
	}
	return ps.changed.Swap(false)
}

// build returns the session component, rebuilding it when stale.
func (ps *playgroundSession) build(factory func(registry.Props) (templ.Component, error)) (templ.Component, error) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	if stale := ps.stale.Swap(false); ps.component != nil && !stale {
		return ps.component, nil
	}

	c, err := factory(ps.props())
	if err != nil {
		ps.component = nil
		return nil, err
	}
	ps.component = c
	ps.builds++
	return c, nil
}

func (ps *playgroundSession) close() {
	for _, unbind := range ps.unbinds {
		unbind()
	}
}

func (s *PreviewServer) playgroundSession(name string) (*playgroundSession, *registry.ComponentInfo, error) {
	info, ok := s.registry.Get(name)
	if !ok {
		return nil, nil, errors.ErrComponentNotFound(name)
	}

	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()

	session, ok := s.sessions[name]
	if !ok {
		session = newPlaygroundSession(info)
		s.sessions[name] = session
	}
	return session, info, nil
}

// renderSession renders the session component into a PlaygroundState.
func (s *PreviewServer) renderSession(r *http.Request, session *playgroundSession) (PlaygroundState, error) {
	state := PlaygroundState{Component: session.name, Props: session.values()}

	c, err := session.build(func(props registry.Props) (templ.Component, error) {
		return s.renderer.Build(session.name, props)
	})
	if err != nil {
		s.handler.Handle(r.Context(), err)
		return state, err
	}

	html, err := s.renderer.RenderComponent(r.Context(), session.name, c)
	if err != nil {
		return state, err
	}
	state.HTML = html
	return state, nil
}

func (s *PreviewServer) writePlaygroundState(w http.ResponseWriter, state PlaygroundState, err error) {
	if err != nil {
		state.Error = err.Error()
		state.Code = errorCode(err)
		writeJSON(w, statusFor(err), state)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *PreviewServer) handlePlaygroundState(w http.ResponseWriter, r *http.Request) {
	session, _, err := s.playgroundSession(r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	state, err := s.renderSession(r, session)
	s.writePlaygroundState(w, state, err)
}

// handlePlaygroundUpdate sets the posted props and returns the new markup.
// The body is a JSON object of prop values; props it leaves out keep their
// value, and "" clears one.
func (s *PreviewServer) handlePlaygroundUpdate(w http.ResponseWriter, r *http.Request) {
	session, info, err := s.playgroundSession(r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var values map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlaygroundBody)).Decode(&values); err != nil {
		s.writeError(w, errors.NewValidationError(errors.ErrCodeInvalidProp, "invalid props: "+err.Error()).WithComponent(info.Name))
		return
	}
	if err := registry.ValidateProps(info, values); err != nil {
		s.writeError(w, err)
		return
	}

	if session.set(values) {
		s.broadcastMessage(UpdateMessage{
			Type:      MessageComponentUpdate,
			Target:    info.Name,
			Content:   "playground",
			Timestamp: time.Now(),
		})
	}

	state, err := s.renderSession(r, session)
	s.writePlaygroundState(w, state, err)
}

// handlePlayground serves the interactive page: a control per prop next to
// the live preview.
func (s *PreviewServer) handlePlayground(w http.ResponseWriter, r *http.Request) {
	session, info, err := s.playgroundSession(r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	preview := ""
	state, err := s.renderSession(r, session)
	if err != nil {
		preview = fmt.Sprintf(`<p class="text-sm text-red-600">%s</p>`, templ.EscapeString(err.Error()))
	} else {
		preview = state.HTML
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<main class="mx-auto grid max-w-5xl grid-cols-3 gap-8 p-8"><form id="tessera-controls" class="space-y-3" data-component="%s">`,
		templ.EscapeString(info.Name))
	for _, key := range registry.KnownProps {
		value := state.Props[key]
		fmt.Fprintf(&b, `<label class="block text-sm font-medium">%s`, key)
		if axis, ok := info.Axis(key); ok {
			fmt.Fprintf(&b, `<select class="block w-full rounded border p-1" name="%s"><option value="">(default: %s)</option>`,
				key, templ.EscapeString(axis.Default))
			for _, opt := range axis.Options {
				selected := ""
				if opt.Value == value {
					selected = " selected"
				}
				fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`,
					templ.EscapeString(opt.Value), selected, templ.EscapeString(opt.Value))
			}
			b.WriteString(`</select>`)
		} else {
			fmt.Fprintf(&b, `<input class="block w-full rounded border p-1" name="%s" value="%s">`,
				key, templ.EscapeString(value))
		}
		b.WriteString(`</label>`)
	}
	fmt.Fprintf(&b, `</form><div class="col-span-2 rounded-md border p-6" id="tessera-preview">%s</div></main>`, preview)
	b.WriteString(playgroundScript)
	b.WriteString(s.collector.ErrorOverlay(info.Name))

	s.writeHTML(w, http.StatusOK, s.renderer.RenderWithLayout(info.Name, b.String()))
}

const playgroundScript = `<script>
  (function () {
    const form = document.getElementById('tessera-controls');
    const preview = document.getElementById('tessera-preview');
    form.addEventListener('change', async function (event) {
      const body = {};
      body[event.target.name] = event.target.value;
      const res = await fetch('/api/playground/' + form.dataset.component, {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify(body)
      });
      const state = await res.json();
      preview.innerHTML = state.error ? '<p class="text-sm text-red-600"></p>' : state.html;
      if (state.error) preview.firstChild.textContent = state.error;
    });
  })();
</script>`
