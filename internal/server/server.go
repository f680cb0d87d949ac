// Package server implements the tessera preview server: a catalog of the
// registered components, full-page and fragment previews, an interactive
// playground backed by prop signals, and live reload over a websocket.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/tessera/internal/config"
	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/logging"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/internal/renderer"
	"github.com/conneroisu/tessera/internal/watcher"
)

// PreviewServer serves components with live reload capability
type PreviewServer struct {
	config    *config.Config
	logger    logging.Logger
	registry  *registry.ComponentRegistry
	renderer  *renderer.ComponentRenderer
	collector *errors.ErrorCollector
	handler   *errors.ErrorHandler
	hub       *hub

	sessionsMutex sync.Mutex
	sessions      map[string]*playgroundSession

	serverMutex  sync.RWMutex // Protects httpServer and watcher
	httpServer   *http.Server
	watcher      *watcher.FileWatcher
	shutdownOnce sync.Once
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Message types sent over the websocket.
const (
	MessageFullReload      = "full_reload"
	MessageComponentUpdate = "component_update"
	MessageError           = "error"
)

// Option configures a PreviewServer.
type Option func(*PreviewServer)

// WithLogger sets the server logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *PreviewServer) { s.logger = logger }
}

// WithRegistry serves reg instead of a registry of the built-in components.
func WithRegistry(reg *registry.ComponentRegistry) Option {
	return func(s *PreviewServer) { s.registry = reg }
}

// New creates a new preview server
func New(cfg *config.Config, opts ...Option) (*PreviewServer, error) {
	if cfg == nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "configuration is nil", nil)
	}

	s := &PreviewServer{
		config:    cfg,
		collector: errors.NewErrorCollector(errors.DefaultCollectorLimit),
		sessions:  make(map[string]*playgroundSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	s.logger = s.logger.WithComponent("server")
	if s.registry == nil {
		s.registry = registry.NewComponentRegistry()
		registry.RegisterBuiltins(s.registry)
	}

	s.handler = errors.NewErrorHandler(s.logger, s.collector)
	s.hub = newHub(s.logger)
	s.renderer = renderer.NewComponentRenderer(s.registry,
		renderer.WithLogger(s.logger),
		renderer.WithErrorHandler(s.handler),
		renderer.WithContractChecks(cfg.Development.ContractChecks),
		renderer.WithLayout(renderer.Layout{
			Title:       cfg.Preview.Title,
			TailwindCDN: cfg.Preview.TailwindCDN,
			LiveReload:  cfg.Development.HotReload,
		}),
	)

	return s, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /components", s.handleComponents)
	mux.HandleFunc("GET /component/{name}", s.handleComponent)
	mux.HandleFunc("GET /render/{name}", s.handleRender)
	mux.HandleFunc("GET /playground/{name}", s.handlePlayground)
	mux.HandleFunc("GET /api/playground/{name}", s.handlePlaygroundState)
	mux.HandleFunc("POST /api/playground/{name}", s.handlePlaygroundUpdate)
	mux.HandleFunc("GET /api/reports", s.handleReports)
	mux.HandleFunc("DELETE /api/reports", s.handleClearReports)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return s.addMiddleware(mux)
}

// Start loads the stories, starts the stories watcher and serves HTTP until
// ctx is done or Shutdown is called.
func (s *PreviewServer) Start(ctx context.Context) error {
	_ = s.loadStories(ctx)

	go s.forwardRegistryEvents(ctx)

	if s.config.Development.HotReload {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Stories watcher disabled")
		}
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Preview server listening", "addr", server.Addr, "components", s.registry.Count())
	if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// storiesFilters select the file events that can change the stories.
var storiesFilters = []watcher.FileFilter{
	watcher.YAMLFilter,
	watcher.NoEditorTempFilter,
	watcher.NoGitFilter,
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) error {
	if s.config.Preview.Stories == "" {
		return nil
	}

	fw, err := watcher.NewFileWatcher(s.config.Development.WatchDebounce, watcher.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	for _, filter := range storiesFilters {
		fw.AddFilter(filter)
	}
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			s.logger.Info(ctx, "Stories file changed", "path", event.Path, "type", event.Type.String())
		}
		return s.loadStories(ctx)
	})
	if err := fw.WatchFiles(s.config.Preview.Stories); err != nil {
		_ = fw.Stop()
		return err
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}

	s.serverMutex.Lock()
	s.watcher = fw
	s.serverMutex.Unlock()
	return nil
}

// loadStories applies the stories file to the registry. A missing file
// clears the stories; an invalid one leaves them unchanged and is reported to
// connected browsers.
func (s *PreviewServer) loadStories(ctx context.Context) error {
	path := s.config.Preview.Stories
	if path == "" {
		return nil
	}

	examples, err := registry.LoadExamples(path)
	if errors.HasErrorCode(err, errors.ErrCodeFileNotFound) {
		examples, err = map[string][]registry.Example{}, nil
	}
	if err == nil {
		err = s.registry.ApplyExamples(examples)
	}
	if err != nil {
		s.handler.Handle(ctx, err)
		s.broadcastMessage(UpdateMessage{Type: MessageError, Content: err.Error(), Timestamp: time.Now()})
		return err
	}

	s.logger.Debug(ctx, "Stories loaded", "path", path, "components", len(examples))
	return nil
}

// forwardRegistryEvents tells browsers about every registry change.
func (s *PreviewServer) forwardRegistryEvents(ctx context.Context) {
	events := s.registry.Watch()
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.broadcastMessage(UpdateMessage{
				Type:      MessageComponentUpdate,
				Target:    event.Component.Name,
				Content:   event.Type.String(),
				Timestamp: event.Timestamp,
			})
		}
	}
}

// Shutdown gracefully shuts down the server and cleans up resources
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		s.serverMutex.RLock()
		server, fw := s.httpServer, s.watcher
		s.serverMutex.RUnlock()

		if fw != nil {
			if err := fw.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}

		s.sessionsMutex.Lock()
		for name, session := range s.sessions {
			session.close()
			delete(s.sessions, name)
		}
		s.sessionsMutex.Unlock()

		s.hub.closeAll()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}
