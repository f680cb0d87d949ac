// Package internal contains the implementation packages of the tessera CLI
// and preview server. The components themselves live under pkg/ so other
// modules can render them.
//
// # Package Organization
//
//   - config: configuration loading with viper and struct tag validation
//   - errors: typed component errors, the error handler and the collector
//     behind the preview error overlay
//   - logging: structured logging on log/slog
//   - registry: the component catalog, built-in factories and stories
//   - renderer: building and rendering catalogued components, the preview
//     layout and markup inspection
//   - server: the preview server, playground and live reload websocket
//   - version: build information
//   - watcher: debounced file watching for the stories file
//
// # Data Flow
//
//	stories.yml --watcher--> registry --renderer--> server --websocket--> browser
//
// The registry broadcasts every change to its watchers; the server turns
// those events into component_update messages so open previews reload.
package internal
