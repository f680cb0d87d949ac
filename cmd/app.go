package cmd

import (
	"context"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/internal/renderer"
)

// registry returns the built-in components with the configured stories
// applied. A missing stories file is not an error.
func (a *app) registry(ctx context.Context) (*registry.ComponentRegistry, error) {
	reg := registry.NewComponentRegistry()
	registry.RegisterBuiltins(reg)

	path := a.config.Preview.Stories
	if path == "" {
		return reg, nil
	}

	examples, err := registry.LoadExamples(path)
	switch {
	case errors.HasErrorCode(err, errors.ErrCodeFileNotFound):
		a.logger.Debug(ctx, "No stories file", "path", path)
		return reg, nil
	case err != nil:
		return nil, err
	}
	if err := reg.ApplyExamples(examples); err != nil {
		return nil, err
	}
	return reg, nil
}

// renderer returns a renderer for reg that logs and reports through the
// configured logger.
func (a *app) renderer(reg *registry.ComponentRegistry) *renderer.ComponentRenderer {
	return renderer.NewComponentRenderer(reg,
		renderer.WithLogger(a.logger),
		renderer.WithErrorHandler(errors.NewErrorHandler(a.logger, nil)),
		renderer.WithContractChecks(a.config.Development.ContractChecks),
		renderer.WithLayout(renderer.Layout{
			Title:       a.config.Preview.Title,
			TailwindCDN: a.config.Preview.TailwindCDN,
		}),
	)
}
