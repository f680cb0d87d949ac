package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/internal/errors"
)

// Error is the error type returned by component renders.
type Error = errors.ComponentError

// IsConfigurationError reports whether err comes from a component used
// outside its prop contract.
func IsConfigurationError(err error) bool {
	return errors.IsConfigurationError(err)
}

// IsDelegateContractViolation reports whether err is a delegate contract
// report.
func IsDelegateContractViolation(err error) bool {
	return errors.IsDelegateContractViolation(err)
}

type contractKey struct{}

// WithContractChecks enables delegate contract checks for renders using the
// returned context. Violations are passed to report and never fail the
// render.
func WithContractChecks(ctx context.Context, report func(error)) context.Context {
	if report == nil {
		return ctx
	}
	return context.WithValue(ctx, contractKey{}, report)
}

func contractReporter(ctx context.Context) func(error) {
	report, _ := ctx.Value(contractKey{}).(func(error))
	return report
}

// renderDelegate renders the tree a delegate returned and, when checks are
// enabled, reports a delegate that did not attach ref.
//
// The check compares ref's attachment count before and after the render, so
// it is best effort when one NodeRef is rendered by several goroutines at
// once: an attach from a concurrent render can hide a dropped ref. Reports
// are diagnostics only and never affect the rendered output.
func renderDelegate(ctx context.Context, w io.Writer, component string, ref *NodeRef, tree templ.Component) error {
	before := ref.attachments()
	if tree != nil {
		if err := tree.Render(ctx, w); err != nil {
			return err
		}
	}

	report := contractReporter(ctx)
	if report == nil || ref == nil || ref.attachments() != before {
		return nil
	}
	report(errors.NewDelegateContractError(
		errors.ErrCodeNodeRefDropped,
		fmt.Sprintf("delegate did not attach node ref %q", ref.ID()),
	).WithComponent(component))
	return nil
}
