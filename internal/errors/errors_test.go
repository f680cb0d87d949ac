package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentErrorError(t *testing.T) {
	err := ErrUnknownVariant("variant", "loud", []string{"default", "destructive"}).
		WithComponent("Alert")

	msg := err.Error()
	assert.Contains(t, msg, "[UNKNOWN_VARIANT]")
	assert.Contains(t, msg, "component:Alert")
	assert.Contains(t, msg, `unknown variant "loud"`)
	assert.Contains(t, msg, "allowed=default,destructive axis=variant")
}

func TestComponentErrorCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewIOError(ErrCodeFileNotFound, "cannot read stories", cause)

	assert.Equal(t, "[ERR_FILE_NOT_FOUND] cannot read stories: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestComponentErrorIs(t *testing.T) {
	a := ErrMissingChildren("Alert")
	b := ErrMissingChildren("AlertTitle")
	c := ErrMissingDelegate("Tooltip")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)

	wrapped := fmt.Errorf("render: %w", a)
	assert.ErrorIs(t, wrapped, b)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, ErrCodeInternalError, "x"))

	inner := ErrMissingChildren("AlertDescription")
	outer := Wrap(inner, ErrorTypeValidation, ErrCodeInvalidProp, "bad story")

	assert.Equal(t, "AlertDescription", outer.Component)
	assert.True(t, outer.Recoverable)
	assert.True(t, HasErrorCode(outer, ErrCodeMissingChildren))
	assert.True(t, IsConfigurationError(outer))
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		configuration bool
		delegate      bool
		notFound      bool
		recoverable   bool
	}{
		{"nil", nil, false, false, false, false},
		{"plain", fmt.Errorf("boom"), false, false, false, false},
		{"unknown variant", ErrUnknownVariant("size", "xl", nil), true, false, false, false},
		{"missing delegate", ErrMissingDelegate("Tooltip"), true, false, false, false},
		{"contract", NewDelegateContractError(ErrCodeNodeRefDropped, "dropped"), false, true, false, true},
		{"not found", ErrComponentNotFound("Card"), false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.configuration, IsConfigurationError(tt.err))
			assert.Equal(t, tt.delegate, IsDelegateContractViolation(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.recoverable, IsRecoverable(tt.err))
		})
	}
}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	l.warns = append(l.warns, msg)
}

func TestErrorHandlerHandle(t *testing.T) {
	logger := &recordingLogger{}
	collector := NewErrorCollector(0)
	h := NewErrorHandler(logger, collector)
	ctx := context.Background()

	h.Handle(ctx, nil)
	h.Handle(ctx, NewDelegateContractError(ErrCodeNodeRefDropped, "dropped").WithComponent("Button"))
	h.Handle(ctx, ErrMissingChildren("Alert"))
	h.Handle(ctx, fmt.Errorf("plain"))

	assert.Equal(t, []string{"Delegate contract violation"}, logger.warns)
	assert.Equal(t, []string{"Component configuration error", "Unhandled error occurred"}, logger.errors)
	assert.Equal(t, 3, collector.Count())

	// A nil logger must not panic.
	NewErrorHandler(nil, nil).Handle(ctx, ErrMissingChildren("Alert"))
}

func TestErrorCollector(t *testing.T) {
	ec := NewErrorCollector(2)
	assert.False(t, ec.HasErrors())
	assert.Equal(t, "", ec.ErrorOverlay("Button"))

	ec.Add(nil)
	ec.Add(NewDelegateContractError(ErrCodeNodeRefDropped, "first").WithComponent("Button"))
	ec.Add(NewDelegateContractError(ErrCodeNodeRefDropped, "second <b>").WithComponent("Button"))
	ec.Add(ErrMissingDelegate("Tooltip"))

	reports := ec.Reports()
	require.Len(t, reports, 2)
	assert.Contains(t, reports[0].Message, "second")
	assert.Equal(t, "Tooltip", reports[1].Component)
	assert.Equal(t, ErrorTypeConfiguration, reports[1].Type)

	overlay := ec.ErrorOverlay("Button")
	assert.Contains(t, overlay, "NODE_REF_DROPPED")
	assert.Contains(t, overlay, "second &lt;b&gt;")
	assert.NotContains(t, overlay, "first")

	ec.Clear()
	assert.Equal(t, 0, ec.Count())
}
