package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tessera/internal/errors"
)

const storiesYAML = `
components:
  Button:
    - name: Danger
      description: Irreversible action
      props:
        variant: destructive
        size: lg
        children: Delete account
    - name: Default
      props:
        children: Overridden
  Alert:
    - name: Warning
      props:
        class: border-yellow-500
        children: Check your settings.
`

func writeStories(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stories.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExamples(t *testing.T) {
	examples, err := LoadExamples(writeStories(t, storiesYAML))
	require.NoError(t, err)

	require.Len(t, examples["Button"], 2)
	danger := examples["Button"][0]
	assert.Equal(t, "Danger", danger.Name)
	assert.Equal(t, "Irreversible action", danger.Description)
	assert.Equal(t, map[string]string{"variant": "destructive", "size": "lg", "children": "Delete account"}, danger.Props)
	assert.Len(t, examples["Alert"], 1)
}

func TestLoadExamples_Errors(t *testing.T) {
	_, err := LoadExamples(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.HasErrorCode(err, errors.ErrCodeFileNotFound))

	_, err = LoadExamples(writeStories(t, "components:\n  Button:\n    - name: X\n      colour: red\n"))
	require.Error(t, err)
	assert.True(t, errors.HasErrorType(err, errors.ErrorTypeConfig))

	_, err = LoadExamples(writeStories(t, "components: [1, 2"))
	assert.Error(t, err)
}

func TestParseExamples_Empty(t *testing.T) {
	examples, err := ParseExamples(nil)
	require.NoError(t, err)
	assert.Empty(t, examples)
}

func TestApplyExamples(t *testing.T) {
	r := builtinRegistry()
	examples, err := ParseExamples([]byte(storiesYAML))
	require.NoError(t, err)

	watcher := r.Watch()
	require.NoError(t, r.ApplyExamples(examples))

	button, _ := r.Get("Button")
	require.Len(t, button.Stories, 2)
	ex, ok := button.Example("Default")
	require.True(t, ok)
	assert.Equal(t, "Overridden", ex.Props["children"])
	assert.Len(t, button.AllExamples(), len(button.Examples)+1)

	updated := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case event := <-watcher:
			assert.Equal(t, EventTypeUpdated, event.Type)
			updated[event.Component.Name] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("expected an update event per component with stories")
		}
	}
	assert.Equal(t, map[string]bool{"Alert": true, "Button": true}, updated)

	// A reload without Alert drops its stories.
	require.NoError(t, r.ApplyExamples(map[string][]Example{"Button": examples["Button"]}))
	alert, _ := r.Get("Alert")
	assert.Empty(t, alert.Stories)
}

func TestApplyExamples_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		examples map[string][]Example
		code     string
	}{
		{
			name:     "unknown component",
			examples: map[string][]Example{"Card": {{Name: "Default"}}},
			code:     errors.ErrCodeComponentNotFound,
		},
		{
			name:     "unknown variant",
			examples: map[string][]Example{"Button": {{Name: "Huge", Props: map[string]string{"size": "xl"}}}},
			code:     errors.ErrCodeUnknownVariant,
		},
		{
			name:     "unknown prop",
			examples: map[string][]Example{"Button": {{Name: "Color", Props: map[string]string{"color": "red"}}}},
			code:     errors.ErrCodeInvalidProp,
		},
		{
			name:     "missing name",
			examples: map[string][]Example{"Alert": {{Props: map[string]string{"children": "x"}}}},
			code:     errors.ErrCodeInvalidProp,
		},
		{
			name:     "duplicate name",
			examples: map[string][]Example{"Alert": {{Name: "A"}, {Name: "A"}}},
			code:     errors.ErrCodeInvalidProp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := builtinRegistry()
			err := r.ApplyExamples(tt.examples)
			require.Error(t, err)
			assert.True(t, errors.HasErrorCode(err, tt.code), err.Error())

			for _, info := range r.GetAll() {
				assert.Empty(t, info.Stories)
			}
		})
	}
}

func TestValidateProps_AxisOfTooltip(t *testing.T) {
	tooltip, _ := builtinRegistry().Get("Tooltip")
	// Tooltip has no axes of its own; its variant goes to the trigger.
	assert.NoError(t, ValidateProps(tooltip, map[string]string{"variant": "anything"}))
}
