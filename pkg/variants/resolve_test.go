package variants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/pkg/twmerge"
)

type tone string

type size string

var (
	toneAxis = NewAxis[tone]("variant", "default",
		Option[tone]{Value: "default", Class: "bg-primary text-primary-foreground"},
		Option[tone]{Value: "muted", Class: "bg-muted text-muted-foreground"},
		Option[tone]{Value: "plain", Class: ""},
	)
	sizeAxis = NewAxis[size]("size", "md",
		Option[size]{Value: "sm", Class: "h-9 px-3"},
		Option[size]{Value: "md", Class: "h-10 px-4"},
	)
	badge = ClassSpec{
		Name: "Badge",
		Base: "inline-flex rounded-md text-sm",
		Axes: []Selector{toneAxis, sizeAxis},
	}
)

func TestNewAxisPanics(t *testing.T) {
	assert.Panics(t, func() { NewAxis[tone]("variant", "default") })
	assert.Panics(t, func() {
		NewAxis[tone]("variant", "missing", Option[tone]{Value: "default"})
	})
	assert.Panics(t, func() {
		NewAxis[tone]("variant", "default",
			Option[tone]{Value: "default"},
			Option[tone]{Value: "default", Class: "x"},
		)
	})
}

func TestAxisAccessors(t *testing.T) {
	assert.Equal(t, "variant", toneAxis.Name())
	assert.Equal(t, tone("default"), toneAxis.Default())
	assert.Equal(t, []tone{"default", "muted", "plain"}, toneAxis.Values())
	assert.Equal(t, []string{"default", "muted", "plain"}, toneAxis.Names())
	assert.True(t, toneAxis.Contains("muted"))
	assert.False(t, toneAxis.Contains("loud"))

	class, ok := toneAxis.Fragment("plain")
	assert.True(t, ok)
	assert.Equal(t, "", class)

	info := sizeAxis.Describe()
	assert.Equal(t, "md", info.Default)
	assert.Equal(t, []OptionInfo{{Value: "sm", Class: "h-9 px-3"}, {Value: "md", Class: "h-10 px-4"}}, info.Options)
}

func TestAxisSelect(t *testing.T) {
	sel, err := toneAxis.Select("muted")
	require.NoError(t, err)
	assert.Equal(t, Selection{Axis: "variant", Value: "muted", Fragment: "bg-muted text-muted-foreground"}, sel)

	sel, err = toneAxis.Select("")
	require.NoError(t, err)
	assert.Equal(t, "default", sel.Value)

	_, err = toneAxis.Select("loud")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.True(t, errors.HasErrorCode(err, errors.ErrCodeUnknownVariant))

	_, err = sizeAxis.SelectString("xl")
	assert.True(t, errors.IsConfigurationError(err))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		selections []Selection
		override   string
		expected   string
	}{
		{
			name:     "base only",
			base:     "mb-1 font-medium",
			expected: "mb-1 font-medium",
		},
		{
			name:     "override appended",
			base:     "mb-1 font-medium",
			override: "mt-2",
			expected: "mb-1 font-medium mt-2",
		},
		{
			name:       "later selection wins",
			base:       "bg-background p-4",
			selections: []Selection{{Axis: "variant", Fragment: "bg-primary text-primary-foreground"}},
			expected:   "p-4 bg-primary text-primary-foreground",
		},
		{
			name:       "override wins over selection",
			base:       "rounded-md",
			selections: []Selection{{Axis: "variant", Fragment: "bg-primary text-primary-foreground"}},
			override:   "bg-secondary",
			expected:   "rounded-md text-primary-foreground bg-secondary",
		},
		{
			name:       "empty fragment",
			base:       "rounded-md",
			selections: []Selection{{Axis: "variant"}},
			expected:   "rounded-md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.base, tt.selections, tt.override))
		})
	}
}

func TestClassSpecResolve(t *testing.T) {
	muted, _ := toneAxis.Select("muted")
	sm, _ := sizeAxis.Select("sm")

	class, err := badge.Resolve("mt-2", muted, sm)
	require.NoError(t, err)
	assert.Equal(t, "inline-flex rounded-md text-sm bg-muted text-muted-foreground h-9 px-3 mt-2", class)

	_, err = badge.Resolve("", muted)
	assert.True(t, errors.HasErrorCode(err, errors.ErrCodeAxisMismatch))

	_, err = badge.Resolve("", sm, muted)
	assert.True(t, errors.HasErrorCode(err, errors.ErrCodeAxisMismatch))
	assert.Contains(t, err.Error(), "component:Badge")
}

func TestClassSpecResolveStrings(t *testing.T) {
	class, err := badge.ResolveStrings(map[string]string{"size": "sm"}, "px-6")
	require.NoError(t, err)
	assert.Equal(t, "inline-flex rounded-md text-sm bg-primary text-primary-foreground h-9 px-6", class)

	_, err = badge.ResolveStrings(map[string]string{"variant": "loud"}, "")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "component:Badge")
}

func TestClassSpecDefault(t *testing.T) {
	// No conflicts between base and defaults, so the default class is the
	// plain concatenation.
	assert.Equal(t, badge.Fragments(
		Selection{Fragment: "bg-primary text-primary-foreground"},
		Selection{Fragment: "h-10 px-4"},
	), badge.Default())

	titleSpec := ClassSpec{Name: "Title", Base: "mb-1 font-medium leading-none"}
	assert.Equal(t, "mb-1 font-medium leading-none", titleSpec.Default())
}

func TestSetMerger(t *testing.T) {
	t.Cleanup(func() { SetMerger(nil) })

	base := "text-shadow-lg text-primary"
	assert.Equal(t, "text-shadow-sm", Resolve(base, nil, "text-shadow-sm"))

	SetMerger(twmerge.New(twmerge.WithGroup("text-shadow", "text-shadow")))
	assert.Equal(t, "text-primary text-shadow-sm", Resolve(base, nil, "text-shadow-sm"))
}

func TestResolveDeterministic(t *testing.T) {
	sel, _ := toneAxis.Select("muted")
	first := Resolve("bg-background px-2", []Selection{sel}, "px-4")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve("bg-background px-2", []Selection{sel}, "px-4"))
	}
	assert.Equal(t, 1, strings.Count(first, "px-"))
}
