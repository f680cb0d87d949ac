//go:build property
// +build property

package twmerge

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var sampleClasses = []interface{}{
	"bg-primary", "bg-secondary", "hover:bg-accent", "text-sm", "text-lg",
	"text-primary-foreground", "border", "border-input", "rounded-md",
	"rounded-lg", "px-3", "px-4", "py-2", "p-4", "h-9", "h-10", "w-10",
	"size-4", "ring-2", "ring-ring", "ring-offset-2", "ring-offset-background",
	"leading-none", "font-medium", "[&>svg]:text-foreground", "dark:border-destructive",
	"mt-2", "my-widget", "inline-flex", "hidden",
}

func classList() gopter.Gen {
	return gen.SliceOf(gen.OneConstOf(sampleClasses...)).Map(func(classes []string) string {
		return strings.Join(classes, " ")
	})
}

func TestMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merge is deterministic", prop.ForAll(
		func(a, b string) bool {
			return Merge(a, b) == Merge(a, b)
		},
		classList(), classList(),
	))

	properties.Property("merge is idempotent", prop.ForAll(
		func(a, b string) bool {
			once := Merge(a, b)
			return Merge(once) == once
		},
		classList(), classList(),
	))

	properties.Property("output is a subset of the input", prop.ForAll(
		func(a, b string) bool {
			input := make(map[string]bool)
			for _, c := range strings.Fields(a + " " + b) {
				input[c] = true
			}
			for _, c := range strings.Fields(Merge(a, b)) {
				if !input[c] {
					return false
				}
			}
			return true
		},
		classList(), classList(),
	))

	properties.Property("the last class always survives", prop.ForAll(
		func(a, b string) bool {
			fields := strings.Fields(a + " " + b)
			if len(fields) == 0 {
				return Merge(a, b) == ""
			}
			merged := strings.Fields(Merge(a, b))
			return merged[len(merged)-1] == fields[len(fields)-1]
		},
		classList(), classList(),
	))

	properties.Property("an override class always survives", prop.ForAll(
		func(a string, override string) bool {
			for _, c := range strings.Fields(Merge(a, override)) {
				if c == override {
					return true
				}
			}
			return false
		},
		classList(), gen.OneConstOf(sampleClasses...),
	))

	properties.TestingRun(t)
}
