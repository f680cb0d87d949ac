//go:build property

package watcher

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties checks how a batch is built from pending events.
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	flushed := func(paths []int, types []int) []ChangeEvent {
		d := newDebouncer(time.Hour)
		for i, p := range paths {
			d.addEvent(ChangeEvent{Path: fmt.Sprintf("f%d.yml", p), Type: EventType(types[i%len(types)] % 4)})
		}
		d.stop()
		d.flush()
		select {
		case events := <-d.output:
			return events
		default:
			return nil
		}
	}

	properties.Property("one event per path, sorted by path", prop.ForAll(
		func(paths []int, types []int) bool {
			events := flushed(paths, types)

			distinct := map[string]bool{}
			for _, p := range paths {
				distinct[fmt.Sprintf("f%d.yml", p)] = true
			}
			if len(events) != len(distinct) {
				return false
			}
			return sort.SliceIsSorted(events, func(i, j int) bool { return events[i].Path < events[j].Path })
		},
		gen.SliceOfN(20, gen.IntRange(0, 5)),
		gen.SliceOfN(3, gen.IntRange(0, 3)),
	))

	properties.Property("the last event for a path wins", prop.ForAll(
		func(paths []int, types []int) bool {
			last := map[string]EventType{}
			for i, p := range paths {
				last[fmt.Sprintf("f%d.yml", p)] = EventType(types[i%len(types)] % 4)
			}
			for _, e := range flushed(paths, types) {
				if last[e.Path] != e.Type {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(20, gen.IntRange(0, 5)),
		gen.SliceOfN(3, gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
