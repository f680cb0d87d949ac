// Package twmerge merges Tailwind CSS class lists, dropping earlier utilities
// that are overridden by later ones.
//
// Two classes conflict when they set the same CSS property under the same set
// of variant modifiers. "bg-primary" and "bg-secondary" both set the
// background colour, so in
//
//	Merge("px-4 bg-primary", "bg-secondary")
//
// only "bg-secondary" survives and the result is "px-4 bg-secondary".
// Modifiers are part of the identity of a class: "hover:bg-primary" does not
// conflict with "bg-secondary".
//
// Conflict detection for the Tailwind utilities is delegated to
// tailwind-merge-go. A Merger adds project-specific groups on top and
// collapses exact duplicates, including classes Tailwind does not know.
package twmerge

import (
	"sort"
	"strings"

	tailwind "github.com/Oudwins/tailwind-merge-go"
)

// Merger resolves class conflicts. A Merger is immutable once built and is
// safe for concurrent use.
type Merger struct {
	// groups maps a utility prefix to its custom conflict group.
	groups map[string]string
}

// Option customises a Merger.
type Option func(*Merger)

// WithGroup registers a custom conflict group. Every class whose utility is
// one of prefixes, or starts with one of prefixes followed by "-", belongs to
// the group. Custom groups take precedence over the Tailwind groups.
func WithGroup(group string, prefixes ...string) Option {
	return func(m *Merger) {
		for _, prefix := range prefixes {
			prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "-")
			if prefix == "" {
				continue
			}
			m.groups[prefix] = group
		}
	}
}

// New builds a Merger with the Tailwind groups plus opts.
func New(opts ...Option) *Merger {
	m := &Merger{groups: make(map[string]string)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMerger = New()

// Merge merges class lists with the default Merger.
func Merge(classLists ...string) string {
	return defaultMerger.Merge(classLists...)
}

// Merge joins classLists into one space-separated list. When two classes
// conflict, the one appearing later wins and the earlier one is removed. The
// surviving classes keep their relative order.
func (m *Merger) Merge(classLists ...string) string {
	var tokens []string
	for _, list := range classLists {
		tokens = append(tokens, strings.Fields(list)...)
	}
	if len(tokens) == 0 {
		return ""
	}

	kept := make([]bool, len(tokens))
	custom := make([]bool, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	claimed := make(map[string]struct{})
	var rest []string

	for i := len(tokens) - 1; i >= 0; i-- {
		token := tokens[i]
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		pc := parseClass(token)
		group := m.group(pc.utility)
		if group == "" {
			rest = append(rest, token)
			continue
		}
		custom[i] = true
		key := pc.scope() + group
		if _, taken := claimed[key]; taken {
			continue
		}
		claimed[key] = struct{}{}
		kept[i] = true
	}

	if len(rest) > 0 {
		// rest was collected back to front.
		for l, r := 0, len(rest)-1; l < r; l, r = l+1, r-1 {
			rest[l], rest[r] = rest[r], rest[l]
		}
		merged := strings.Fields(tailwind.Merge(strings.Join(rest, " ")))

		// merged is an ordered subsequence of rest; match it from the end so
		// the later copy of a token is the one kept.
		j := len(merged) - 1
		for i := len(tokens) - 1; i >= 0 && j >= 0; i-- {
			if custom[i] || tokens[i] != merged[j] {
				continue
			}
			if _, ok := seen[tokens[i]]; !ok {
				continue
			}
			delete(seen, tokens[i])
			kept[i] = true
			j--
		}
	}

	var b strings.Builder
	for i, token := range tokens {
		if !kept[i] {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(token)
	}
	return b.String()
}

// Group returns the custom conflict group of class, ignoring its modifiers,
// or "" when class belongs to no custom group.
func (m *Merger) Group(class string) string {
	return m.group(parseClass(strings.TrimSpace(class)).utility)
}

// group matches the longest registered prefix.
func (m *Merger) group(utility string) string {
	if len(m.groups) == 0 || utility == "" {
		return ""
	}
	if g, ok := m.groups[utility]; ok {
		return g
	}
	for i := len(utility) - 1; i > 0; i-- {
		if utility[i] != '-' {
			continue
		}
		if g, ok := m.groups[utility[:i]]; ok {
			return g
		}
	}
	return ""
}

// parsedClass is a class split into its variant modifiers and utility.
type parsedClass struct {
	modifiers []string
	important bool
	utility   string
}

// scope is the prefix that, together with a group, identifies which earlier
// classes a class overrides.
func (pc parsedClass) scope() string {
	var b strings.Builder
	for _, mod := range sortModifiers(pc.modifiers) {
		b.WriteString(mod)
		b.WriteByte(':')
	}
	if pc.important {
		b.WriteByte('!')
	}
	b.WriteByte('|')
	return b.String()
}

func parseClass(token string) parsedClass {
	var pc parsedClass

	depth, start := 0, 0
	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ':':
			if depth == 0 {
				pc.modifiers = append(pc.modifiers, token[start:i])
				start = i + 1
			}
		}
	}
	base := token[start:]

	if strings.HasPrefix(base, "!") {
		pc.important = true
		base = base[1:]
	} else if strings.HasSuffix(base, "!") {
		pc.important = true
		base = base[:len(base)-1]
	}
	base = strings.TrimPrefix(base, "-")
	if i := strings.LastIndexByte(base, '/'); i > 0 && !strings.ContainsAny(base[i:], "[]()") {
		base = base[:i]
	}
	pc.utility = base
	return pc
}

// sortModifiers orders modifiers alphabetically while keeping arbitrary
// variants such as "[&>svg]" fixed, since their position changes the selector.
func sortModifiers(mods []string) []string {
	if len(mods) <= 1 {
		return mods
	}
	out := make([]string, 0, len(mods))
	run := make([]string, 0, len(mods))
	for _, mod := range mods {
		if strings.HasPrefix(mod, "[") {
			sort.Strings(run)
			out = append(out, run...)
			out = append(out, mod)
			run = run[:0]
			continue
		}
		run = append(run, mod)
	}
	sort.Strings(run)
	return append(out, run...)
}
