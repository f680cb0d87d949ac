package registry

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tessera/internal/errors"
)

// storiesFile is the layout of a stories file:
//
//	components:
//	  Button:
//	    - name: Danger
//	      props: {variant: destructive, children: Delete}
type storiesFile struct {
	Components map[string][]Example `yaml:"components"`
}

// LoadExamples reads the stories file at path.
func LoadExamples(path string) (map[string][]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "stories file not found", err).
				WithContext("path", path)
		}
		return nil, errors.NewIOError(errors.ErrCodeInternalError, "cannot read stories file", err).
			WithContext("path", path)
	}

	examples, err := ParseExamples(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return examples, nil
}

// ParseExamples decodes a stories document. Unknown keys are rejected.
func ParseExamples(data []byte) (map[string][]Example, error) {
	var file storiesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "invalid stories file", err)
	}
	if file.Components == nil {
		file.Components = map[string][]Example{}
	}
	return file.Components, nil
}

// ApplyExamples replaces the stories of every component with examples.
// Components missing from examples lose their stories. Nothing changes when
// any story is invalid.
func (r *ComponentRegistry) ApplyExamples(examples map[string][]Example) error {
	names := make([]string, 0, len(examples))
	for name := range examples {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info, ok := r.Get(name)
		if !ok {
			return errors.ErrComponentNotFound(name)
		}
		if err := validateStories(info, examples[name]); err != nil {
			return err
		}
	}

	for _, info := range r.GetAll() {
		stories := examples[info.Name]
		if len(stories) == 0 && len(info.Stories) == 0 {
			continue
		}
		updated := *info
		updated.Stories = stories
		r.Register(&updated)
	}
	return nil
}

func validateStories(info *ComponentInfo, stories []Example) error {
	seen := make(map[string]bool, len(stories))
	for _, story := range stories {
		if story.Name == "" {
			return errors.NewValidationError(errors.ErrCodeInvalidProp, "story has no name").
				WithComponent(info.Name)
		}
		if seen[story.Name] {
			return errors.NewValidationError(errors.ErrCodeInvalidProp,
				fmt.Sprintf("duplicate story %q", story.Name)).WithComponent(info.Name)
		}
		seen[story.Name] = true

		if err := ValidateProps(info, story.Props); err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeInvalidProp,
				fmt.Sprintf("story %q", story.Name))
		}
	}
	return nil
}

// ValidateProps checks that every prop is known and that axis props name a
// member of their axis.
func ValidateProps(info *ComponentInfo, props map[string]string) error {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !slices.Contains(KnownProps, key) {
			return errors.NewValidationError(errors.ErrCodeInvalidProp,
				fmt.Sprintf("unknown prop %q", key)).WithComponent(info.Name)
		}
		axis, ok := info.Axis(key)
		if !ok || props[key] == "" {
			continue
		}
		allowed := make([]string, 0, len(axis.Options))
		for _, opt := range axis.Options {
			allowed = append(allowed, opt.Value)
		}
		if !slices.Contains(allowed, props[key]) {
			return errors.ErrUnknownVariant(axis.Name, props[key], allowed).WithComponent(info.Name)
		}
	}
	return nil
}
