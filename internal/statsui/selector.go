package statsui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/rankview/internal/model"
)

const notApplicable = "n/a"

// selector is one cascading dropdown of the dashboard.
type selector struct {
	name     string
	options  []model.Option
	index    int
	disabled bool
}

func newSelector(name string) *selector {
	return &selector{name: name}
}

func (s *selector) value() string {
	if s.disabled || len(s.options) == 0 {
		return ""
	}
	return s.options[s.index].Value
}

func (s *selector) label() string {
	if s.disabled {
		return notApplicable
	}
	if len(s.options) == 0 {
		return "-"
	}
	return s.options[s.index].Label
}

// setOptions replaces the options, keeping the current value when it is still
// offered and falling back to the first option otherwise.
func (s *selector) setOptions(options []model.Option) {
	current := s.value()
	s.options = options
	s.disabled = false
	s.index = 0
	for i, o := range options {
		if o.Value == current {
			s.index = i
			return
		}
	}
}

func (s *selector) setValues(values []string) {
	s.setOptions(valueOptions(values))
}

func valueOptions(values []string) []model.Option {
	options := make([]model.Option, len(values))
	for i, v := range values {
		options[i] = model.Option{Value: v, Label: v}
	}
	return options
}

func (s *selector) disable() {
	s.disabled = true
}

func (s *selector) cycle(delta int) bool {
	if s.disabled || len(s.options) < 2 {
		return false
	}
	s.index = (s.index + delta + len(s.options)) % len(s.options)
	return true
}

// choose selects the option whose value or label matches raw.
func (s *selector) choose(raw string) error {
	if s.disabled {
		return fmt.Errorf("%s is not available for this metric", s.name)
	}
	for i, o := range s.options {
		if o.Value == raw || o.Label == raw {
			s.index = i
			return nil
		}
	}
	trimmed := strings.TrimSpace(raw)
	for i, o := range s.options {
		if strings.EqualFold(o.Value, trimmed) || strings.EqualFold(o.Label, trimmed) {
			s.index = i
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", s.name, raw)
}
