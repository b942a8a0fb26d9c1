package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/filter"
	"github.com/spf13/pflag"
)

// priorityFlag is a pflag.Value accepting P0, P1, P2 or ALL.
type priorityFlag struct {
	value domain.Priority
}

var _ pflag.Value = (*priorityFlag)(nil)

func newPriorityFlag() *priorityFlag {
	return &priorityFlag{value: filter.All}
}

func (f *priorityFlag) String() string { return string(f.value) }
func (f *priorityFlag) Type() string { return "priority" }

func (f *priorityFlag) Set(s string) error {
	if strings.EqualFold(strings.TrimSpace(s), string(filter.All)) {
		f.value = filter.All
		return nil
	}
	p, err := domain.ParsePriority(s)
	if err != nil {
		return err
	}
	f.value = p
	return nil
}

// validateNonEmpty rejects blank input.
func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}
