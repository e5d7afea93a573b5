package application

import "fmt"

// ToolFilter decides which tools are admitted, from an allow-list and a
// deny-list of tool names.
//
// A non-empty allow-list is authoritative: only listed names are admitted
// and the deny-list is ignored entirely, even if both are set. The
// deny-list is consulted only when the allow-list is empty. With both
// empty, every name is admitted.
type ToolFilter struct {
	enabled  []string
	disabled []string
}

// NewToolFilter creates a filter from the configured tool lists.
func NewToolFilter(enabled, disabled []string) *ToolFilter {
	return &ToolFilter{enabled: enabled, disabled: disabled}
}

// IsEnabled reports whether the named tool is admitted.
// The decision is a pure function of the name and the two lists.
func (f *ToolFilter) IsEnabled(name string) bool {
	if len(f.enabled) > 0 {
		return contains(f.enabled, name)
	}
	if len(f.disabled) > 0 {
		return !contains(f.disabled, name)
	}
	return true
}

// RejectionReason returns the client-facing message for a name the filter
// rejected, distinguishing allow-list exclusion from deny-list exclusion.
func (f *ToolFilter) RejectionReason(name string) string {
	if len(f.enabled) > 0 {
		return fmt.Sprintf("Tool %s is not in the enabled tools list", name)
	}
	return fmt.Sprintf("Tool %s is disabled", name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
