package application

import (
	"github.com/sirupsen/logrus"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/logging"
)

// Registry assembles the tool catalog for discovery requests.
// The catalog order is the fixed declaration order of the groups and of
// the tools within each group; filtering only removes entries, it never
// reorders them. Discovery triggers no backend calls.
type Registry struct {
	groups []ToolGroup
	filter *ToolFilter
	log    *logrus.Entry
}

// NewRegistry creates a Registry over the given tool groups.
// Groups are walked in the order provided.
func NewRegistry(filter *ToolFilter, groups ...ToolGroup) *Registry {
	return &Registry{
		groups: groups,
		filter: filter,
		log:    logging.Component("registry"),
	}
}

// ListTools returns the catalog: every admitted tool definition, in fixed
// order, passed through metadata enhancement.
func (r *Registry) ListTools() []domain.ToolDefinition {
	var tools []domain.ToolDefinition
	for _, group := range r.groups {
		for _, def := range group.Tools() {
			if !r.filter.IsEnabled(def.Name) {
				continue
			}
			tools = append(tools, Enhance(def))
		}
	}

	r.log.WithField("count", len(tools)).Debug("tool catalog assembled")
	return tools
}
