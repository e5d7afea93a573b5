package application

import (
	"context"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for workspace operations
const (
	ToolGetWorkspaceHierarchy = "get_workspace_hierarchy"
)

// WorkspaceHandler exposes the workspace hierarchy tool. Reads go through
// the hierarchy cache so repeated lookups do not hammer the backend.
type WorkspaceHandler struct {
	hierarchy *infrastructure.HierarchyCache
}

// NewWorkspaceHandler creates a new WorkspaceHandler instance.
func NewWorkspaceHandler(hierarchy *infrastructure.HierarchyCache) *WorkspaceHandler {
	return &WorkspaceHandler{hierarchy: hierarchy}
}

// GroupName returns the identifier for this group.
func (h *WorkspaceHandler) GroupName() string {
	return "workspace"
}

// Tools returns the workspace tool definitions.
func (h *WorkspaceHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolGetWorkspaceHierarchy,
			Description: "Retrieve the full workspace tree: every space with its folders and lists",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
	}
}

// Bindings returns the handler for each workspace tool.
func (h *WorkspaceHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolGetWorkspaceHierarchy: h.getWorkspaceHierarchy,
	}
}

func (h *WorkspaceHandler) getWorkspaceHierarchy(ctx context.Context, _ map[string]interface{}) (*domain.ToolResponse, error) {
	hierarchy, err := h.hierarchy.Lookup(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(hierarchy)
}
