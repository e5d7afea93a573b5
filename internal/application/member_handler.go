package application

import (
	"context"
	"strings"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for member operations
const (
	ToolGetWorkspaceMembers = "get_workspace_members"
	ToolFindMemberByName    = "find_member_by_name"
	ToolResolveAssignees    = "resolve_assignees"
)

// MemberHandler exposes workspace member lookup tools. Member resolution
// matches on username or email, case-insensitively.
type MemberHandler struct {
	client *infrastructure.ClickUpClient
}

// NewMemberHandler creates a new MemberHandler instance.
func NewMemberHandler(client *infrastructure.ClickUpClient) *MemberHandler {
	return &MemberHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *MemberHandler) GroupName() string {
	return "member"
}

// Tools returns the member tool definitions.
func (h *MemberHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolGetWorkspaceMembers,
			Description: "List all members of the workspace",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
		{
			Name:        ToolFindMemberByName,
			Description: "Find a workspace member by username or email",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Username or email to look up (case-insensitive)",
					},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        ToolResolveAssignees,
			Description: "Resolve usernames or emails to member ids for task assignment",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"assignees": map[string]interface{}{
						"type":        "array",
						"description": "Usernames or emails to resolve",
						"items":       map[string]interface{}{"type": "string"},
					},
				},
				Required: []string{"assignees"},
			},
		},
	}
}

// Bindings returns the handler for each member tool.
func (h *MemberHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolGetWorkspaceMembers: h.getWorkspaceMembers,
		ToolFindMemberByName:    h.findMemberByName,
		ToolResolveAssignees:    h.resolveAssignees,
	}
}

func (h *MemberHandler) getWorkspaceMembers(ctx context.Context, _ map[string]interface{}) (*domain.ToolResponse, error) {
	workspace, err := h.client.GetWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{"members": workspace.Members})
}

func (h *MemberHandler) findMemberByName(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	workspace, err := h.client.GetWorkspace(ctx)
	if err != nil {
		return nil, err
	}

	member := matchMember(workspace.Members, name)
	if member == nil {
		return domain.NewJSONResponse(map[string]interface{}{
			"found":  false,
			"member": nil,
		})
	}

	return domain.NewJSONResponse(map[string]interface{}{
		"found":  true,
		"member": member,
	})
}

func (h *MemberHandler) resolveAssignees(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	assignees, err := getStringArrayParam(args, "assignees", true)
	if err != nil {
		return nil, err
	}
	if len(assignees) == 0 {
		return nil, domain.NewValidationError("assignees must not be empty")
	}

	workspace, err := h.client.GetWorkspace(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]int, 0, len(assignees))
	var unresolved []string
	for _, assignee := range assignees {
		if member := matchMember(workspace.Members, assignee); member != nil {
			resolved = append(resolved, member.ID)
		} else {
			unresolved = append(unresolved, assignee)
		}
	}

	return domain.NewJSONResponse(map[string]interface{}{
		"resolved":   resolved,
		"unresolved": unresolved,
	})
}

// matchMember finds a member whose username or email equals the query,
// ignoring case. Returns nil if no member matches.
func matchMember(members []domain.Member, query string) *domain.Member {
	for i := range members {
		if strings.EqualFold(members[i].Username, query) || strings.EqualFold(members[i].Email, query) {
			return &members[i]
		}
	}
	return nil
}
