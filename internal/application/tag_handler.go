package application

import (
	"context"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for tag operations
const (
	ToolGetSpaceTags      = "get_space_tags"
	ToolAddTagToTask      = "add_tag_to_task"
	ToolRemoveTagFromTask = "remove_tag_from_task"
)

// TagHandler exposes tag tools backed by the ClickUp client. Tags are
// defined at the space level; a tag must exist in the space before it can
// be applied to a task.
type TagHandler struct {
	client *infrastructure.ClickUpClient
}

// NewTagHandler creates a new TagHandler instance.
func NewTagHandler(client *infrastructure.ClickUpClient) *TagHandler {
	return &TagHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *TagHandler) GroupName() string {
	return "tag"
}

// Tools returns the tag tool definitions in catalog order.
func (h *TagHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolGetSpaceTags,
			Description: "List the tags defined in a space",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"spaceId": map[string]interface{}{
						"type":        "string",
						"description": "The space id",
					},
				},
				Required: []string{"spaceId"},
			},
		},
		{
			Name:        ToolAddTagToTask,
			Description: "Apply an existing space tag to a task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
					"tagName": map[string]interface{}{
						"type":        "string",
						"description": "Name of the tag to apply",
					},
				},
				Required: []string{"taskId", "tagName"},
			},
		},
		{
			Name:        ToolRemoveTagFromTask,
			Description: "Remove a tag from a task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
					"tagName": map[string]interface{}{
						"type":        "string",
						"description": "Name of the tag to remove",
					},
				},
				Required: []string{"taskId", "tagName"},
			},
		},
	}
}

// Bindings returns the handler for each tag tool.
func (h *TagHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolGetSpaceTags:      h.getSpaceTags,
		ToolAddTagToTask:      h.addTagToTask,
		ToolRemoveTagFromTask: h.removeTagFromTask,
	}
}

func (h *TagHandler) getSpaceTags(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	spaceID, err := getStringParam(args, "spaceId", true)
	if err != nil {
		return nil, err
	}

	tags, err := h.client.GetSpaceTags(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{"tags": tags})
}

func (h *TagHandler) addTagToTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, tagName, err := tagArgs(args)
	if err != nil {
		return nil, err
	}

	if err := h.client.AddTagToTask(ctx, taskID, tagName); err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{
		"tagged":  true,
		"taskId":  taskID,
		"tagName": tagName,
	})
}

func (h *TagHandler) removeTagFromTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, tagName, err := tagArgs(args)
	if err != nil {
		return nil, err
	}

	if err := h.client.RemoveTagFromTask(ctx, taskID, tagName); err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{
		"removed": true,
		"taskId":  taskID,
		"tagName": tagName,
	})
}

func tagArgs(args map[string]interface{}) (string, string, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return "", "", err
	}
	tagName, err := getStringParam(args, "tagName", true)
	if err != nil {
		return "", "", err
	}
	return taskID, tagName, nil
}
