package application

import (
	"context"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for list operations
const (
	ToolCreateList         = "create_list"
	ToolCreateListInFolder = "create_list_in_folder"
	ToolGetList            = "get_list"
	ToolUpdateList         = "update_list"
	ToolDeleteList         = "delete_list"
)

// ListHandler exposes list tools backed by the ClickUp client.
type ListHandler struct {
	client *infrastructure.ClickUpClient
}

// NewListHandler creates a new ListHandler instance.
func NewListHandler(client *infrastructure.ClickUpClient) *ListHandler {
	return &ListHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *ListHandler) GroupName() string {
	return "list"
}

// Tools returns the list tool definitions in catalog order.
func (h *ListHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolCreateList,
			Description: "Create a list directly in a space (outside any folder)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"spaceId": map[string]interface{}{
						"type":        "string",
						"description": "The space to create the list in",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The list name",
					},
					"content": map[string]interface{}{
						"type":        "string",
						"description": "List description (optional)",
					},
				},
				Required: []string{"spaceId", "name"},
			},
		},
		{
			Name:        ToolCreateListInFolder,
			Description: "Create a list inside a folder",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"folderId": map[string]interface{}{
						"type":        "string",
						"description": "The folder to create the list in",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The list name",
					},
					"content": map[string]interface{}{
						"type": "string",
					},
				},
				Required: []string{"folderId", "name"},
			},
		},
		{
			Name:        ToolGetList,
			Description: "Retrieve a list by its id",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The list id",
					},
				},
				Required: []string{"listId"},
			},
		},
		{
			Name:        ToolUpdateList,
			Description: "Update the name or description of a list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The list id",
					},
					"name": map[string]interface{}{
						"type": "string",
					},
					"content": map[string]interface{}{
						"type": "string",
					},
				},
				Required: []string{"listId"},
			},
		},
		{
			Name:        ToolDeleteList,
			Description: "Permanently delete a list and all its tasks",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The list id",
					},
				},
				Required: []string{"listId"},
			},
		},
	}
}

// Bindings returns the handler for each list tool.
func (h *ListHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolCreateList:         h.createList,
		ToolCreateListInFolder: h.createListInFolder,
		ToolGetList:            h.getList,
		ToolUpdateList:         h.updateList,
		ToolDeleteList:         h.deleteList,
	}
}

func (h *ListHandler) createList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	spaceID, err := getStringParam(args, "spaceId", true)
	if err != nil {
		return nil, err
	}
	payload, err := buildListPayload(args, true)
	if err != nil {
		return nil, err
	}

	list, err := h.client.CreateList(ctx, spaceID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(list)
}

func (h *ListHandler) createListInFolder(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	folderID, err := getStringParam(args, "folderId", true)
	if err != nil {
		return nil, err
	}
	payload, err := buildListPayload(args, true)
	if err != nil {
		return nil, err
	}

	list, err := h.client.CreateListInFolder(ctx, folderID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(list)
}

func (h *ListHandler) getList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}

	list, err := h.client.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(list)
}

func (h *ListHandler) updateList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}
	payload, err := buildListPayload(args, false)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, domain.NewValidationError("at least one field to update is required")
	}

	list, err := h.client.UpdateList(ctx, listID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(list)
}

func (h *ListHandler) deleteList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}

	if err := h.client.DeleteList(ctx, listID); err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{
		"deleted": true,
		"listId":  listID,
	})
}

func buildListPayload(args map[string]interface{}, forCreate bool) (map[string]interface{}, error) {
	payload := make(map[string]interface{})

	name, err := getStringParam(args, "name", forCreate)
	if err != nil {
		return nil, err
	}
	if name != "" {
		payload["name"] = name
	}

	content, err := getStringParam(args, "content", false)
	if err != nil {
		return nil, err
	}
	if content != "" {
		payload["content"] = content
	}

	return payload, nil
}
