package application

import (
	"context"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for folder operations
const (
	ToolCreateFolder = "create_folder"
	ToolGetFolder    = "get_folder"
	ToolUpdateFolder = "update_folder"
	ToolDeleteFolder = "delete_folder"
)

// FolderHandler exposes folder tools backed by the ClickUp client.
type FolderHandler struct {
	client *infrastructure.ClickUpClient
}

// NewFolderHandler creates a new FolderHandler instance.
func NewFolderHandler(client *infrastructure.ClickUpClient) *FolderHandler {
	return &FolderHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *FolderHandler) GroupName() string {
	return "folder"
}

// Tools returns the folder tool definitions in catalog order.
func (h *FolderHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolCreateFolder,
			Description: "Create a folder in a space",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"spaceId": map[string]interface{}{
						"type":        "string",
						"description": "The space to create the folder in",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The folder name",
					},
				},
				Required: []string{"spaceId", "name"},
			},
		},
		{
			Name:        ToolGetFolder,
			Description: "Retrieve a folder by its id, including its lists",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"folderId": map[string]interface{}{
						"type":        "string",
						"description": "The folder id",
					},
				},
				Required: []string{"folderId"},
			},
		},
		{
			Name:        ToolUpdateFolder,
			Description: "Rename a folder",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"folderId": map[string]interface{}{
						"type":        "string",
						"description": "The folder id",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new folder name",
					},
				},
				Required: []string{"folderId", "name"},
			},
		},
		{
			Name:        ToolDeleteFolder,
			Description: "Permanently delete a folder and its lists",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"folderId": map[string]interface{}{
						"type":        "string",
						"description": "The folder id",
					},
				},
				Required: []string{"folderId"},
			},
		},
	}
}

// Bindings returns the handler for each folder tool.
func (h *FolderHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolCreateFolder: h.createFolder,
		ToolGetFolder:    h.getFolder,
		ToolUpdateFolder: h.updateFolder,
		ToolDeleteFolder: h.deleteFolder,
	}
}

func (h *FolderHandler) createFolder(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	spaceID, err := getStringParam(args, "spaceId", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	folder, err := h.client.CreateFolder(ctx, spaceID, map[string]interface{}{"name": name})
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(folder)
}

func (h *FolderHandler) getFolder(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	folderID, err := getStringParam(args, "folderId", true)
	if err != nil {
		return nil, err
	}

	folder, err := h.client.GetFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(folder)
}

func (h *FolderHandler) updateFolder(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	folderID, err := getStringParam(args, "folderId", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	folder, err := h.client.UpdateFolder(ctx, folderID, map[string]interface{}{"name": name})
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(folder)
}

func (h *FolderHandler) deleteFolder(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	folderID, err := getStringParam(args, "folderId", true)
	if err != nil {
		return nil, err
	}

	if err := h.client.DeleteFolder(ctx, folderID); err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{
		"deleted":  true,
		"folderId": folderID,
	})
}
