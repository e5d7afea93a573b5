package application

import (
	"context"
	"net/url"
	"strconv"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for document operations. The whole group is gated
// behind the document_support config flag: when the flag is off these
// tools are neither listed nor dispatchable.
const (
	ToolCreateDocument     = "create_document"
	ToolGetDocument        = "get_document"
	ToolListDocuments      = "list_documents"
	ToolListDocumentPages  = "list_document_pages"
	ToolGetDocumentPages   = "get_document_pages"
	ToolCreateDocumentPage = "create_document_page"
	ToolUpdateDocumentPage = "update_document_page"
)

// DocumentHandler exposes doc tools backed by the ClickUp v3 API.
type DocumentHandler struct {
	client *infrastructure.ClickUpClient
}

// NewDocumentHandler creates a new DocumentHandler instance.
func NewDocumentHandler(client *infrastructure.ClickUpClient) *DocumentHandler {
	return &DocumentHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *DocumentHandler) GroupName() string {
	return "document"
}

// Tools returns the document tool definitions in catalog order.
func (h *DocumentHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolCreateDocument,
			Description: "Create a doc in the workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The doc name",
					},
					"parentId": map[string]interface{}{
						"type":        "string",
						"description": "Id of the space, folder, or list to attach the doc to",
					},
					"parentType": map[string]interface{}{
						"type":        "integer",
						"description": "Parent type code (4=space, 5=folder, 6=list, 7=workspace)",
					},
					"visibility": map[string]interface{}{
						"type":        "string",
						"description": "Doc visibility: PUBLIC or PRIVATE",
					},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        ToolGetDocument,
			Description: "Retrieve a doc by its id",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"documentId": map[string]interface{}{
						"type":        "string",
						"description": "The doc id",
					},
				},
				Required: []string{"documentId"},
			},
		},
		{
			Name:        ToolListDocuments,
			Description: "Search docs in the workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"parentId": map[string]interface{}{
						"type":        "string",
						"description": "Only return docs under this parent id",
					},
					"limit": map[string]interface{}{
						"type": "integer",
					},
				},
			},
		},
		{
			Name:        ToolListDocumentPages,
			Description: "Retrieve the page tree of a doc (titles only)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"documentId": map[string]interface{}{
						"type":        "string",
						"description": "The doc id",
					},
				},
				Required: []string{"documentId"},
			},
		},
		{
			Name:        ToolGetDocumentPages,
			Description: "Retrieve the full content of a doc's pages",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"documentId": map[string]interface{}{
						"type":        "string",
						"description": "The doc id",
					},
				},
				Required: []string{"documentId"},
			},
		},
		{
			Name:        ToolCreateDocumentPage,
			Description: "Add a page to a doc",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"documentId": map[string]interface{}{
						"type":        "string",
						"description": "The doc id",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The page title",
					},
					"content": map[string]interface{}{
						"type":        "string",
						"description": "Page content as markdown",
					},
					"parentPageId": map[string]interface{}{
						"type":        "string",
						"description": "Create the page under this page (optional)",
					},
				},
				Required: []string{"documentId", "name"},
			},
		},
		{
			Name:        ToolUpdateDocumentPage,
			Description: "Edit the title or content of a doc page",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"documentId": map[string]interface{}{
						"type":        "string",
						"description": "The doc id",
					},
					"pageId": map[string]interface{}{
						"type":        "string",
						"description": "The page id",
					},
					"name": map[string]interface{}{
						"type": "string",
					},
					"content": map[string]interface{}{
						"type":        "string",
						"description": "New page content as markdown",
					},
				},
				Required: []string{"documentId", "pageId"},
			},
		},
	}
}

// Bindings returns the handler for each document tool.
func (h *DocumentHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolCreateDocument:     h.createDocument,
		ToolGetDocument:        h.getDocument,
		ToolListDocuments:      h.listDocuments,
		ToolListDocumentPages:  h.listDocumentPages,
		ToolGetDocumentPages:   h.getDocumentPages,
		ToolCreateDocumentPage: h.createDocumentPage,
		ToolUpdateDocumentPage: h.updateDocumentPage,
	}
}

func (h *DocumentHandler) createDocument(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{"name": name}

	parentID, err := getStringParam(args, "parentId", false)
	if err != nil {
		return nil, err
	}
	if parentID != "" {
		parentType, err := getIntParam(args, "parentType", false)
		if err != nil {
			return nil, err
		}
		parent := map[string]interface{}{"id": parentID}
		if parentType != 0 {
			parent["type"] = parentType
		}
		payload["parent"] = parent
	}

	visibility, err := getStringParam(args, "visibility", false)
	if err != nil {
		return nil, err
	}
	if visibility != "" {
		payload["visibility"] = visibility
	}

	result, err := h.client.CreateDocument(ctx, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *DocumentHandler) getDocument(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	docID, err := getStringParam(args, "documentId", true)
	if err != nil {
		return nil, err
	}

	result, err := h.client.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *DocumentHandler) listDocuments(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	query := url.Values{}

	parentID, err := getStringParam(args, "parentId", false)
	if err != nil {
		return nil, err
	}
	if parentID != "" {
		query.Set("parent_id", parentID)
	}

	if _, ok := args["limit"]; ok {
		limit, err := getIntParam(args, "limit", false)
		if err != nil {
			return nil, err
		}
		query.Set("limit", strconv.Itoa(limit))
	}

	result, err := h.client.ListDocuments(ctx, query)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *DocumentHandler) listDocumentPages(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	docID, err := getStringParam(args, "documentId", true)
	if err != nil {
		return nil, err
	}

	result, err := h.client.ListDocumentPages(ctx, docID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *DocumentHandler) getDocumentPages(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	docID, err := getStringParam(args, "documentId", true)
	if err != nil {
		return nil, err
	}

	result, err := h.client.GetDocumentPages(ctx, docID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *DocumentHandler) createDocumentPage(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	docID, err := getStringParam(args, "documentId", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{"name": name}

	content, err := getStringParam(args, "content", false)
	if err != nil {
		return nil, err
	}
	if content != "" {
		payload["content"] = content
	}

	parentPageID, err := getStringParam(args, "parentPageId", false)
	if err != nil {
		return nil, err
	}
	if parentPageID != "" {
		payload["parent_page_id"] = parentPageID
	}

	result, err := h.client.CreateDocumentPage(ctx, docID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *DocumentHandler) updateDocumentPage(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	docID, err := getStringParam(args, "documentId", true)
	if err != nil {
		return nil, err
	}
	pageID, err := getStringParam(args, "pageId", true)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]interface{})

	name, err := getStringParam(args, "name", false)
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

	if len(payload) == 0 {
		return nil, domain.NewValidationError("at least one of name or content is required")
	}

	result, err := h.client.UpdateDocumentPage(ctx, docID, pageID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}
