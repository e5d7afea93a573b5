package application

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for the generic API passthrough
const (
	ToolCallClickUpAPI = "call_clickup_api"
)

var allowedPassthroughMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// APIHandler exposes the raw ClickUp API passthrough tool. It covers
// endpoints that have no dedicated tool yet.
type APIHandler struct {
	client *infrastructure.ClickUpClient
}

// NewAPIHandler creates a new APIHandler instance.
func NewAPIHandler(client *infrastructure.ClickUpClient) *APIHandler {
	return &APIHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *APIHandler) GroupName() string {
	return "api"
}

// Tools returns the passthrough tool definition.
func (h *APIHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolCallClickUpAPI,
			Description: "Call any ClickUp API endpoint directly (e.g., /api/v2/task/abc123)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"endpoint": map[string]interface{}{
						"type":        "string",
						"description": "API endpoint path, starting with /api/",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"description": "HTTP method (GET, POST, PUT, DELETE); defaults to GET",
						"enum":        []string{"GET", "POST", "PUT", "DELETE"},
					},
					"query": map[string]interface{}{
						"type":        "object",
						"description": "Query string parameters as key/value pairs",
					},
					"body": map[string]interface{}{
						"type":        "object",
						"description": "JSON request body for POST and PUT calls",
					},
				},
				Required: []string{"endpoint"},
			},
		},
	}
}

// Bindings returns the handler for the passthrough tool.
func (h *APIHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolCallClickUpAPI: h.callAPI,
	}
}

func (h *APIHandler) callAPI(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	endpoint, err := getStringParam(args, "endpoint", true)
	if err != nil {
		return nil, err
	}

	method, err := getStringParam(args, "method", false)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)
	if !allowedPassthroughMethods[method] {
		return nil, domain.NewValidationError("unsupported HTTP method: %s", method)
	}

	rawQuery, err := getObjectParam(args, "query", false)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	for key, value := range rawQuery {
		str, ok := value.(string)
		if !ok {
			return nil, domain.NewValidationError("query parameter %s must be a string", key)
		}
		query.Set(key, str)
	}

	body, err := getObjectParam(args, "body", false)
	if err != nil {
		return nil, err
	}

	var payload interface{}
	if body != nil {
		payload = body
	}

	result, err := h.client.Request(ctx, method, endpoint, query, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}
