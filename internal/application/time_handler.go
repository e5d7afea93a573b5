package application

import (
	"context"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for time tracking operations
const (
	ToolGetTaskTimeEntries  = "get_task_time_entries"
	ToolStartTimeTracking   = "start_time_tracking"
	ToolStopTimeTracking    = "stop_time_tracking"
	ToolAddTimeEntry        = "add_time_entry"
	ToolDeleteTimeEntry     = "delete_time_entry"
	ToolGetCurrentTimeEntry = "get_current_time_entry"
)

// TimeHandler exposes time tracking tools backed by the ClickUp client.
// The running timer belongs to the authenticated user of the API token.
type TimeHandler struct {
	client *infrastructure.ClickUpClient
}

// NewTimeHandler creates a new TimeHandler instance.
func NewTimeHandler(client *infrastructure.ClickUpClient) *TimeHandler {
	return &TimeHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *TimeHandler) GroupName() string {
	return "time"
}

// Tools returns the time tracking tool definitions in catalog order.
func (h *TimeHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolGetTaskTimeEntries,
			Description: "Retrieve the time entries recorded against a task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
				},
				Required: []string{"taskId"},
			},
		},
		{
			Name:        ToolStartTimeTracking,
			Description: "Start the running timer on a task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task to track time against",
					},
					"description": map[string]interface{}{
						"type": "string",
					},
					"billable": map[string]interface{}{
						"type": "boolean",
					},
				},
				Required: []string{"taskId"},
			},
		},
		{
			Name:        ToolStopTimeTracking,
			Description: "Stop the running timer",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
		{
			Name:        ToolAddTimeEntry,
			Description: "Record a manual time entry on a task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
					"start": map[string]interface{}{
						"type":        "integer",
						"description": "Start time as a Unix millisecond timestamp",
					},
					"duration": map[string]interface{}{
						"type":        "integer",
						"description": "Duration in milliseconds",
					},
					"description": map[string]interface{}{
						"type": "string",
					},
					"billable": map[string]interface{}{
						"type": "boolean",
					},
				},
				Required: []string{"taskId", "start", "duration"},
			},
		},
		{
			Name:        ToolDeleteTimeEntry,
			Description: "Delete a time entry",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"timeEntryId": map[string]interface{}{
						"type":        "string",
						"description": "The time entry id",
					},
				},
				Required: []string{"timeEntryId"},
			},
		},
		{
			Name:        ToolGetCurrentTimeEntry,
			Description: "Retrieve the currently running timer, if any",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: map[string]interface{}{},
			},
		},
	}
}

// Bindings returns the handler for each time tracking tool.
func (h *TimeHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolGetTaskTimeEntries:  h.getTaskTimeEntries,
		ToolStartTimeTracking:   h.startTimeTracking,
		ToolStopTimeTracking:    h.stopTimeTracking,
		ToolAddTimeEntry:        h.addTimeEntry,
		ToolDeleteTimeEntry:     h.deleteTimeEntry,
		ToolGetCurrentTimeEntry: h.getCurrentTimeEntry,
	}
}

func (h *TimeHandler) getTaskTimeEntries(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}

	result, err := h.client.GetTaskTimeEntries(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TimeHandler) startTimeTracking(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{"tid": taskID}

	description, err := getStringParam(args, "description", false)
	if err != nil {
		return nil, err
	}
	if description != "" {
		payload["description"] = description
	}

	if _, ok := args["billable"]; ok {
		billable, err := getBoolParam(args, "billable", false)
		if err != nil {
			return nil, err
		}
		payload["billable"] = billable
	}

	result, err := h.client.StartTimeTracking(ctx, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TimeHandler) stopTimeTracking(ctx context.Context, _ map[string]interface{}) (*domain.ToolResponse, error) {
	result, err := h.client.StopTimeTracking(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TimeHandler) addTimeEntry(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}
	start, err := getIntParam(args, "start", true)
	if err != nil {
		return nil, err
	}
	duration, err := getIntParam(args, "duration", true)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, domain.NewValidationError("duration must be positive")
	}

	payload := map[string]interface{}{
		"tid":      taskID,
		"start":    start,
		"duration": duration,
	}

	description, err := getStringParam(args, "description", false)
	if err != nil {
		return nil, err
	}
	if description != "" {
		payload["description"] = description
	}

	if _, ok := args["billable"]; ok {
		billable, err := getBoolParam(args, "billable", false)
		if err != nil {
			return nil, err
		}
		payload["billable"] = billable
	}

	result, err := h.client.AddTimeEntry(ctx, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TimeHandler) deleteTimeEntry(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	entryID, err := getStringParam(args, "timeEntryId", true)
	if err != nil {
		return nil, err
	}

	if err := h.client.DeleteTimeEntry(ctx, entryID); err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{
		"deleted":     true,
		"timeEntryId": entryID,
	})
}

func (h *TimeHandler) getCurrentTimeEntry(ctx context.Context, _ map[string]interface{}) (*domain.ToolResponse, error) {
	result, err := h.client.GetCurrentTimeEntry(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}
