package application

import (
	"context"
	"encoding/base64"
	"net/url"
	"strconv"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
)

// Tool name constants for task operations
const (
	ToolGetTask           = "get_task"
	ToolGetTasks          = "get_tasks"
	ToolGetTaskComments   = "get_task_comments"
	ToolCreateTaskComment = "create_task_comment"
	ToolAttachTaskFile    = "attach_task_file"
	ToolCreateTask        = "create_task"
	ToolUpdateTask        = "update_task"
	ToolMoveTask          = "move_task"
	ToolDuplicateTask     = "duplicate_task"
	ToolDeleteTask        = "delete_task"
	ToolGetWorkspaceTasks = "get_workspace_tasks"
	ToolCreateBulkTasks   = "create_bulk_tasks"
	ToolUpdateBulkTasks   = "update_bulk_tasks"
	ToolMoveBulkTasks     = "move_bulk_tasks"
	ToolDeleteBulkTasks   = "delete_bulk_tasks"
)

// TaskHandler exposes task tools backed by the ClickUp client.
type TaskHandler struct {
	client *infrastructure.ClickUpClient
}

// NewTaskHandler creates a new TaskHandler instance.
func NewTaskHandler(client *infrastructure.ClickUpClient) *TaskHandler {
	return &TaskHandler{client: client}
}

// GroupName returns the identifier for this group.
func (h *TaskHandler) GroupName() string {
	return "task"
}

// Tools returns the task tool definitions in catalog order.
func (h *TaskHandler) Tools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolGetTask,
			Description: "Retrieve a task by its id",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id (e.g., 86b4bnnnn)",
					},
				},
				Required: []string{"taskId"},
			},
		},
		{
			Name:        ToolGetTasks,
			Description: "Retrieve tasks in a list, with optional filters",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The list id to read tasks from",
					},
					"archived": map[string]interface{}{
						"type": "boolean",
					},
					"page": map[string]interface{}{
						"type":        "integer",
						"description": "Page to fetch (0-based)",
					},
					"subtasks": map[string]interface{}{
						"type": "boolean",
					},
				},
				Required: []string{"listId"},
			},
		},
		{
			Name:        ToolGetTaskComments,
			Description: "Retrieve the comments on a task",
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
			Name:        ToolCreateTaskComment,
			Description: "Add a comment to a task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
					"commentText": map[string]interface{}{
						"type":        "string",
						"description": "The comment text",
					},
				},
				Required: []string{"taskId", "commentText"},
			},
		},
		{
			Name:        ToolAttachTaskFile,
			Description: "Attach a file to a task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
					"fileName": map[string]interface{}{
						"type":        "string",
						"description": "Name of the attachment, including extension",
					},
					"fileData": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded file contents",
					},
				},
				Required: []string{"taskId", "fileName", "fileData"},
			},
		},
		{
			Name:        ToolCreateTask,
			Description: "Create a task in a list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The list to create the task in",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The task name",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The task description (optional)",
					},
					"status": map[string]interface{}{
						"type": "string",
					},
					"priority": map[string]interface{}{
						"type":        "integer",
						"description": "Priority from 1 (urgent) to 4 (low)",
					},
					"dueDate": map[string]interface{}{
						"type":        "integer",
						"description": "Due date as a Unix millisecond timestamp",
					},
					"assignees": map[string]interface{}{
						"type":        "array",
						"description": "Member ids to assign",
						"items":       map[string]interface{}{"type": "integer"},
					},
					"tags": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
				Required: []string{"listId", "name"},
			},
		},
		{
			Name:        ToolUpdateTask,
			Description: "Update fields of an existing task",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new task name (optional)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The new description (optional)",
					},
					"status": map[string]interface{}{
						"type": "string",
					},
					"priority": map[string]interface{}{
						"type": "integer",
					},
					"dueDate": map[string]interface{}{
						"type": "integer",
					},
				},
				Required: []string{"taskId"},
			},
		},
		{
			Name:        ToolMoveTask,
			Description: "Move a task to a different list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task id",
					},
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The destination list id",
					},
				},
				Required: []string{"taskId", "listId"},
			},
		},
		{
			Name:        ToolDuplicateTask,
			Description: "Duplicate a task, optionally into a different list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskId": map[string]interface{}{
						"type":        "string",
						"description": "The task to duplicate",
					},
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "Destination list id (defaults to the task's own list)",
					},
				},
				Required: []string{"taskId"},
			},
		},
		{
			Name:        ToolDeleteTask,
			Description: "Permanently delete a task",
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
			Name:        ToolGetWorkspaceTasks,
			Description: "Retrieve filtered tasks across the whole workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"page": map[string]interface{}{
						"type": "integer",
					},
					"statuses": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"tags": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"listIds": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"assignees": map[string]interface{}{
						"type":        "array",
						"description": "Member ids to filter by",
						"items":       map[string]interface{}{"type": "string"},
					},
				},
			},
		},
		{
			Name:        ToolCreateBulkTasks,
			Description: "Create several tasks in one list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The list to create the tasks in",
					},
					"tasks": map[string]interface{}{
						"type":        "array",
						"description": "Task payloads; each requires at least a name",
						"items":       map[string]interface{}{"type": "object"},
					},
				},
				Required: []string{"listId", "tasks"},
			},
		},
		{
			Name:        ToolUpdateBulkTasks,
			Description: "Update several tasks at once",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"tasks": map[string]interface{}{
						"type":        "array",
						"description": "Update payloads; each requires a taskId",
						"items":       map[string]interface{}{"type": "object"},
					},
				},
				Required: []string{"tasks"},
			},
		},
		{
			Name:        ToolMoveBulkTasks,
			Description: "Move several tasks to a different list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskIds": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"listId": map[string]interface{}{
						"type":        "string",
						"description": "The destination list id",
					},
				},
				Required: []string{"taskIds", "listId"},
			},
		},
		{
			Name:        ToolDeleteBulkTasks,
			Description: "Permanently delete several tasks",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"taskIds": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
				Required: []string{"taskIds"},
			},
		},
	}
}

// Bindings returns the handler for each task tool.
func (h *TaskHandler) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		ToolGetTask:           h.getTask,
		ToolGetTasks:          h.getTasks,
		ToolGetTaskComments:   h.getTaskComments,
		ToolCreateTaskComment: h.createTaskComment,
		ToolAttachTaskFile:    h.attachTaskFile,
		ToolCreateTask:        h.createTask,
		ToolUpdateTask:        h.updateTask,
		ToolMoveTask:          h.moveTask,
		ToolDuplicateTask:     h.duplicateTask,
		ToolDeleteTask:        h.deleteTask,
		ToolGetWorkspaceTasks: h.getWorkspaceTasks,
		ToolCreateBulkTasks:   h.createBulkTasks,
		ToolUpdateBulkTasks:   h.updateBulkTasks,
		ToolMoveBulkTasks:     h.moveBulkTasks,
		ToolDeleteBulkTasks:   h.deleteBulkTasks,
	}
}

func (h *TaskHandler) getTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}

	task, err := h.client.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(task)
}

func (h *TaskHandler) getTasks(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if archived, err := getBoolParam(args, "archived", false); err != nil {
		return nil, err
	} else if archived {
		query.Set("archived", "true")
	}
	if _, ok := args["page"]; ok {
		page, err := getIntParam(args, "page", false)
		if err != nil {
			return nil, err
		}
		query.Set("page", strconv.Itoa(page))
	}
	if subtasks, err := getBoolParam(args, "subtasks", false); err != nil {
		return nil, err
	} else if subtasks {
		query.Set("subtasks", "true")
	}

	result, err := h.client.GetTasks(ctx, listID, query)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TaskHandler) getTaskComments(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}

	result, err := h.client.GetTaskComments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TaskHandler) createTaskComment(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}
	commentText, err := getStringParam(args, "commentText", true)
	if err != nil {
		return nil, err
	}

	result, err := h.client.CreateTaskComment(ctx, taskID, map[string]interface{}{
		"comment_text": commentText,
	})
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TaskHandler) attachTaskFile(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}
	fileName, err := getStringParam(args, "fileName", true)
	if err != nil {
		return nil, err
	}
	fileData, err := getStringParam(args, "fileData", true)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(fileData)
	if err != nil {
		return nil, domain.NewValidationError("fileData must be valid base64: %v", err)
	}

	result, err := h.client.AttachTaskFile(ctx, taskID, fileName, data)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TaskHandler) createTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}
	payload, err := buildTaskPayload(args, true)
	if err != nil {
		return nil, err
	}

	task, err := h.client.CreateTask(ctx, listID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(task)
}

func (h *TaskHandler) updateTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}
	payload, err := buildTaskPayload(args, false)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, domain.NewValidationError("at least one field to update is required")
	}

	task, err := h.client.UpdateTask(ctx, taskID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(task)
}

// moveTask relocates a task by attaching it to the destination list and
// detaching it from its current home list.
func (h *TaskHandler) moveTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}

	task, err := h.client.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := h.client.AddTaskToList(ctx, listID, taskID); err != nil {
		return nil, err
	}
	if task.List != nil && task.List.ID != "" && task.List.ID != listID {
		if err := h.client.RemoveTaskFromList(ctx, task.List.ID, taskID); err != nil {
			return nil, err
		}
	}

	moved, err := h.client.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(moved)
}

func (h *TaskHandler) duplicateTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}
	listID, err := getStringParam(args, "listId", false)
	if err != nil {
		return nil, err
	}

	source, err := h.client.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		if source.List == nil || source.List.ID == "" {
			return nil, domain.NewValidationError("listId is required: source task has no resolvable list")
		}
		listID = source.List.ID
	}

	payload := map[string]interface{}{
		"name": source.Name,
	}
	if source.Description != "" {
		payload["description"] = source.Description
	}
	if len(source.Tags) > 0 {
		names := make([]string, 0, len(source.Tags))
		for _, tag := range source.Tags {
			names = append(names, tag.Name)
		}
		payload["tags"] = names
	}

	duplicate, err := h.client.CreateTask(ctx, listID, payload)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(duplicate)
}

func (h *TaskHandler) deleteTask(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskID, err := getStringParam(args, "taskId", true)
	if err != nil {
		return nil, err
	}

	if err := h.client.DeleteTask(ctx, taskID); err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(map[string]interface{}{
		"deleted": true,
		"taskId":  taskID,
	})
}

func (h *TaskHandler) getWorkspaceTasks(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	query := url.Values{}
	if _, ok := args["page"]; ok {
		page, err := getIntParam(args, "page", false)
		if err != nil {
			return nil, err
		}
		query.Set("page", strconv.Itoa(page))
	}

	arrays := map[string]string{
		"statuses":  "statuses[]",
		"tags":      "tags[]",
		"listIds":   "list_ids[]",
		"assignees": "assignees[]",
	}
	for param, queryKey := range arrays {
		values, err := getStringArrayParam(args, param, false)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			query.Add(queryKey, v)
		}
	}

	result, err := h.client.GetWorkspaceTasks(ctx, query)
	if err != nil {
		return nil, err
	}
	return domain.NewJSONResponse(result)
}

func (h *TaskHandler) createBulkTasks(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}
	payloads, err := getObjectArrayParam(args, "tasks", true)
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, domain.NewValidationError("tasks must not be empty")
	}
	for i, payload := range payloads {
		if _, ok := payload["name"].(string); !ok {
			return nil, domain.NewValidationError("tasks[%d] is missing a name", i)
		}
	}

	created := make([]*domain.Task, 0, len(payloads))
	for _, payload := range payloads {
		task, err := h.client.CreateTask(ctx, listID, payload)
		if err != nil {
			return nil, err
		}
		created = append(created, task)
	}

	return domain.NewJSONResponse(map[string]interface{}{"tasks": created})
}

func (h *TaskHandler) updateBulkTasks(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	payloads, err := getObjectArrayParam(args, "tasks", true)
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, domain.NewValidationError("tasks must not be empty")
	}

	updated := make([]*domain.Task, 0, len(payloads))
	for i, payload := range payloads {
		taskID, ok := payload["taskId"].(string)
		if !ok || taskID == "" {
			return nil, domain.NewValidationError("tasks[%d] is missing a taskId", i)
		}
		fields := make(map[string]interface{}, len(payload))
		for k, v := range payload {
			if k != "taskId" {
				fields[k] = v
			}
		}
		if len(fields) == 0 {
			return nil, domain.NewValidationError("tasks[%d] has no fields to update", i)
		}

		task, err := h.client.UpdateTask(ctx, taskID, fields)
		if err != nil {
			return nil, err
		}
		updated = append(updated, task)
	}

	return domain.NewJSONResponse(map[string]interface{}{"tasks": updated})
}

func (h *TaskHandler) moveBulkTasks(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskIDs, err := getStringArrayParam(args, "taskIds", true)
	if err != nil {
		return nil, err
	}
	listID, err := getStringParam(args, "listId", true)
	if err != nil {
		return nil, err
	}
	if len(taskIDs) == 0 {
		return nil, domain.NewValidationError("taskIds must not be empty")
	}

	for _, taskID := range taskIDs {
		moveArgs := map[string]interface{}{"taskId": taskID, "listId": listID}
		if _, err := h.moveTask(ctx, moveArgs); err != nil {
			return nil, err
		}
	}

	return domain.NewJSONResponse(map[string]interface{}{
		"moved":  true,
		"count":  len(taskIDs),
		"listId": listID,
	})
}

func (h *TaskHandler) deleteBulkTasks(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	taskIDs, err := getStringArrayParam(args, "taskIds", true)
	if err != nil {
		return nil, err
	}
	if len(taskIDs) == 0 {
		return nil, domain.NewValidationError("taskIds must not be empty")
	}

	for _, taskID := range taskIDs {
		if err := h.client.DeleteTask(ctx, taskID); err != nil {
			return nil, err
		}
	}

	return domain.NewJSONResponse(map[string]interface{}{
		"deleted": true,
		"count":   len(taskIDs),
	})
}

// buildTaskPayload translates tool arguments into a ClickUp task payload.
// When forCreate is true, name is required.
func buildTaskPayload(args map[string]interface{}, forCreate bool) (map[string]interface{}, error) {
	payload := make(map[string]interface{})

	name, err := getStringParam(args, "name", forCreate)
	if err != nil {
		return nil, err
	}
	if name != "" {
		payload["name"] = name
	}

	description, err := getStringParam(args, "description", false)
	if err != nil {
		return nil, err
	}
	if description != "" {
		payload["description"] = description
	}

	status, err := getStringParam(args, "status", false)
	if err != nil {
		return nil, err
	}
	if status != "" {
		payload["status"] = status
	}

	if _, ok := args["priority"]; ok {
		priority, err := getIntParam(args, "priority", false)
		if err != nil {
			return nil, err
		}
		if priority < 1 || priority > 4 {
			return nil, domain.NewValidationError("priority must be between 1 (urgent) and 4 (low)")
		}
		payload["priority"] = priority
	}

	if _, ok := args["dueDate"]; ok {
		dueDate, err := getIntParam(args, "dueDate", false)
		if err != nil {
			return nil, err
		}
		payload["due_date"] = dueDate
	}

	if rawAssignees, ok := args["assignees"]; ok {
		items, ok := rawAssignees.([]interface{})
		if !ok {
			return nil, domain.NewValidationError("parameter assignees must be an array of member ids")
		}
		assignees := make([]int, 0, len(items))
		for _, raw := range items {
			id, ok := raw.(float64)
			if !ok {
				return nil, domain.NewValidationError("parameter assignees must contain only member ids")
			}
			assignees = append(assignees, int(id))
		}
		payload["assignees"] = assignees
	}

	tags, err := getStringArrayParam(args, "tags", false)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		payload["tags"] = tags
	}

	return payload, nil
}
