package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"clickup-mcp-server/internal/domain"
)

// stubToolGroup is a test ToolGroup with canned definitions and bindings.
type stubToolGroup struct {
	name     string
	tools    []domain.ToolDefinition
	bindings map[string]HandlerFunc
}

func (g *stubToolGroup) GroupName() string                { return g.name }
func (g *stubToolGroup) Tools() []domain.ToolDefinition   { return g.tools }
func (g *stubToolGroup) Bindings() map[string]HandlerFunc { return g.bindings }

func textHandler(text string) HandlerFunc {
	return func(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
		return domain.NewTextResponse(text), nil
	}
}

func newStubGroup(name string, toolNames ...string) *stubToolGroup {
	group := &stubToolGroup{
		name:     name,
		bindings: make(map[string]HandlerFunc),
	}
	for _, toolName := range toolNames {
		group.tools = append(group.tools, domain.ToolDefinition{
			Name:        toolName,
			Description: "Test tool",
			InputSchema: domain.JSONSchema{Type: "object"},
		})
		group.bindings[toolName] = textHandler("ok: " + toolName)
	}
	return group
}

func TestDispatcher_Success(t *testing.T) {
	dispatcher := NewDispatcher(NewToolFilter(nil, nil), newStubGroup("task", "get_task", "create_task"))

	resp, err := dispatcher.Dispatch(context.Background(), &domain.ToolRequest{
		Name:      "get_task",
		Arguments: map[string]interface{}{"task_id": "abc123"},
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v, want nil", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		t.Fatal("Dispatch() returned empty response")
	}
	if resp.Content[0].Text != "ok: get_task" {
		t.Errorf("response text = %q, want %q", resp.Content[0].Text, "ok: get_task")
	}
}

func TestDispatcher_UnknownTool(t *testing.T) {
	dispatcher := NewDispatcher(NewToolFilter(nil, nil), newStubGroup("task", "get_task"))

	_, err := dispatcher.Dispatch(context.Background(), &domain.ToolRequest{
		Name:      "not_a_real_tool",
		Arguments: map[string]interface{}{},
	})
	if err == nil {
		t.Fatal("Dispatch() error = nil, want unknown tool error")
	}

	var dispErr *domain.DispatchError
	if !errors.As(err, &dispErr) {
		t.Fatalf("Dispatch() error type = %T, want *domain.DispatchError", err)
	}
	if dispErr.Kind != domain.UnknownTool {
		t.Errorf("Kind = %v, want UnknownTool", dispErr.Kind)
	}

	protoErr := dispErr.Protocol()
	if protoErr.Code != domain.MethodNotFound {
		t.Errorf("Protocol().Code = %d, want %d", protoErr.Code, domain.MethodNotFound)
	}
	if protoErr.Message != "Unknown tool: not_a_real_tool" {
		t.Errorf("Protocol().Message = %q, want %q", protoErr.Message, "Unknown tool: not_a_real_tool")
	}
}

// TestDispatcher_DisabledToolRejectedBeforeHandler tests that the
// enablement check runs before handler lookup and invocation.
func TestDispatcher_DisabledToolRejectedBeforeHandler(t *testing.T) {
	handlerCalled := false
	group := &stubToolGroup{
		name: "task",
		bindings: map[string]HandlerFunc{
			"create_task": func(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
				handlerCalled = true
				return domain.NewTextResponse("created"), nil
			},
		},
	}

	dispatcher := NewDispatcher(NewToolFilter([]string{"get_task"}, nil), group)

	_, err := dispatcher.Dispatch(context.Background(), &domain.ToolRequest{
		Name:      "create_task",
		Arguments: map[string]interface{}{},
	})
	if err == nil {
		t.Fatal("Dispatch() error = nil, want disabled tool error")
	}
	if handlerCalled {
		t.Error("handler was invoked for a filtered-out tool")
	}

	var dispErr *domain.DispatchError
	if !errors.As(err, &dispErr) {
		t.Fatalf("Dispatch() error type = %T, want *domain.DispatchError", err)
	}
	if dispErr.Kind != domain.DisabledTool {
		t.Errorf("Kind = %v, want DisabledTool", dispErr.Kind)
	}

	protoErr := dispErr.Protocol()
	if protoErr.Code != domain.MethodNotFound {
		t.Errorf("Protocol().Code = %d, want %d", protoErr.Code, domain.MethodNotFound)
	}
	if protoErr.Message != "Tool create_task is not in the enabled tools list" {
		t.Errorf("Protocol().Message = %q", protoErr.Message)
	}
}

func TestDispatcher_ValidationFailure(t *testing.T) {
	group := &stubToolGroup{
		name: "task",
		bindings: map[string]HandlerFunc{
			"create_task": func(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
				return nil, domain.NewValidationError("missing required parameter: list_id")
			},
		},
	}

	dispatcher := NewDispatcher(NewToolFilter(nil, nil), group)

	_, err := dispatcher.Dispatch(context.Background(), &domain.ToolRequest{
		Name:      "create_task",
		Arguments: map[string]interface{}{},
	})
	if err == nil {
		t.Fatal("Dispatch() error = nil, want validation error")
	}

	var dispErr *domain.DispatchError
	if !errors.As(err, &dispErr) {
		t.Fatalf("Dispatch() error type = %T, want *domain.DispatchError", err)
	}
	if dispErr.Kind != domain.ValidationFailed {
		t.Errorf("Kind = %v, want ValidationFailed", dispErr.Kind)
	}

	protoErr := dispErr.Protocol()
	if protoErr.Code != domain.InvalidParams {
		t.Errorf("Protocol().Code = %d, want %d", protoErr.Code, domain.InvalidParams)
	}
	expected := "Invalid params for tool create_task: missing required parameter: list_id"
	if protoErr.Message != expected {
		t.Errorf("Protocol().Message = %q, want %q", protoErr.Message, expected)
	}
}

func TestDispatcher_ExecutionFailure(t *testing.T) {
	group := &stubToolGroup{
		name: "task",
		bindings: map[string]HandlerFunc{
			"get_task": func(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
				return nil, fmt.Errorf("backend unavailable")
			},
		},
	}

	dispatcher := NewDispatcher(NewToolFilter(nil, nil), group)

	_, err := dispatcher.Dispatch(context.Background(), &domain.ToolRequest{
		Name:      "get_task",
		Arguments: map[string]interface{}{"task_id": "abc"},
	})
	if err == nil {
		t.Fatal("Dispatch() error = nil, want execution error")
	}

	var dispErr *domain.DispatchError
	if !errors.As(err, &dispErr) {
		t.Fatalf("Dispatch() error type = %T, want *domain.DispatchError", err)
	}
	if dispErr.Kind != domain.ExecutionFailed {
		t.Errorf("Kind = %v, want ExecutionFailed", dispErr.Kind)
	}

	protoErr := dispErr.Protocol()
	if protoErr.Code != domain.ToolExecutionError {
		t.Errorf("Protocol().Code = %d, want %d", protoErr.Code, domain.ToolExecutionError)
	}
	expected := "Error executing tool get_task: backend unavailable"
	if protoErr.Message != expected {
		t.Errorf("Protocol().Message = %q, want %q", protoErr.Message, expected)
	}
}

// TestDispatcher_PreservesDispatchErrors tests that a handler returning an
// already-classified dispatch error is passed through unchanged.
func TestDispatcher_PreservesDispatchErrors(t *testing.T) {
	original := &domain.DispatchError{
		Kind:   domain.ExecutionFailed,
		Tool:   "get_task",
		Detail: "task not found",
	}
	group := &stubToolGroup{
		name: "task",
		bindings: map[string]HandlerFunc{
			"get_task": func(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
				return nil, original
			},
		},
	}

	dispatcher := NewDispatcher(NewToolFilter(nil, nil), group)

	_, err := dispatcher.Dispatch(context.Background(), &domain.ToolRequest{
		Name:      "get_task",
		Arguments: map[string]interface{}{},
	})

	var dispErr *domain.DispatchError
	if !errors.As(err, &dispErr) {
		t.Fatalf("Dispatch() error type = %T, want *domain.DispatchError", err)
	}
	if dispErr != original {
		t.Error("pre-classified dispatch error was rewrapped")
	}
}

func TestDispatcher_HandlerNames(t *testing.T) {
	dispatcher := NewDispatcher(NewToolFilter(nil, nil),
		newStubGroup("task", "get_task", "create_task"),
		newStubGroup("list", "create_list"),
	)

	names := dispatcher.HandlerNames()
	expected := []string{"create_list", "create_task", "get_task"}
	if len(names) != len(expected) {
		t.Fatalf("HandlerNames() length = %d, want %d", len(names), len(expected))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("HandlerNames()[%d] = %q, want %q", i, names[i], name)
		}
	}
}
