package application

import (
	"testing"

	"clickup-mcp-server/internal/domain"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"get_task", "Get Task"},
		{"get_task_comments", "Get Task Comments"},
		{"call_clickup_api", "Call Clickup Api"},
		{"create-bulk-tasks", "Create Bulk Tasks"},
		{"attach_task_file", "Attach Task File"},
	}

	for _, tt := range tests {
		if got := DeriveTitle(tt.name); got != tt.expected {
			t.Errorf("DeriveTitle(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestIsReadOnly(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
	}{
		{"get_task", true},
		{"get_workspace_hierarchy", true},
		{"list_documents", true},
		{"find_member_by_name", true},
		{"resolve_assignees", true},
		{"call_clickup_api", true},
		{"create_task", false},
		{"update_task", false},
		{"delete_task", false},
		{"move_task", false},
		{"start_time_tracking", false},
	}

	for _, tt := range tests {
		if got := IsReadOnly(tt.name); got != tt.readOnly {
			t.Errorf("IsReadOnly(%q) = %v, want %v", tt.name, got, tt.readOnly)
		}
	}
}

// TestEnhance_ReadOnlyTool tests the inferred annotations for a read-only
// tool with no explicit metadata.
func TestEnhance_ReadOnlyTool(t *testing.T) {
	def := domain.ToolDefinition{
		Name:        "get_task",
		InputSchema: domain.JSONSchema{Type: "object"},
	}

	enhanced := Enhance(def)

	if enhanced.Annotations == nil {
		t.Fatal("Enhance() left Annotations nil")
	}
	if enhanced.Annotations.Title != "Get Task" {
		t.Errorf("Title = %q, want %q", enhanced.Annotations.Title, "Get Task")
	}
	if enhanced.Annotations.ReadOnlyHint == nil || !*enhanced.Annotations.ReadOnlyHint {
		t.Error("ReadOnlyHint should be true for get_task")
	}
	if enhanced.Annotations.DestructiveHint == nil || *enhanced.Annotations.DestructiveHint {
		t.Error("DestructiveHint should be false for get_task")
	}
	if enhanced.Annotations.IdempotentHint == nil || !*enhanced.Annotations.IdempotentHint {
		t.Error("IdempotentHint should be true for get_task")
	}
	if enhanced.Annotations.OpenWorldHint == nil || *enhanced.Annotations.OpenWorldHint {
		t.Error("OpenWorldHint should be false for get_task")
	}
	if enhanced.Description != "Get Task tool" {
		t.Errorf("Description = %q, want %q", enhanced.Description, "Get Task tool")
	}
}

// TestEnhance_WriteTool tests the inferred annotations for a mutating tool.
func TestEnhance_WriteTool(t *testing.T) {
	def := domain.ToolDefinition{
		Name:        "delete_task",
		InputSchema: domain.JSONSchema{Type: "object"},
	}

	enhanced := Enhance(def)

	if enhanced.Annotations.ReadOnlyHint == nil || *enhanced.Annotations.ReadOnlyHint {
		t.Error("ReadOnlyHint should be false for delete_task")
	}
	if enhanced.Annotations.DestructiveHint == nil || !*enhanced.Annotations.DestructiveHint {
		t.Error("DestructiveHint should be true for delete_task")
	}
	if enhanced.Annotations.IdempotentHint == nil || *enhanced.Annotations.IdempotentHint {
		t.Error("IdempotentHint should be false for delete_task")
	}
}

// TestEnhance_OpenWorldHint tests that only the API passthrough is marked
// open-world.
func TestEnhance_OpenWorldHint(t *testing.T) {
	passthrough := Enhance(domain.ToolDefinition{
		Name:        "call_clickup_api",
		InputSchema: domain.JSONSchema{Type: "object"},
	})
	if passthrough.Annotations.OpenWorldHint == nil || !*passthrough.Annotations.OpenWorldHint {
		t.Error("OpenWorldHint should be true for call_clickup_api")
	}
	if passthrough.Annotations.ReadOnlyHint == nil || !*passthrough.Annotations.ReadOnlyHint {
		t.Error("ReadOnlyHint should be true for call_clickup_api")
	}

	other := Enhance(domain.ToolDefinition{
		Name:        "create_task",
		InputSchema: domain.JSONSchema{Type: "object"},
	})
	if other.Annotations.OpenWorldHint == nil || *other.Annotations.OpenWorldHint {
		t.Error("OpenWorldHint should be false for create_task")
	}
}

// TestEnhance_ExplicitValuesWin tests that metadata already present on the
// definition is never overwritten by inference.
func TestEnhance_ExplicitValuesWin(t *testing.T) {
	def := domain.ToolDefinition{
		Name:        "delete_task",
		Description: "Removes a task permanently",
		InputSchema: domain.JSONSchema{Type: "object"},
		Annotations: &domain.ToolAnnotations{
			Title:           "Task Removal",
			DestructiveHint: domain.BoolPtr(false),
		},
	}

	enhanced := Enhance(def)

	if enhanced.Annotations.Title != "Task Removal" {
		t.Errorf("Title = %q, want explicit %q preserved", enhanced.Annotations.Title, "Task Removal")
	}
	if enhanced.Annotations.DestructiveHint == nil || *enhanced.Annotations.DestructiveHint {
		t.Error("explicit DestructiveHint false should not be overwritten")
	}
	if enhanced.Description != "Removes a task permanently" {
		t.Errorf("Description = %q, want explicit value preserved", enhanced.Description)
	}
	// Unset hints are still filled in around the explicit ones.
	if enhanced.Annotations.ReadOnlyHint == nil || *enhanced.Annotations.ReadOnlyHint {
		t.Error("ReadOnlyHint should be inferred false for delete_task")
	}
}

// TestEnhance_SchemaBackfill tests the per-property description backfill on
// object schemas.
func TestEnhance_SchemaBackfill(t *testing.T) {
	def := domain.ToolDefinition{
		Name: "create_task",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"list_id": map[string]interface{}{"type": "string"},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Task name",
				},
			},
			Required: []string{"list_id", "name"},
		},
	}

	enhanced := Enhance(def)

	if enhanced.InputSchema.Description != "Create Task parameters" {
		t.Errorf("schema Description = %q, want %q", enhanced.InputSchema.Description, "Create Task parameters")
	}

	listID, ok := enhanced.InputSchema.Properties["list_id"].(map[string]interface{})
	if !ok {
		t.Fatal("list_id property is not a map")
	}
	if listID["description"] != "Value for list id" {
		t.Errorf("list_id description = %v, want %q", listID["description"], "Value for list id")
	}

	name, ok := enhanced.InputSchema.Properties["name"].(map[string]interface{})
	if !ok {
		t.Fatal("name property is not a map")
	}
	if name["description"] != "Task name" {
		t.Errorf("name description = %v, want existing %q preserved", name["description"], "Task name")
	}
}

// TestEnhance_NonObjectSchemaUntouched tests that non-object schemas pass
// through without description backfill.
func TestEnhance_NonObjectSchemaUntouched(t *testing.T) {
	def := domain.ToolDefinition{
		Name:        "get_task",
		InputSchema: domain.JSONSchema{Type: "string"},
	}

	enhanced := Enhance(def)

	if enhanced.InputSchema.Description != "" {
		t.Errorf("non-object schema Description = %q, want empty", enhanced.InputSchema.Description)
	}
}

// TestEnhance_Idempotent tests that enhancing an already-enhanced
// definition changes nothing.
func TestEnhance_Idempotent(t *testing.T) {
	def := domain.ToolDefinition{
		Name: "create_task",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"list_id": map[string]interface{}{"type": "string"},
			},
		},
	}

	once := Enhance(def)
	twice := Enhance(once)

	if *once.Annotations != *twice.Annotations {
		t.Errorf("annotations changed on second pass: %+v vs %+v", *once.Annotations, *twice.Annotations)
	}
	if once.Description != twice.Description {
		t.Errorf("description changed on second pass: %q vs %q", once.Description, twice.Description)
	}
	if once.InputSchema.Description != twice.InputSchema.Description {
		t.Errorf("schema description changed on second pass")
	}
	onceProp := once.InputSchema.Properties["list_id"].(map[string]interface{})
	twiceProp := twice.InputSchema.Properties["list_id"].(map[string]interface{})
	if onceProp["description"] != twiceProp["description"] {
		t.Errorf("property description changed on second pass")
	}
}

// TestEnhance_DoesNotMutateInput tests that the source definition is left
// untouched.
func TestEnhance_DoesNotMutateInput(t *testing.T) {
	props := map[string]interface{}{
		"task_id": map[string]interface{}{"type": "string"},
	}
	def := domain.ToolDefinition{
		Name: "get_task",
		InputSchema: domain.JSONSchema{
			Type:       "object",
			Properties: props,
		},
	}

	Enhance(def)

	if def.Annotations != nil {
		t.Error("input definition Annotations was mutated")
	}
	if def.Description != "" {
		t.Error("input definition Description was mutated")
	}
	original := props["task_id"].(map[string]interface{})
	if _, mutated := original["description"]; mutated {
		t.Error("input schema property map was mutated")
	}
}
