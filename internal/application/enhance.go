package application

import (
	"strings"

	"clickup-mcp-server/internal/domain"
)

// Tool names treated as read-only even though no prefix rule covers them.
// The generic API passthrough is classified read-only because it is the
// discovery escape hatch, and it is the only tool considered open-world:
// it can reach any backend endpoint.
const (
	apiPassthroughTool = "call_clickup_api"
	hierarchyTool      = "get_workspace_hierarchy"
)

var readOnlyPrefixes = []string{"get_", "list_", "find_", "resolve_"}

// DeriveTitle builds a human-readable title from a tool name by splitting
// on underscores and hyphens and capitalizing each segment.
// "get_task_comments" becomes "Get Task Comments".
func DeriveTitle(name string) string {
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, seg := range segments {
		segments[i] = strings.ToUpper(seg[:1]) + seg[1:]
	}
	return strings.Join(segments, " ")
}

// IsReadOnly reports whether a tool name denotes a read-only operation.
func IsReadOnly(name string) bool {
	if name == apiPassthroughTool || name == hierarchyTool {
		return true
	}
	for _, prefix := range readOnlyPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Enhance fills in derived metadata on a tool definition: title, behavioral
// hints, description defaults, and per-property schema descriptions.
// Explicit values supplied by the definition always win over inferred ones.
// The input is never mutated; a new definition is returned. Enhancing an
// already-enhanced definition is a no-op.
func Enhance(def domain.ToolDefinition) domain.ToolDefinition {
	out := def

	annotations := domain.ToolAnnotations{}
	if def.Annotations != nil {
		annotations = *def.Annotations
	}

	if annotations.Title == "" {
		annotations.Title = DeriveTitle(def.Name)
	}

	readOnly := IsReadOnly(def.Name)
	if annotations.ReadOnlyHint == nil {
		annotations.ReadOnlyHint = domain.BoolPtr(readOnly)
	}
	if annotations.DestructiveHint == nil {
		annotations.DestructiveHint = domain.BoolPtr(!readOnly)
	}
	if annotations.IdempotentHint == nil {
		annotations.IdempotentHint = domain.BoolPtr(readOnly)
	}
	if annotations.OpenWorldHint == nil {
		annotations.OpenWorldHint = domain.BoolPtr(def.Name == apiPassthroughTool)
	}
	out.Annotations = &annotations

	if out.Description == "" {
		out.Description = annotations.Title + " tool"
	}

	out.InputSchema = enhanceSchema(def.InputSchema, annotations.Title)

	return out
}

// enhanceSchema backfills missing descriptions on an object schema.
// Non-object schemas pass through unchanged.
func enhanceSchema(schema domain.JSONSchema, title string) domain.JSONSchema {
	if schema.Type != "object" {
		return schema
	}

	if schema.Description == "" {
		schema.Description = title + " parameters"
	}

	if len(schema.Properties) == 0 {
		return schema
	}

	properties := make(map[string]interface{}, len(schema.Properties))
	for name, raw := range schema.Properties {
		prop, ok := raw.(map[string]interface{})
		if !ok {
			properties[name] = raw
			continue
		}
		if _, hasDescription := prop["description"]; hasDescription {
			properties[name] = prop
			continue
		}

		enhanced := make(map[string]interface{}, len(prop)+1)
		for k, v := range prop {
			enhanced[k] = v
		}
		enhanced["description"] = "Value for " + strings.ReplaceAll(name, "_", " ")
		properties[name] = enhanced
	}
	schema.Properties = properties

	return schema
}
