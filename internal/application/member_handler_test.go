package application

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"clickup-mcp-server/internal/domain"
)

func newMemberBackend(t *testing.T) *MemberHandler {
	t.Helper()
	client := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/team/901" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"team": {"id": "901", "name": "Engineering", "members": [
			{"id": 42, "username": "alice", "email": "alice@example.com"},
			{"id": 17, "username": "Bob", "email": "bob@example.com"}
		]}}`))
	})
	return NewMemberHandler(client)
}

func TestMemberHandler_GetWorkspaceMembers(t *testing.T) {
	handler := newMemberBackend(t)

	resp, err := handler.getWorkspaceMembers(context.Background(), nil)
	if err != nil {
		t.Fatalf("getWorkspaceMembers() error = %v", err)
	}

	var result struct {
		Members []domain.Member `json:"members"`
	}
	if err := json.Unmarshal([]byte(resp.Content[0].Text), &result); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(result.Members) != 2 {
		t.Fatalf("members length = %d, want 2", len(result.Members))
	}
	if result.Members[0].Username != "alice" {
		t.Errorf("first member = %q, want alice", result.Members[0].Username)
	}
}

// TestMemberHandler_FindMemberByName tests case-insensitive matching on
// both username and email.
func TestMemberHandler_FindMemberByName(t *testing.T) {
	handler := newMemberBackend(t)

	tests := []struct {
		query  string
		found  bool
		wantID int
	}{
		{"alice", true, 42},
		{"ALICE", true, 42},
		{"bob@example.com", true, 17},
		{"bob", true, 17},
		{"carol", false, 0},
	}

	for _, tt := range tests {
		resp, err := handler.findMemberByName(context.Background(), map[string]interface{}{
			"name": tt.query,
		})
		if err != nil {
			t.Fatalf("findMemberByName(%q) error = %v", tt.query, err)
		}

		var result struct {
			Found  bool           `json:"found"`
			Member *domain.Member `json:"member"`
		}
		if err := json.Unmarshal([]byte(resp.Content[0].Text), &result); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if result.Found != tt.found {
			t.Errorf("findMemberByName(%q) found = %v, want %v", tt.query, result.Found, tt.found)
			continue
		}
		if tt.found && result.Member.ID != tt.wantID {
			t.Errorf("findMemberByName(%q) member id = %d, want %d", tt.query, result.Member.ID, tt.wantID)
		}
	}
}

func TestMemberHandler_ResolveAssignees(t *testing.T) {
	handler := newMemberBackend(t)

	resp, err := handler.resolveAssignees(context.Background(), map[string]interface{}{
		"assignees": []interface{}{"alice", "carol", "bob@example.com"},
	})
	if err != nil {
		t.Fatalf("resolveAssignees() error = %v", err)
	}

	var result struct {
		Resolved   []int    `json:"resolved"`
		Unresolved []string `json:"unresolved"`
	}
	if err := json.Unmarshal([]byte(resp.Content[0].Text), &result); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}

	if len(result.Resolved) != 2 || result.Resolved[0] != 42 || result.Resolved[1] != 17 {
		t.Errorf("resolved = %v, want [42 17]", result.Resolved)
	}
	if len(result.Unresolved) != 1 || result.Unresolved[0] != "carol" {
		t.Errorf("unresolved = %v, want [carol]", result.Unresolved)
	}
}

func TestMemberHandler_ResolveAssignees_RejectsEmpty(t *testing.T) {
	handler := newMemberBackend(t)

	_, err := handler.resolveAssignees(context.Background(), map[string]interface{}{
		"assignees": []interface{}{},
	})
	if err == nil {
		t.Fatal("resolveAssignees() with empty list should fail")
	}
}
