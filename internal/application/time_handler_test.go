package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"clickup-mcp-server/internal/domain"
)

func TestTimeHandler_Catalog(t *testing.T) {
	handler := NewTimeHandler(nil)

	if handler.GroupName() != "time" {
		t.Errorf("GroupName() = %s", handler.GroupName())
	}
	tools := handler.Tools()
	if len(tools) != 6 {
		t.Errorf("len(Tools()) = %d, want 6", len(tools))
	}
	bindings := handler.Bindings()
	for _, tool := range tools {
		if bindings[tool.Name] == nil {
			t.Errorf("tool %s has no binding", tool.Name)
		}
	}
}

func TestTimeHandler_GetTaskTimeEntries(t *testing.T) {
	var gotPath, gotTaskQuery string
	client := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTaskQuery = r.URL.Query().Get("task_id")
		_, _ = w.Write([]byte(`{"data": []}`))
	})
	handler := NewTimeHandler(client)

	_, err := handler.getTaskTimeEntries(context.Background(), map[string]interface{}{
		"taskId": "abc123",
	})
	if err != nil {
		t.Fatalf("getTaskTimeEntries() error = %v", err)
	}

	if gotPath != "/api/v2/team/901/time_entries" {
		t.Errorf("path = %s", gotPath)
	}
	if gotTaskQuery != "abc123" {
		t.Errorf("task_id query = %s", gotTaskQuery)
	}
}

func TestTimeHandler_StartTimeTracking(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	client := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"data": {"id": "timer1"}}`))
	})
	handler := NewTimeHandler(client)

	_, err := handler.startTimeTracking(context.Background(), map[string]interface{}{
		"taskId":      "abc123",
		"description": "code review",
		"billable":    true,
	})
	if err != nil {
		t.Fatalf("startTimeTracking() error = %v", err)
	}

	if gotPath != "/api/v2/team/901/time_entries/start" {
		t.Errorf("path = %s", gotPath)
	}
	if gotPayload["tid"] != "abc123" {
		t.Errorf("payload tid = %v", gotPayload["tid"])
	}
	if gotPayload["description"] != "code review" {
		t.Errorf("payload description = %v", gotPayload["description"])
	}
	if gotPayload["billable"] != true {
		t.Errorf("payload billable = %v", gotPayload["billable"])
	}
}

func TestTimeHandler_StopTimeTracking(t *testing.T) {
	var gotMethod, gotPath string
	client := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data": {"id": "timer1", "duration": 120000}}`))
	})
	handler := NewTimeHandler(client)

	_, err := handler.stopTimeTracking(context.Background(), nil)
	if err != nil {
		t.Fatalf("stopTimeTracking() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/v2/team/901/time_entries/stop" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestTimeHandler_AddTimeEntry(t *testing.T) {
	var gotPayload map[string]interface{}
	client := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"data": {"id": "entry1"}}`))
	})
	handler := NewTimeHandler(client)

	_, err := handler.addTimeEntry(context.Background(), map[string]interface{}{
		"taskId":   "abc123",
		"start":    float64(1700000000000),
		"duration": float64(3600000),
	})
	if err != nil {
		t.Fatalf("addTimeEntry() error = %v", err)
	}

	if gotPayload["tid"] != "abc123" {
		t.Errorf("payload tid = %v", gotPayload["tid"])
	}
	if gotPayload["start"] != float64(1700000000000) {
		t.Errorf("payload start = %v", gotPayload["start"])
	}
	if gotPayload["duration"] != float64(3600000) {
		t.Errorf("payload duration = %v", gotPayload["duration"])
	}
}

func TestTimeHandler_AddTimeEntry_RejectsNonPositiveDuration(t *testing.T) {
	handler := NewTimeHandler(nil)

	for _, duration := range []float64{0, -500} {
		_, err := handler.addTimeEntry(context.Background(), map[string]interface{}{
			"taskId":   "abc123",
			"start":    float64(1700000000000),
			"duration": duration,
		})
		if err == nil {
			t.Errorf("addTimeEntry() with duration %v should fail", duration)
			continue
		}
		var valErr *domain.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("duration %v: error type = %T, want *domain.ValidationError", duration, err)
			continue
		}
		if valErr.Detail != "duration must be positive" {
			t.Errorf("duration %v: Detail = %q", duration, valErr.Detail)
		}
	}
}

func TestTimeHandler_DeleteTimeEntry(t *testing.T) {
	var gotMethod, gotPath string
	client := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	})
	handler := NewTimeHandler(client)

	resp, err := handler.deleteTimeEntry(context.Background(), map[string]interface{}{
		"timeEntryId": "entry1",
	})
	if err != nil {
		t.Fatalf("deleteTimeEntry() error = %v", err)
	}

	if gotMethod != http.MethodDelete || gotPath != "/api/v2/team/901/time_entries/entry1" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Content[0].Text), &result); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if result["deleted"] != true || result["timeEntryId"] != "entry1" {
		t.Errorf("result = %v", result)
	}
}

func TestTimeHandler_GetCurrentTimeEntry(t *testing.T) {
	var gotPath string
	client := newBackendClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data": null}`))
	})
	handler := NewTimeHandler(client)

	_, err := handler.getCurrentTimeEntry(context.Background(), nil)
	if err != nil {
		t.Fatalf("getCurrentTimeEntry() error = %v", err)
	}
	if gotPath != "/api/v2/team/901/time_entries/current" {
		t.Errorf("path = %s", gotPath)
	}
}
