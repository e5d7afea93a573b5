package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickup-mcp-server/internal/domain"
)

// recordedRequest captures what the client actually sent.
type recordedRequest struct {
	method string
	path   string
	query  url.Values
	auth   string
	body   []byte
}

// newTestClient starts an httptest server returning the given status and
// body, and a client pointed at it. The last request is recorded.
func newTestClient(t *testing.T, status int, responseBody string) (*ClickUpClient, *recordedRequest) {
	t.Helper()

	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.Path
		recorded.query = r.URL.Query()
		recorded.auth = r.Header.Get("Authorization")
		recorded.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)

	return NewClickUpClient(server.URL, "pk_test_key", "901", server.Client()), recorded
}

func TestClickUpClient_GetTask(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{
		"id": "abc123",
		"name": "Fix login flow",
		"status": {"status": "in progress"}
	}`)

	task, err := client.GetTask(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, recorded.method)
	assert.Equal(t, "/api/v2/task/abc123", recorded.path)
	assert.Equal(t, "pk_test_key", recorded.auth)
	assert.Equal(t, "abc123", task.ID)
	assert.Equal(t, "Fix login flow", task.Name)
	assert.Equal(t, "in progress", task.Status.Status)
}

func TestClickUpClient_CreateTask(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"id": "new1", "name": "Ship release"}`)

	task, err := client.CreateTask(context.Background(), "list9", map[string]interface{}{
		"name":     "Ship release",
		"priority": 2,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, recorded.method)
	assert.Equal(t, "/api/v2/list/list9/task", recorded.path)
	assert.Equal(t, "new1", task.ID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(recorded.body, &payload))
	assert.Equal(t, "Ship release", payload["name"])
	assert.Equal(t, float64(2), payload["priority"])
}

func TestClickUpClient_DeleteTask(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusNoContent, "")

	err := client.DeleteTask(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, recorded.method)
	assert.Equal(t, "/api/v2/task/abc123", recorded.path)
}

func TestClickUpClient_GetTasks_QueryPassthrough(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"tasks": []}`)

	query := url.Values{"archived": {"false"}, "page": {"2"}}
	_, err := client.GetTasks(context.Background(), "list9", query)
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/list/list9/task", recorded.path)
	assert.Equal(t, "false", recorded.query.Get("archived"))
	assert.Equal(t, "2", recorded.query.Get("page"))
}

func TestClickUpClient_GetSpaces(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{
		"spaces": [
			{"id": "sp1", "name": "Backend"},
			{"id": "sp2", "name": "Frontend", "private": true}
		]
	}`)

	spaces, err := client.GetSpaces(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/team/901/space", recorded.path)
	require.Len(t, spaces, 2)
	assert.Equal(t, "Backend", spaces[0].Name)
	assert.True(t, spaces[1].Private)
}

func TestClickUpClient_AddTagToTask_EscapesName(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, "")

	err := client.AddTagToTask(context.Background(), "abc123", "needs review")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, recorded.method)
	// The raw space must have been escaped on the wire.
	assert.Equal(t, "/api/v2/task/abc123/tag/needs review", recorded.path)
}

func TestClickUpClient_TimeEntriesUseTeamScope(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"data": {"id": "te1"}}`)

	_, err := client.StartTimeTracking(context.Background(), map[string]interface{}{"tid": "abc123"})
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/team/901/time_entries/start", recorded.path)
}

func TestClickUpClient_DocumentsUseV3(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"id": "doc1"}`)

	_, err := client.GetDocument(context.Background(), "doc1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/workspaces/901/docs/doc1", recorded.path)
}

func TestClickUpClient_APIError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusNotFound, `{"err": "Task not found", "ECODE": "ITEM_013"}`)

	_, err := client.GetTask(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/api/v2/task/missing", apiErr.Endpoint)
	assert.Contains(t, apiErr.Detail, "Task not found")
}

func TestClickUpClient_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.StatusUnauthorized, `{"err": "Token invalid"}`)

	_, err := client.GetWorkspace(context.Background())
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClickUpClient_EmptyBodyTolerated(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, "")

	_, err := client.StopTimeTracking(context.Background())
	require.NoError(t, err)
}

func TestClickUpClient_Request_Passthrough(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"custom": "result"}`)

	result, err := client.Request(context.Background(), http.MethodGet, "team/901/goal", url.Values{"archived": {"true"}}, nil)
	require.NoError(t, err)

	// A leading slash is added when missing.
	assert.Equal(t, "/team/901/goal", recorded.path)
	assert.Equal(t, "true", recorded.query.Get("archived"))

	obj, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "result", obj["custom"])
}

func TestClickUpClient_GetWorkspaceHierarchy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v2/team/901":
			_, _ = w.Write([]byte(`{"team": {"id": "901", "name": "Engineering"}}`))
		case r.URL.Path == "/api/v2/team/901/space":
			_, _ = w.Write([]byte(`{"spaces": [{"id": "sp1", "name": "Backend"}]}`))
		case r.URL.Path == "/api/v2/space/sp1/folder":
			_, _ = w.Write([]byte(`{"folders": [{"id": "f1", "name": "Sprints", "lists": [{"id": "l1", "name": "Sprint 12"}]}]}`))
		case r.URL.Path == "/api/v2/space/sp1/list":
			_, _ = w.Write([]byte(`{"lists": [{"id": "l2", "name": "Backlog"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClickUpClient(server.URL, "pk_test_key", "901", server.Client())

	hierarchy, err := client.GetWorkspaceHierarchy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Engineering", hierarchy.Workspace.Name)
	require.Len(t, hierarchy.Spaces, 1)

	node := hierarchy.Spaces[0]
	assert.Equal(t, "Backend", node.Space.Name)
	require.Len(t, node.Folders, 1)
	assert.Equal(t, "Sprints", node.Folders[0].Name)
	require.Len(t, node.Folders[0].Lists, 1)
	require.Len(t, node.Lists, 1)
	assert.Equal(t, "Backlog", node.Lists[0].Name)
}

func TestClickUpClient_AttachTaskFile(t *testing.T) {
	var contentType string
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"id": "att1"}`))
	}))
	defer server.Close()

	client := NewClickUpClient(server.URL, "pk_test_key", "901", server.Client())

	_, err := client.AttachTaskFile(context.Background(), "abc123", "notes.txt", []byte("hello"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"), "Content-Type = %s", contentType)
	assert.Contains(t, string(body), "notes.txt")
	assert.Contains(t, string(body), "hello")
}

func TestClickUpClient_BaseURLTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/task/abc123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id": "abc123", "name": "ok"}`))
	}))
	defer server.Close()

	client := NewClickUpClient(server.URL+"/", "pk_test_key", "901", server.Client())

	task, err := client.GetTask(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", task.ID)
}
