package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clickup-mcp-server/internal/domain"
)

// ClickUpClient handles ClickUp API interactions. Most resources live under
// the v2 API; docs use v3. Authentication is a single personal token sent in
// the Authorization header on every request.
type ClickUpClient struct {
	baseURL    string
	apiKey     string
	teamID     string
	httpClient *http.Client
}

// NewClickUpClient creates a new ClickUp API client. The baseURL should be
// the API root without a version suffix (e.g., "https://api.clickup.com");
// pass nil for httpClient to use a default with a 30 second timeout.
func NewClickUpClient(baseURL, apiKey, teamID string, httpClient *http.Client) *ClickUpClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ClickUpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		teamID:     teamID,
		httpClient: httpClient,
	}
}

// TeamID returns the configured workspace (team) identifier.
func (c *ClickUpClient) TeamID() string {
	return c.teamID
}

// do executes an API request and decodes the JSON response into out.
// Pass nil out to discard the response body. Non-2xx statuses are
// returned as *domain.APIError with the status code preserved.
func (c *ClickUpClient) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		return &domain.APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Request performs a raw API call against an arbitrary endpoint path.
// This backs the generic passthrough tool; the decoded JSON body is
// returned as-is.
func (c *ClickUpClient) Request(ctx context.Context, method, path string, query url.Values, body interface{}) (interface{}, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	var result interface{}
	if err := c.do(ctx, method, path, query, body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ---- Workspace ----

type workspaceResponse struct {
	Team domain.Workspace `json:"team"`
}

type spacesResponse struct {
	Spaces []domain.Space `json:"spaces"`
}

type foldersResponse struct {
	Folders []domain.Folder `json:"folders"`
}

type listsResponse struct {
	Lists []domain.List `json:"lists"`
}

// GetWorkspace retrieves the configured team, including its members.
func (c *ClickUpClient) GetWorkspace(ctx context.Context) (*domain.Workspace, error) {
	var resp workspaceResponse
	if err := c.do(ctx, http.MethodGet, "/api/v2/team/"+c.teamID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Team, nil
}

// GetSpaces retrieves all spaces in the workspace.
func (c *ClickUpClient) GetSpaces(ctx context.Context) ([]domain.Space, error) {
	var resp spacesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v2/team/"+c.teamID+"/space", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Spaces, nil
}

// GetFolders retrieves all folders in a space.
func (c *ClickUpClient) GetFolders(ctx context.Context, spaceID string) ([]domain.Folder, error) {
	var resp foldersResponse
	if err := c.do(ctx, http.MethodGet, "/api/v2/space/"+spaceID+"/folder", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// GetFolderlessLists retrieves the lists in a space that live outside any folder.
func (c *ClickUpClient) GetFolderlessLists(ctx context.Context, spaceID string) ([]domain.List, error) {
	var resp listsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v2/space/"+spaceID+"/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

// GetWorkspaceHierarchy resolves the full workspace tree: every space with
// its folders (and their lists) and folderless lists. This walks several
// endpoints, which is why the result is cached by the hierarchy cache.
func (c *ClickUpClient) GetWorkspaceHierarchy(ctx context.Context) (*domain.Hierarchy, error) {
	workspace, err := c.GetWorkspace(ctx)
	if err != nil {
		return nil, err
	}

	spaces, err := c.GetSpaces(ctx)
	if err != nil {
		return nil, err
	}

	hierarchy := &domain.Hierarchy{Workspace: *workspace}
	for _, space := range spaces {
		node := domain.HierarchyNode{Space: space}

		folders, err := c.GetFolders(ctx, space.ID)
		if err != nil {
			return nil, err
		}
		node.Folders = folders

		lists, err := c.GetFolderlessLists(ctx, space.ID)
		if err != nil {
			return nil, err
		}
		node.Lists = lists

		hierarchy.Spaces = append(hierarchy.Spaces, node)
	}

	return hierarchy, nil
}

// ---- Tasks ----

// GetTask retrieves a single task by id.
func (c *ClickUpClient) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/v2/task/"+taskID, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTasks retrieves tasks in a list, with optional filter parameters.
func (c *ClickUpClient) GetTasks(ctx context.Context, listID string, query url.Values) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v2/list/"+listID+"/task", query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetWorkspaceTasks retrieves filtered tasks across the entire workspace.
func (c *ClickUpClient) GetWorkspaceTasks(ctx context.Context, query url.Values) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v2/team/"+c.teamID+"/task", query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTask creates a task in the given list.
func (c *ClickUpClient) CreateTask(ctx context.Context, listID string, payload map[string]interface{}) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, "/api/v2/list/"+listID+"/task", nil, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates fields of an existing task.
func (c *ClickUpClient) UpdateTask(ctx context.Context, taskID string, payload map[string]interface{}) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPut, "/api/v2/task/"+taskID, nil, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask permanently deletes a task.
func (c *ClickUpClient) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v2/task/"+taskID, nil, nil, nil)
}

// AddTaskToList attaches a task to an additional list.
func (c *ClickUpClient) AddTaskToList(ctx context.Context, listID, taskID string) error {
	return c.do(ctx, http.MethodPost, "/api/v2/list/"+listID+"/task/"+taskID, nil, nil, nil)
}

// RemoveTaskFromList detaches a task from a list.
func (c *ClickUpClient) RemoveTaskFromList(ctx context.Context, listID, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v2/list/"+listID+"/task/"+taskID, nil, nil, nil)
}

// GetTaskComments retrieves the comments on a task.
func (c *ClickUpClient) GetTaskComments(ctx context.Context, taskID string) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v2/task/"+taskID+"/comment", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTaskComment adds a comment to a task.
func (c *ClickUpClient) CreateTaskComment(ctx context.Context, taskID string, payload map[string]interface{}) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodPost, "/api/v2/task/"+taskID+"/comment", nil, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AttachTaskFile uploads a file attachment to a task as multipart form data.
func (c *ClickUpClient) AttachTaskFile(ctx context.Context, taskID, fileName string, data []byte) (interface{}, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("attachment", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write attachment data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := c.baseURL + "/api/v2/task/" + taskID + "/attachment"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(resp.Body)
		return nil, &domain.APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   "/api/v2/task/" + taskID + "/attachment",
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	var result interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

// ---- Lists ----

// CreateList creates a folderless list in a space.
func (c *ClickUpClient) CreateList(ctx context.Context, spaceID string, payload map[string]interface{}) (*domain.List, error) {
	var list domain.List
	if err := c.do(ctx, http.MethodPost, "/api/v2/space/"+spaceID+"/list", nil, payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateListInFolder creates a list inside a folder.
func (c *ClickUpClient) CreateListInFolder(ctx context.Context, folderID string, payload map[string]interface{}) (*domain.List, error) {
	var list domain.List
	if err := c.do(ctx, http.MethodPost, "/api/v2/folder/"+folderID+"/list", nil, payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetList retrieves a single list by id.
func (c *ClickUpClient) GetList(ctx context.Context, listID string) (*domain.List, error) {
	var list domain.List
	if err := c.do(ctx, http.MethodGet, "/api/v2/list/"+listID, nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateList updates the name or content of a list.
func (c *ClickUpClient) UpdateList(ctx context.Context, listID string, payload map[string]interface{}) (*domain.List, error) {
	var list domain.List
	if err := c.do(ctx, http.MethodPut, "/api/v2/list/"+listID, nil, payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteList permanently deletes a list.
func (c *ClickUpClient) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v2/list/"+listID, nil, nil, nil)
}

// ---- Folders ----

// CreateFolder creates a folder in a space.
func (c *ClickUpClient) CreateFolder(ctx context.Context, spaceID string, payload map[string]interface{}) (*domain.Folder, error) {
	var folder domain.Folder
	if err := c.do(ctx, http.MethodPost, "/api/v2/space/"+spaceID+"/folder", nil, payload, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// GetFolder retrieves a single folder by id.
func (c *ClickUpClient) GetFolder(ctx context.Context, folderID string) (*domain.Folder, error) {
	var folder domain.Folder
	if err := c.do(ctx, http.MethodGet, "/api/v2/folder/"+folderID, nil, nil, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// UpdateFolder updates the name of a folder.
func (c *ClickUpClient) UpdateFolder(ctx context.Context, folderID string, payload map[string]interface{}) (*domain.Folder, error) {
	var folder domain.Folder
	if err := c.do(ctx, http.MethodPut, "/api/v2/folder/"+folderID, nil, payload, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder permanently deletes a folder.
func (c *ClickUpClient) DeleteFolder(ctx context.Context, folderID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v2/folder/"+folderID, nil, nil, nil)
}

// ---- Tags ----

type tagsResponse struct {
	Tags []domain.Tag `json:"tags"`
}

// GetSpaceTags retrieves the tags defined in a space.
func (c *ClickUpClient) GetSpaceTags(ctx context.Context, spaceID string) ([]domain.Tag, error) {
	var resp tagsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v2/space/"+spaceID+"/tag", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// AddTagToTask applies an existing space tag to a task.
func (c *ClickUpClient) AddTagToTask(ctx context.Context, taskID, tagName string) error {
	return c.do(ctx, http.MethodPost, "/api/v2/task/"+taskID+"/tag/"+url.PathEscape(tagName), nil, nil, nil)
}

// RemoveTagFromTask removes a tag from a task.
func (c *ClickUpClient) RemoveTagFromTask(ctx context.Context, taskID, tagName string) error {
	return c.do(ctx, http.MethodDelete, "/api/v2/task/"+taskID+"/tag/"+url.PathEscape(tagName), nil, nil, nil)
}

// ---- Time tracking ----

// GetTaskTimeEntries retrieves time entries recorded against a task.
func (c *ClickUpClient) GetTaskTimeEntries(ctx context.Context, taskID string) (interface{}, error) {
	query := url.Values{"task_id": {taskID}}
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v2/team/"+c.teamID+"/time_entries", query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// StartTimeTracking starts the running timer for the authenticated user.
func (c *ClickUpClient) StartTimeTracking(ctx context.Context, payload map[string]interface{}) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodPost, "/api/v2/team/"+c.teamID+"/time_entries/start", nil, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// StopTimeTracking stops the running timer for the authenticated user.
func (c *ClickUpClient) StopTimeTracking(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodPost, "/api/v2/team/"+c.teamID+"/time_entries/stop", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddTimeEntry records a manual time entry.
func (c *ClickUpClient) AddTimeEntry(ctx context.Context, payload map[string]interface{}) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodPost, "/api/v2/team/"+c.teamID+"/time_entries", nil, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTimeEntry deletes a time entry.
func (c *ClickUpClient) DeleteTimeEntry(ctx context.Context, entryID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v2/team/"+c.teamID+"/time_entries/"+entryID, nil, nil, nil)
}

// GetCurrentTimeEntry retrieves the currently running timer, if any.
func (c *ClickUpClient) GetCurrentTimeEntry(ctx context.Context) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v2/team/"+c.teamID+"/time_entries/current", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ---- Documents (v3 API) ----

// CreateDocument creates a doc in the workspace.
func (c *ClickUpClient) CreateDocument(ctx context.Context, payload map[string]interface{}) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodPost, "/api/v3/workspaces/"+c.teamID+"/docs", nil, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDocument retrieves a doc by id.
func (c *ClickUpClient) GetDocument(ctx context.Context, docID string) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v3/workspaces/"+c.teamID+"/docs/"+docID, nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListDocuments searches docs in the workspace.
func (c *ClickUpClient) ListDocuments(ctx context.Context, query url.Values) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v3/workspaces/"+c.teamID+"/docs", query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListDocumentPages retrieves the page listing (tree) of a doc.
func (c *ClickUpClient) ListDocumentPages(ctx context.Context, docID string) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v3/workspaces/"+c.teamID+"/docs/"+docID+"/pageListing", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDocumentPages retrieves the full content of a doc's pages.
func (c *ClickUpClient) GetDocumentPages(ctx context.Context, docID string) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodGet, "/api/v3/workspaces/"+c.teamID+"/docs/"+docID+"/pages", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateDocumentPage adds a page to a doc.
func (c *ClickUpClient) CreateDocumentPage(ctx context.Context, docID string, payload map[string]interface{}) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodPost, "/api/v3/workspaces/"+c.teamID+"/docs/"+docID+"/pages", nil, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateDocumentPage edits the content of a doc page.
func (c *ClickUpClient) UpdateDocumentPage(ctx context.Context, docID, pageID string, payload map[string]interface{}) (interface{}, error) {
	var result interface{}
	if err := c.do(ctx, http.MethodPut, "/api/v3/workspaces/"+c.teamID+"/docs/"+docID+"/pages/"+pageID, nil, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
