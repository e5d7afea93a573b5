package domain

// Workspace represents a ClickUp workspace (team).
type Workspace struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members,omitempty"`
}

// Space represents a ClickUp space within a workspace.
type Space struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Private bool   `json:"private,omitempty"`
}

// Folder represents a ClickUp folder within a space.
type Folder struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Hidden           bool   `json:"hidden,omitempty"`
	Lists            []List `json:"lists,omitempty"`
	OverrideStatuses bool   `json:"override_statuses,omitempty"`
}

// List represents a ClickUp list, the container tasks live in.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content,omitempty"`
	TaskCount int    `json:"task_count,omitempty"`
}

// Task represents a ClickUp task.
type Task struct {
	ID          string     `json:"id"`
	CustomID    string     `json:"custom_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	StartDate   string     `json:"start_date,omitempty"`
	Assignees   []Member   `json:"assignees,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	List        *List      `json:"list,omitempty"`
	URL         string     `json:"url,omitempty"`
}

// TaskStatus represents the status of a task.
type TaskStatus struct {
	Status string `json:"status,omitempty"`
	Color  string `json:"color,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Priority represents a task priority level.
type Priority struct {
	ID       string `json:"id,omitempty"`
	Priority string `json:"priority,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Comment represents a comment on a task.
type Comment struct {
	ID          string  `json:"id"`
	CommentText string  `json:"comment_text"`
	User        *Member `json:"user,omitempty"`
	Date        string  `json:"date,omitempty"`
}

// Tag represents a space-level tag applied to tasks.
type Tag struct {
	Name    string `json:"name"`
	TagFg   string `json:"tag_fg,omitempty"`
	TagBg   string `json:"tag_bg,omitempty"`
	Creator int    `json:"creator,omitempty"`
}

// TimeEntry represents a time-tracking entry on a task.
type TimeEntry struct {
	ID          string  `json:"id"`
	Task        *Task   `json:"task,omitempty"`
	User        *Member `json:"user,omitempty"`
	Billable    bool    `json:"billable,omitempty"`
	Start       string  `json:"start,omitempty"`
	End         string  `json:"end,omitempty"`
	Duration    string  `json:"duration,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Member represents a workspace member.
type Member struct {
	ID       int    `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Initials string `json:"initials,omitempty"`
}

// Document represents a ClickUp doc.
type Document struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Parent  *DocumentParent `json:"parent,omitempty"`
	Creator int             `json:"creator,omitempty"`
	Public  bool            `json:"public,omitempty"`
}

// DocumentParent identifies where a doc is attached in the hierarchy.
type DocumentParent struct {
	ID   string `json:"id"`
	Type int    `json:"type"`
}

// DocumentPage represents a single page within a doc.
type DocumentPage struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
}

// Hierarchy is the resolved workspace tree: spaces containing folders
// and lists. It backs name-to-id resolution and is cached between calls.
type Hierarchy struct {
	Workspace Workspace       `json:"workspace"`
	Spaces    []HierarchyNode `json:"spaces"`
}

// HierarchyNode is one space with its folders and folderless lists.
type HierarchyNode struct {
	Space   Space    `json:"space"`
	Folders []Folder `json:"folders,omitempty"`
	Lists   []List   `json:"lists,omitempty"`
}
