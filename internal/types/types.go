package types

// Message priorities accepted by send.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
	PriorityLow    = "low" // tasks only
)

// Task statuses.
const (
	TaskPending   = "pending"
	TaskRunning   = "running"
	TaskCompleted = "completed"
	TaskFailed    = "failed"
)

// Waiting agent statuses.
const (
	AgentIdle    = "idle"
	AgentWorking = "working"
	AgentWaiting = "waiting"
)

// Message is a board message. SessionID is the first-class session column;
// rows written by older producers may instead carry the tag encoded in
// Content, which readers decode on the way out.
type Message struct {
	ID             string  `json:"id"`
	Sender         string  `json:"sender"`
	Content        string  `json:"content"`
	Timestamp      int64   `json:"timestamp"`
	Read           bool    `json:"read"`
	ReplyTo        *string `json:"reply_to,omitempty"`
	Priority       string  `json:"priority"`
	Metadata       *string `json:"metadata,omitempty"`
	SessionID      *string `json:"session_id,omitempty"`
	DeliveryStatus string  `json:"delivery_status,omitempty"`
}

// Task is a unit of work assigned to an agent.
type Task struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
	AssignedTo   string  `json:"assigned_to"`
	CreatedBy    string  `json:"created_by"`
	Priority     string  `json:"priority"`
	Progress     int     `json:"progress"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
	StartedAt    *int64  `json:"started_at,omitempty"`
	CompletedAt  *int64  `json:"completed_at,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
	Result       *string `json:"result,omitempty"`
}

// WaitingAgent is a registry row asserting that an agent is blocked in a
// wait. At most one row exists per agent_id.
type WaitingAgent struct {
	ID             string  `json:"id"`
	AgentID        string  `json:"agent_id"`
	AgentType      string  `json:"agent_type"`
	WaitingSince   int64   `json:"waiting_since"`
	Capabilities   *string `json:"capabilities,omitempty"`
	Status         string  `json:"status"`
	CurrentTaskID  *string `json:"current_task_id,omitempty"`
	Heartbeat      int64   `json:"heartbeat"`
	IsOnline       bool    `json:"is_online"`
	LastDisconnect *int64  `json:"last_disconnect,omitempty"`
}

// WaitingAgentView is a WaitingAgent plus fields derived at read time.
type WaitingAgentView struct {
	WaitingAgent
	WaitingDuration int64 `json:"waiting_duration"`
	HeartbeatAge    int64 `json:"heartbeat_age"`
	IsTimeout       bool  `json:"is_timeout"`
}

// Client is a registered wrapper process.
type Client struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	LastSeen int64   `json:"last_seen"`
	Config   *string `json:"config,omitempty"`
}

// OfflineAgent describes an agent detached by the liveness sweep.
type OfflineAgent struct {
	AgentID         string  `json:"agent_id"`
	CurrentTaskID   *string `json:"current_task_id,omitempty"`
	Status          string  `json:"status"`
	LastHeartbeat   int64   `json:"last_heartbeat"`
	OfflineDuration int64   `json:"offline_duration"`
}

// ReassignableTask is a task whose owner went away; orchestrators read this
// list and create replacement tasks.
type ReassignableTask struct {
	TaskID     string `json:"task_id"`
	Title      string `json:"title"`
	AssignedTo string `json:"assigned_to"`
}

// MessageFilter controls message list queries. ClientID, when set, excludes
// that sender's own messages from the result.
type MessageFilter struct {
	UnreadOnly bool
	Sender     string
	SessionID  string
	ClientID   string
	Limit      int
}

// SearchFilter controls substring searches over message content.
type SearchFilter struct {
	Keyword string
	Sender  string
	Start   int64
	End     int64
	Limit   int
}

// TaskFilter controls task list queries.
type TaskFilter struct {
	AssignedTo string
	Status     string
	Limit      int
}

// TaskUpdates is a partial task update. Nil fields are left untouched.
type TaskUpdates struct {
	Status *string
	Result *string
}

// MessageStats are the counters behind get_status.
type MessageStats struct {
	Total  int64  `json:"total_messages"`
	Unread int64  `json:"unread_messages"`
	Latest *int64 `json:"latest_message_time,omitempty"`
}
