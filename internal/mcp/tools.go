package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/board"
	"github.com/agentboard/agentboard/internal/types"
)

type toolDef struct {
	description string
	inputSchema map[string]any
	handler     func(ctx context.Context, raw json.RawMessage) (any, error)
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", board.ErrValidation, err)
	}
	return nil
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func schema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (s *Server) toolDefinitions() []map[string]any {
	names := []string{
		"send_message", "read_messages", "wait_for_message", "mark_read",
		"mark_all_read", "search_messages", "send_batch", "get_status",
		"get_protocol", "create_task", "update_task", "cancel_task",
		"get_tasks", "get_my_tasks", "get_task_details", "register_waiting",
		"unregister_waiting", "report_status", "heartbeat",
		"get_waiting_agents", "get_agent_status", "get_system_stats",
		"check_offline_agents", "register_client", "delete_message",
		"clear_old_messages",
	}
	tools := s.tools()
	defs := make([]map[string]any, 0, len(names))
	for _, name := range names {
		t := tools[name]
		defs = append(defs, map[string]any{
			"name":        name,
			"description": t.description,
			"inputSchema": t.inputSchema,
		})
	}
	return defs
}

// clientID resolves the effective agent identity for a call.
func (s *Server) clientID(given string) string {
	if given != "" {
		return given
	}
	return s.cfg.ClientID
}

type sendArgs struct {
	Content  string  `json:"content"`
	ClientID string  `json:"client_id"`
	ReplyTo  *string `json:"reply_to"`
	Priority string  `json:"priority"`
	Metadata *string `json:"metadata"`
	Session  string  `json:"session"`
}

type readArgs struct {
	ClientID   string `json:"client_id"`
	UnreadOnly bool   `json:"unread_only"`
	Sender     string `json:"sender"`
	Session    string `json:"session"`
	Limit      int    `json:"limit"`
}

type waitArgs struct {
	ClientID     string  `json:"client_id"`
	Timeout      float64 `json:"timeout"`
	Session      string  `json:"session"`
	LastSeen     int64   `json:"last_seen"`
	AgentType    string  `json:"agent_type"`
	Capabilities *string `json:"capabilities"`
	Status       string  `json:"status"`
	TaskID       *string `json:"task_id"`
	Progress     *int    `json:"progress"`
}

type markReadArgs struct {
	MessageIDs []string `json:"message_ids"`
}

type searchArgs struct {
	Keyword string `json:"keyword"`
	Sender  string `json:"sender"`
	Start   int64  `json:"start_time"`
	End     int64  `json:"end_time"`
	Limit   int    `json:"limit"`
}

type batchArgs struct {
	ClientID string     `json:"client_id"`
	Messages []sendArgs `json:"messages"`
}

type createTaskArgs struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	ClientID    string `json:"client_id"`
	Priority    string `json:"priority"`
}

type updateTaskArgs struct {
	TaskID string  `json:"task_id"`
	Status *string `json:"status"`
	Result *string `json:"result"`
}

type taskIDArgs struct {
	TaskID string `json:"task_id"`
}

type listTasksArgs struct {
	AssignedTo string `json:"assigned_to"`
	ClientID   string `json:"client_id"`
	Status     string `json:"status"`
	Limit      int    `json:"limit"`
}

type registerWaitingArgs struct {
	AgentID      string  `json:"agent_id"`
	AgentType    string  `json:"agent_type"`
	Capabilities *string `json:"capabilities"`
	Status       string  `json:"status"`
	TaskID       *string `json:"task_id"`
}

type agentIDArgs struct {
	AgentID string `json:"agent_id"`
}

type reportStatusArgs struct {
	AgentID  string  `json:"agent_id"`
	Status   string  `json:"status"`
	TaskID   *string `json:"task_id"`
	Progress *int    `json:"progress"`
}

type heartbeatArgs struct {
	AgentID  string  `json:"agent_id"`
	TaskID   *string `json:"task_id"`
	Progress *int    `json:"progress"`
}

type waitingAgentsArgs struct {
	AgentType string `json:"agent_type"`
}

type checkOfflineArgs struct {
	TimeoutSeconds float64 `json:"timeout_seconds"`
}

type registerClientArgs struct {
	ClientID string  `json:"client_id"`
	Name     string  `json:"name"`
	Config   *string `json:"config"`
}

type messageIDArgs struct {
	MessageID string `json:"message_id"`
}

type clearOldArgs struct {
	OlderThanHours float64 `json:"older_than_hours"`
}

func (s *Server) tools() map[string]toolDef {
	return map[string]toolDef{
		"send_message": {
			description: "Post a message to the board for other agents to read.",
			inputSchema: schema(map[string]any{
				"content":   prop("string", "Message body"),
				"client_id": prop("string", "Sender identity; defaults to the server's client id"),
				"reply_to":  prop("string", "Id of the message being answered (advisory)"),
				"priority":  prop("string", "normal, high, or urgent"),
				"metadata":  prop("string", "Opaque JSON blob attached to the message"),
				"session":   prop("string", "Session tag scoping the message to one conversation"),
			}, "content"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args sendArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				res, err := s.svc.Send(ctx, board.SendRequest{
					Sender:    s.clientID(args.ClientID),
					Content:   args.Content,
					ReplyTo:   args.ReplyTo,
					Priority:  args.Priority,
					Metadata:  args.Metadata,
					SessionID: args.Session,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"success":    true,
					"message_id": res.ID,
					"timestamp":  res.Timestamp,
					"session_id": res.SessionID,
				}, nil
			},
		},
		"read_messages": {
			description: "Read board messages, newest first. Excludes the caller's own messages.",
			inputSchema: schema(map[string]any{
				"client_id":   prop("string", "Reader identity; own messages are excluded"),
				"unread_only": prop("boolean", "Only unread messages"),
				"sender":      prop("string", "Only messages from this sender"),
				"session":     prop("string", "Only messages in this session"),
				"limit":       prop("integer", "Maximum messages to return (default 10)"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args readArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				messages, err := s.svc.Read(ctx, board.ReadOptions{
					UnreadOnly: args.UnreadOnly,
					Sender:     args.Sender,
					SessionID:  args.Session,
					ClientID:   s.clientID(args.ClientID),
					Limit:      args.Limit,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "messages": messages, "count": len(messages)}, nil
			},
		},
		"wait_for_message": {
			description: "Block until a message from another agent arrives or the timeout elapses. Registers the caller as waiting for the duration.",
			inputSchema: schema(map[string]any{
				"client_id":    prop("string", "Waiter identity"),
				"timeout":      prop("number", "Seconds to wait (default 300)"),
				"session":      prop("string", "Only deliver messages in this session"),
				"last_seen":    prop("integer", "Only deliver messages newer than this unix timestamp"),
				"agent_type":   prop("string", "Agent category; derived from client_id when omitted"),
				"capabilities": prop("string", "Advertised capabilities, JSON"),
				"status":       prop("string", "idle, working, or waiting (default idle)"),
				"task_id":      prop("string", "Task the agent is holding"),
				"progress":     prop("integer", "Progress to record on the held task"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args waitArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				return s.svc.WaitForMessage(ctx, board.WaitRequest{
					ClientID:     s.clientID(args.ClientID),
					SessionID:    args.Session,
					Timeout:      time.Duration(args.Timeout * float64(time.Second)),
					LastSeen:     args.LastSeen,
					AgentType:    args.AgentType,
					Capabilities: args.Capabilities,
					Status:       args.Status,
					TaskID:       args.TaskID,
					Progress:     args.Progress,
				})
			},
		},
		"mark_read": {
			description: "Acknowledge delivered messages by id.",
			inputSchema: schema(map[string]any{
				"message_ids": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Ids to mark read; unknown ids are ignored",
				},
			}, "message_ids"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args markReadArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				n, err := s.svc.MarkRead(ctx, args.MessageIDs)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "marked": n}, nil
			},
		},
		"mark_all_read": {
			description: "Mark every message read, or only one sender's.",
			inputSchema: schema(map[string]any{
				"sender": prop("string", "Restrict to this sender"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args struct {
					Sender string `json:"sender"`
				}
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				n, err := s.svc.MarkAllRead(ctx, args.Sender)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "marked": n}, nil
			},
		},
		"search_messages": {
			description: "Search message content by substring.",
			inputSchema: schema(map[string]any{
				"keyword":    prop("string", "Substring to match"),
				"sender":     prop("string", "Only messages from this sender"),
				"start_time": prop("integer", "Unix lower bound, inclusive"),
				"end_time":   prop("integer", "Unix upper bound, inclusive"),
				"limit":      prop("integer", "Maximum results (default 20)"),
			}, "keyword"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args searchArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				messages, err := s.svc.Search(ctx, board.SearchOptions{
					Keyword: args.Keyword,
					Sender:  args.Sender,
					Start:   args.Start,
					End:     args.End,
					Limit:   args.Limit,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "messages": messages, "count": len(messages)}, nil
			},
		},
		"send_batch": {
			description: "Send several messages atomically in one transaction.",
			inputSchema: schema(map[string]any{
				"client_id": prop("string", "Default sender for messages that omit one"),
				"messages": map[string]any{
					"type":        "array",
					"description": "Messages to send; each accepts the send_message fields",
					"items":       map[string]any{"type": "object"},
				},
			}, "messages"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args batchArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				reqs := make([]board.SendRequest, len(args.Messages))
				for i, m := range args.Messages {
					sender := m.ClientID
					if sender == "" {
						sender = s.clientID(args.ClientID)
					}
					reqs[i] = board.SendRequest{
						Sender:    sender,
						Content:   m.Content,
						ReplyTo:   m.ReplyTo,
						Priority:  m.Priority,
						Metadata:  m.Metadata,
						SessionID: m.Session,
					}
				}
				results, err := s.svc.SendBatch(ctx, reqs)
				if err != nil {
					return nil, err
				}
				ids := make([]string, len(results))
				for i, r := range results {
					ids[i] = r.ID
				}
				return map[string]any{"success": true, "message_ids": ids, "count": len(ids)}, nil
			},
		},
		"get_status": {
			description: "Board-wide message counters.",
			inputSchema: schema(map[string]any{}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				stats, err := s.svc.MessageStats(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"success":             true,
					"total_messages":      stats.Total,
					"unread_messages":     stats.Unread,
					"latest_message_time": stats.Latest,
				}, nil
			},
		},
		"get_protocol": {
			description: "The coordination protocol document agents should follow.",
			inputSchema: schema(map[string]any{}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				text, err := s.protocolText()
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "protocol": text}, nil
			},
		},
		"create_task": {
			description: "Create a pending task assigned to an agent.",
			inputSchema: schema(map[string]any{
				"title":       prop("string", "Short task title"),
				"description": prop("string", "Longer task description"),
				"assigned_to": prop("string", "Agent the task is for"),
				"client_id":   prop("string", "Creator identity"),
				"priority":    prop("string", "low, normal, high, or urgent"),
			}, "title", "assigned_to"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args createTaskArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				task, err := s.svc.CreateTask(ctx, board.CreateTaskRequest{
					Title:       args.Title,
					Description: args.Description,
					AssignedTo:  args.AssignedTo,
					CreatedBy:   s.clientID(args.ClientID),
					Priority:    args.Priority,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "task": task}, nil
			},
		},
		"update_task": {
			description: "Update a task's status or result. Completed and failed tasks are immutable.",
			inputSchema: schema(map[string]any{
				"task_id": prop("string", "Task to update"),
				"status":  prop("string", "pending, running, completed, or failed"),
				"result":  prop("string", "Result payload to store"),
			}, "task_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args updateTaskArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				updated, err := s.svc.UpdateTask(ctx, args.TaskID, types.TaskUpdates{
					Status: args.Status,
					Result: args.Result,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "updated": updated}, nil
			},
		},
		"cancel_task": {
			description: "Cancel a task; it moves to failed with error 'cancelled'. Idempotent.",
			inputSchema: schema(map[string]any{
				"task_id": prop("string", "Task to cancel"),
			}, "task_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args taskIDArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				cancelled, err := s.svc.CancelTask(ctx, args.TaskID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "cancelled": cancelled}, nil
			},
		},
		"get_tasks": {
			description: "List tasks, newest first.",
			inputSchema: schema(map[string]any{
				"assigned_to": prop("string", "Only tasks for this agent"),
				"status":      prop("string", "Only tasks in this status"),
				"limit":       prop("integer", "Maximum tasks to return (default 10)"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args listTasksArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				tasks, err := s.svc.ListTasks(ctx, types.TaskFilter{
					AssignedTo: args.AssignedTo,
					Status:     args.Status,
					Limit:      args.Limit,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "tasks": tasks, "count": len(tasks)}, nil
			},
		},
		"get_my_tasks": {
			description: "List the caller's own tasks, newest first.",
			inputSchema: schema(map[string]any{
				"client_id": prop("string", "Agent identity"),
				"status":    prop("string", "Only tasks in this status"),
				"limit":     prop("integer", "Maximum tasks to return (default 10)"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args listTasksArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				tasks, err := s.svc.ListTasks(ctx, types.TaskFilter{
					AssignedTo: s.clientID(args.ClientID),
					Status:     args.Status,
					Limit:      args.Limit,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "tasks": tasks, "count": len(tasks)}, nil
			},
		},
		"get_task_details": {
			description: "Fetch one task by id.",
			inputSchema: schema(map[string]any{
				"task_id": prop("string", "Task to fetch"),
			}, "task_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args taskIDArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				task, err := s.svc.GetTask(ctx, args.TaskID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "task": task}, nil
			},
		},
		"register_waiting": {
			description: "Register the caller in the waiting-agent registry. One row per agent; repeated calls refresh it.",
			inputSchema: schema(map[string]any{
				"agent_id":     prop("string", "Agent identity"),
				"agent_type":   prop("string", "Agent category; derived from agent_id when omitted"),
				"capabilities": prop("string", "Advertised capabilities, JSON"),
				"status":       prop("string", "idle, working, or waiting (default idle)"),
				"task_id":      prop("string", "Task the agent is holding"),
			}, "agent_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args registerWaitingArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				agent, err := s.svc.RegisterWaiting(ctx, board.RegisterRequest{
					AgentID:      args.AgentID,
					AgentType:    args.AgentType,
					Capabilities: args.Capabilities,
					Status:       args.Status,
					TaskID:       args.TaskID,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "agent": agent}, nil
			},
		},
		"unregister_waiting": {
			description: "Remove the caller from the waiting-agent registry. Idempotent.",
			inputSchema: schema(map[string]any{
				"agent_id": prop("string", "Agent identity"),
			}, "agent_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args agentIDArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				removed, err := s.svc.UnregisterWaiting(ctx, args.AgentID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "removed": removed}, nil
			},
		},
		"report_status": {
			description: "Report the caller's status; a linked task is synced to running or pending.",
			inputSchema: schema(map[string]any{
				"agent_id": prop("string", "Agent identity"),
				"status":   prop("string", "idle, working, or waiting"),
				"task_id":  prop("string", "Task the agent is holding"),
				"progress": prop("integer", "Progress to record on the held task"),
			}, "agent_id", "status"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args reportStatusArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				updated, err := s.svc.ReportStatus(ctx, args.AgentID, args.Status, args.TaskID, args.Progress)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "updated": updated}, nil
			},
		},
		"heartbeat": {
			description: "Advance the caller's liveness clock, optionally recording task progress.",
			inputSchema: schema(map[string]any{
				"agent_id": prop("string", "Agent identity"),
				"task_id":  prop("string", "Task the agent is holding"),
				"progress": prop("integer", "Progress to record on the held task"),
			}, "agent_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args heartbeatArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				updated, err := s.svc.Heartbeat(ctx, args.AgentID, args.TaskID, args.Progress)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "updated": updated}, nil
			},
		},
		"get_waiting_agents": {
			description: "List waiting agents, longest-waiting first, with liveness fields.",
			inputSchema: schema(map[string]any{
				"agent_type": prop("string", "Only agents of this category"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args waitingAgentsArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				agents, err := s.svc.WaitingAgents(ctx, args.AgentType)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "agents": agents, "count": len(agents)}, nil
			},
		},
		"get_agent_status": {
			description: "One agent's registry row and open tasks.",
			inputSchema: schema(map[string]any{
				"agent_id": prop("string", "Agent identity"),
			}, "agent_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args agentIDArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				report, err := s.svc.AgentStatus(ctx, args.AgentID)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"success":      true,
					"agent":        report.Agent,
					"registered":   report.Registered,
					"active_tasks": report.ActiveTasks,
				}, nil
			},
		},
		"get_system_stats": {
			description: "Broker-wide health snapshot: message, task, and agent counters.",
			inputSchema: schema(map[string]any{}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				stats, err := s.svc.Stats(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "stats": stats}, nil
			},
		},
		"check_offline_agents": {
			description: "Run the liveness sweep: detach agents with stale heartbeats and fail their running tasks.",
			inputSchema: schema(map[string]any{
				"timeout_seconds": prop("number", "Heartbeat staleness threshold (default 120)"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args checkOfflineArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				result, err := s.svc.CheckOffline(ctx, time.Duration(args.TimeoutSeconds*float64(time.Second)))
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"success":            true,
					"offline_agents":     result.OfflineAgents,
					"reassignable_tasks": result.Reassignable,
					"checked_at":         result.CheckedAt,
				}, nil
			},
		},
		"register_client": {
			description: "Record a wrapper process in the clients table.",
			inputSchema: schema(map[string]any{
				"client_id": prop("string", "Client identity"),
				"name":      prop("string", "Human-readable name"),
				"config":    prop("string", "Client configuration, JSON"),
			}),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args registerClientArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				client, err := s.svc.RegisterClient(ctx, s.clientID(args.ClientID), args.Name, args.Config)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "client": client}, nil
			},
		},
		"delete_message": {
			description: "Delete one message by id.",
			inputSchema: schema(map[string]any{
				"message_id": prop("string", "Message to delete"),
			}, "message_id"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args messageIDArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				deleted, err := s.svc.Delete(ctx, args.MessageID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "deleted": deleted}, nil
			},
		},
		"clear_old_messages": {
			description: "Delete messages older than the given window.",
			inputSchema: schema(map[string]any{
				"older_than_hours": prop("number", "Age threshold in hours"),
			}, "older_than_hours"),
			handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args clearOldArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				n, err := s.svc.ClearOld(ctx, time.Duration(args.OlderThanHours*float64(time.Hour)))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "deleted": n}, nil
			},
		},
	}
}
