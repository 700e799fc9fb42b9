package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentboard/agentboard/internal/types"
)

func newSendCmd(opts *cliOptions) *cobra.Command {
	var (
		replyTo  string
		priority string
		session  string
	)
	cmd := &cobra.Command{
		Use:   "send <content>",
		Short: "Post a message to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{
				"content":   args[0],
				"client_id": opts.clientID,
			}
			if replyTo != "" {
				toolArgs["reply_to"] = replyTo
			}
			if priority != "" {
				toolArgs["priority"] = priority
			}
			if session != "" {
				toolArgs["session"] = session
			}
			var result struct {
				MessageID string `json:"message_id"`
			}
			if err := callTool(opts, "send_message", toolArgs, &result); err != nil {
				return err
			}
			if !opts.jsonOut {
				fmt.Printf("sent %s\n", result.MessageID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "message id being answered")
	cmd.Flags().StringVar(&priority, "priority", "", "normal, high, or urgent")
	cmd.Flags().StringVar(&session, "session", "", "session tag")
	return cmd
}

func newReadCmd(opts *cliOptions) *cobra.Command {
	var (
		unreadOnly bool
		sender     string
		session    string
		limit      int
		ack        bool
	)
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read messages from other agents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{
				"client_id":   opts.clientID,
				"unread_only": unreadOnly,
				"sender":      sender,
				"session":     session,
				"limit":       limit,
			}
			var result struct {
				Messages []types.Message `json:"messages"`
			}
			if err := callTool(opts, "read_messages", toolArgs, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if len(result.Messages) == 0 {
				fmt.Println("no messages")
				return nil
			}
			for _, m := range result.Messages {
				marker := " "
				if !m.Read {
					marker = "*"
				}
				fmt.Printf("%s [%s] %s: %s\n", marker, formatTimestamp(m.Timestamp), m.Sender, m.Content)
			}
			if ack {
				ids := make([]string, len(result.Messages))
				for i, m := range result.Messages {
					ids[i] = m.ID
				}
				return callTool(opts, "mark_read", map[string]any{"message_ids": ids}, nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only unread messages")
	cmd.Flags().StringVar(&sender, "sender", "", "only messages from this sender")
	cmd.Flags().StringVar(&session, "session", "", "only messages in this session")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum messages")
	cmd.Flags().BoolVar(&ack, "ack", false, "mark the returned messages read")
	return cmd
}

func newWaitCmd(opts *cliOptions) *cobra.Command {
	var (
		timeout float64
		session string
	)
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until a message arrives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{
				"client_id": opts.clientID,
				"timeout":   timeout,
				"session":   session,
			}
			var result struct {
				Success  bool           `json:"success"`
				Timeout  bool           `json:"timeout"`
				Message  *types.Message `json:"message"`
				WaitTime float64        `json:"wait_time"`
			}
			if err := callTool(opts, "wait_for_message", toolArgs, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if result.Timeout {
				return fmt.Errorf("no message within %.0fs", result.WaitTime)
			}
			m := result.Message
			fmt.Printf("[%s] %s: %s\n", formatTimestamp(m.Timestamp), m.Sender, m.Content)
			return nil
		},
	}
	cmd.Flags().Float64Var(&timeout, "timeout", 300, "seconds to wait")
	cmd.Flags().StringVar(&session, "session", "", "only messages in this session")
	return cmd
}

func newStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Broker-wide counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Stats struct {
					Messages       types.MessageStats `json:"messages"`
					TasksPending   int64              `json:"tasks_pending"`
					TasksRunning   int64              `json:"tasks_running"`
					TasksCompleted int64              `json:"tasks_completed"`
					TasksFailed    int64              `json:"tasks_failed"`
					WaitingAgents  int                `json:"waiting_agents"`
					TimedOutAgents int                `json:"timed_out_agents"`
				} `json:"stats"`
			}
			if err := callTool(opts, "get_system_stats", map[string]any{}, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			st := result.Stats
			fmt.Printf("messages: %d total, %d unread\n", st.Messages.Total, st.Messages.Unread)
			fmt.Printf("tasks: %d pending, %d running, %d completed, %d failed\n",
				st.TasksPending, st.TasksRunning, st.TasksCompleted, st.TasksFailed)
			fmt.Printf("agents: %d waiting, %d timed out\n", st.WaitingAgents, st.TimedOutAgents)
			return nil
		},
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
