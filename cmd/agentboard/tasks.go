package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentboard/agentboard/internal/types"
)

func newTasksCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Create and manage tasks",
	}
	cmd.AddCommand(
		newTasksListCmd(opts),
		newTasksCreateCmd(opts),
		newTasksShowCmd(opts),
		newTasksUpdateCmd(opts),
		newTasksCancelCmd(opts),
	)
	return cmd
}

func newTasksListCmd(opts *cliOptions) *cobra.Command {
	var (
		mine       bool
		assignedTo string
		status     string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tool := "get_tasks"
			toolArgs := map[string]any{
				"assigned_to": assignedTo,
				"status":      status,
				"limit":       limit,
			}
			if mine {
				tool = "get_my_tasks"
				toolArgs = map[string]any{
					"client_id": opts.clientID,
					"status":    status,
					"limit":     limit,
				}
			}
			var result struct {
				Tasks []types.Task `json:"tasks"`
			}
			if err := callTool(opts, tool, toolArgs, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if len(result.Tasks) == 0 {
				fmt.Println("no tasks")
				return nil
			}
			for _, t := range result.Tasks {
				fmt.Printf("%s  %-9s %3d%%  %-12s %s\n",
					t.ID, t.Status, t.Progress, t.AssignedTo, truncate(t.Title, 60))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only the caller's tasks")
	cmd.Flags().StringVar(&assignedTo, "assigned-to", "", "only tasks for this agent")
	cmd.Flags().StringVar(&status, "status", "", "only tasks in this status")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum tasks")
	return cmd
}

func newTasksCreateCmd(opts *cliOptions) *cobra.Command {
	var (
		description string
		assignedTo  string
		priority    string
	)
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a pending task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Task types.Task `json:"task"`
			}
			err := callTool(opts, "create_task", map[string]any{
				"title":       args[0],
				"description": description,
				"assigned_to": assignedTo,
				"client_id":   opts.clientID,
				"priority":    priority,
			}, &result)
			if err != nil {
				return err
			}
			if !opts.jsonOut {
				fmt.Printf("created %s\n", result.Task.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "longer task description")
	cmd.Flags().StringVar(&assignedTo, "assigned-to", "", "agent the task is for")
	cmd.Flags().StringVar(&priority, "priority", "", "low, normal, high, or urgent")
	_ = cmd.MarkFlagRequired("assigned-to")
	return cmd
}

func newTasksShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Success bool       `json:"success"`
				Error   string     `json:"error"`
				Task    types.Task `json:"task"`
			}
			if err := callTool(opts, "get_task_details", map[string]any{"task_id": args[0]}, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if !result.Success {
				return fmt.Errorf("%s", result.Error)
			}
			t := result.Task
			fmt.Printf("id:          %s\n", t.ID)
			fmt.Printf("title:       %s\n", t.Title)
			if t.Description != "" {
				fmt.Printf("description: %s\n", t.Description)
			}
			fmt.Printf("status:      %s (%d%%)\n", t.Status, t.Progress)
			fmt.Printf("assigned to: %s (by %s)\n", t.AssignedTo, t.CreatedBy)
			fmt.Printf("created:     %s\n", formatTimestamp(t.CreatedAt))
			if t.CompletedAt != nil {
				fmt.Printf("finished:    %s\n", formatTimestamp(*t.CompletedAt))
			}
			if t.ErrorMessage != nil {
				fmt.Printf("error:       %s\n", *t.ErrorMessage)
			}
			if t.Result != nil {
				fmt.Printf("result:      %s\n", *t.Result)
			}
			return nil
		},
	}
}

func newTasksUpdateCmd(opts *cliOptions) *cobra.Command {
	var (
		status string
		result string
	)
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task's status or result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{"task_id": args[0]}
			if status != "" {
				toolArgs["status"] = status
			}
			if result != "" {
				toolArgs["result"] = result
			}
			var res struct {
				Updated bool `json:"updated"`
			}
			if err := callTool(opts, "update_task", toolArgs, &res); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if !res.Updated {
				return fmt.Errorf("task %s was not updated (already finished?)", args[0])
			}
			fmt.Println("updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "pending, running, completed, or failed")
	cmd.Flags().StringVar(&result, "result", "", "result payload")
	return cmd
}

func newTasksCancelCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Cancelled bool `json:"cancelled"`
			}
			if err := callTool(opts, "cancel_task", map[string]any{"task_id": args[0]}, &res); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if res.Cancelled {
				fmt.Println("cancelled")
			} else {
				fmt.Println("already finished, nothing to cancel")
			}
			return nil
		},
	}
}
