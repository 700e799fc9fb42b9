package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentboard/agentboard/internal/types"
)

func newAgentsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect the waiting-agent registry",
	}
	cmd.AddCommand(
		newAgentsListCmd(opts),
		newAgentsStatusCmd(opts),
		newAgentsSweepCmd(opts),
	)
	return cmd
}

func newAgentsListCmd(opts *cliOptions) *cobra.Command {
	var agentType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List waiting agents, longest-waiting first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Agents []types.WaitingAgentView `json:"agents"`
			}
			if err := callTool(opts, "get_waiting_agents", map[string]any{"agent_type": agentType}, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if len(result.Agents) == 0 {
				fmt.Println("no waiting agents")
				return nil
			}
			for _, a := range result.Agents {
				liveness := "online"
				if !a.IsOnline {
					liveness = "offline"
				} else if a.IsTimeout {
					liveness = "stale"
				}
				fmt.Printf("%-20s %-10s %-8s waiting %4ds, heartbeat %3ds ago\n",
					a.AgentID, a.Status, liveness, a.WaitingDuration, a.HeartbeatAge)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&agentType, "type", "", "only agents of this category")
	return cmd
}

func newAgentsStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <agent-id>",
		Short: "One agent's registry row and open tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Agent       *types.WaitingAgentView `json:"agent"`
				Registered  bool                    `json:"registered"`
				ActiveTasks []types.Task            `json:"active_tasks"`
			}
			if err := callTool(opts, "get_agent_status", map[string]any{"agent_id": args[0]}, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			if !result.Registered {
				fmt.Printf("%s is not registered as waiting\n", args[0])
			} else {
				a := result.Agent
				fmt.Printf("%s (%s): %s, heartbeat %ds ago\n",
					a.AgentID, a.AgentType, a.Status, a.HeartbeatAge)
			}
			for _, t := range result.ActiveTasks {
				fmt.Printf("  task %s  %-9s %3d%%  %s\n", t.ID, t.Status, t.Progress, truncate(t.Title, 50))
			}
			return nil
		},
	}
}

func newAgentsSweepCmd(opts *cliOptions) *cobra.Command {
	var timeout float64
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the liveness sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				OfflineAgents []types.OfflineAgent     `json:"offline_agents"`
				Reassignable  []types.ReassignableTask `json:"reassignable_tasks"`
			}
			if err := callTool(opts, "check_offline_agents", map[string]any{"timeout_seconds": timeout}, &result); err != nil {
				return err
			}
			if opts.jsonOut {
				return nil
			}
			fmt.Printf("detached %d agent(s)\n", len(result.OfflineAgents))
			for _, a := range result.OfflineAgents {
				fmt.Printf("  %s (silent %ds)\n", a.AgentID, a.OfflineDuration)
			}
			if len(result.Reassignable) > 0 {
				fmt.Printf("%d task(s) awaiting reassignment:\n", len(result.Reassignable))
				for _, t := range result.Reassignable {
					fmt.Printf("  %s  %s (was %s)\n", t.TaskID, truncate(t.Title, 50), t.AssignedTo)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&timeout, "timeout", 120, "heartbeat staleness threshold in seconds")
	return cmd
}
