package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentboard/agentboard/internal/core"
	"github.com/agentboard/agentboard/internal/rpcclient"
)

type cliOptions struct {
	server   string
	clientID string
	jsonOut  bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "agentboard",
		Short:         "Message and task board for local agents",
		Long:          "agentboard drives an agentboard-mcp broker process over stdio. All state lives in the board database under MESSAGE_BOARD_DIR.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", "agentboard-mcp", "path to the broker binary")
	root.PersistentFlags().StringVar(&opts.clientID, "client", core.DefaultClientID(), "agent identity")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print raw JSON results")

	root.AddCommand(
		newSendCmd(opts),
		newReadCmd(opts),
		newWaitCmd(opts),
		newTasksCmd(opts),
		newAgentsCmd(opts),
		newStatusCmd(opts),
	)
	return root
}

// withClient spawns the broker, runs fn, and shuts the broker down.
func withClient(opts *cliOptions, fn func(c *rpcclient.Client) error) error {
	c, err := rpcclient.Spawn(opts.server)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// callTool invokes one tool and decodes its result into dst. With --json the
// raw result is printed instead and dst may be nil.
func callTool(opts *cliOptions, name string, args any, dst any) error {
	return withClient(opts, func(c *rpcclient.Client) error {
		raw, err := c.CallTool(name, args)
		if err != nil {
			return err
		}
		if opts.jsonOut || dst == nil {
			return printJSON(raw)
		}
		return json.Unmarshal(raw, dst)
	})
}

func printJSON(raw json.RawMessage) error {
	var buf any
	if err := json.Unmarshal(raw, &buf); err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(buf)
}

func formatTimestamp(ts int64) string {
	if ts == 0 {
		return "-"
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}
