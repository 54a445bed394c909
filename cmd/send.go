package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <workspace> <message>...",
	Short: "Send a message to a workspace",
	Long: `Send a message through the model backend and append both the message and
the reply to the workspace's transcript.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, workspaces, history, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		ws, err := findWorkspace(workspaces, args[0])
		if err != nil {
			return err
		}

		text := strings.Join(args[1:], " ")
		before := len(history.History(ws.ID))

		history.SendMessage(context.Background(), ws.ID, text)

		messages := history.History(ws.ID)
		if len(messages) == before {
			return fmt.Errorf("nothing to send: message was empty")
		}

		last := messages[len(messages)-1]
		if last.FromUser {
			// Gateway reply never arrived; transcript still settled
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), last.Payload.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
