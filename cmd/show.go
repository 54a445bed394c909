package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var showCmd = &cobra.Command{
	Use:   "show <workspace>",
	Short: "Show a workspace's transcript",
	Long:  `Show the chat transcript of a workspace, identified by ID or name.`,
	Args:  cobra.ExactArgs(1),
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

		messages := history.History(ws.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", titleStyle.Render(ws.Name), idStyle.Render(ws.ID))

		if len(messages) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No messages yet.")
			return nil
		}

		for _, msg := range messages {
			label := assistantStyle.Render("assistant")
			if msg.FromUser {
				label = userStyle.Render("user")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n%s\n\n",
				label,
				timestampStyle.Render(msg.Timestamp.Format(time.RFC3339)),
				msg.Payload.String(),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
