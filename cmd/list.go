package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Long:  `List all workspaces with their message counts and timestamps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, workspaces, history, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		active := workspaces.Active()

		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Workspaces"))
		fmt.Fprintln(cmd.OutOrStdout())

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, ws := range workspaces.Workspaces() {
			marker := " "
			if active != nil && active.ID == ws.ID {
				marker = activeStyle.Render("*")
			}
			created := ""
			if !ws.CreatedAt.IsZero() {
				created = ws.CreatedAt.Format(time.DateOnly)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				marker,
				titleStyle.Render(ws.Name),
				idStyle.Render(ws.ID),
				countStyle.Render(fmt.Sprintf("%d msgs", len(history.History(ws.ID)))),
				dateStyle.Render(created),
			)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("failed to render list: %w", err)
		}

		if err := store.LastWriteErr(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: last persistence write failed: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
