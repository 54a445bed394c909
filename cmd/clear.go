package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [workspace]",
	Short: "Clear chat history",
	Long:  `Clear the transcript of one workspace, or every transcript with --all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearAll && len(args) != 1 {
			return fmt.Errorf("specify a workspace or pass --all")
		}

		store, workspaces, history, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		if clearAll {
			history.ClearAll()
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all chat history")
			return nil
		}

		ws, err := findWorkspace(workspaces, args[0])
		if err != nil {
			return err
		}
		history.ClearHistory(ws.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared chat history for %s\n", ws.Name)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Clear every workspace's transcript")
	rootCmd.AddCommand(clearCmd)
}
