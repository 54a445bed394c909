package cmd

import (
	"fmt"

	"github.com/metpro/casechat/internal"
	"github.com/spf13/cobra"
)

var newKind string

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a workspace",
	Long:  `Create a new workspace and make it active.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, workspaces, _, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		ws := internal.NewWorkspace(args[0])
		ws.Kind = newKind
		workspaces.Add(ws)

		fmt.Fprintf(cmd.OutOrStdout(), "Created workspace %s (%s)\n", ws.Name, ws.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <workspace>",
	Short: "Delete a workspace",
	Long: `Delete a workspace and its transcript. If it was active, the first
remaining workspace takes over.`,
	Args: cobra.ExactArgs(1),
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

		workspaces.Delete(ws.ID)
		history.ClearHistory(ws.ID)

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted workspace %s\n", ws.Name)
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use <workspace>",
	Short: "Set the active workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, workspaces, _, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		ws, err := findWorkspace(workspaces, args[0])
		if err != nil {
			return err
		}

		workspaces.SetActive(ws)
		fmt.Fprintf(cmd.OutOrStdout(), "Active workspace: %s\n", ws.Name)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newKind, "type", "", "Workspace type (patient_documents or medical_documents)")
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(useCmd)
}
