package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metpro/casechat/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <workspace>",
	Short: "Export a workspace's transcript",
	Long:  `Export a workspace's transcript in JSON, JSONL, Markdown, or YAML format.`,
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

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		transcript := &export.Transcript{
			WorkspaceID:   ws.ID,
			WorkspaceName: ws.Name,
			Messages:      history.History(ws.ID),
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			path := exportOutput
			if filepath.Ext(path) == "" {
				path = fmt.Sprintf("%s.%s", path, exporter.Extension())
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := exporter.Export(transcript, out); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, jsonl, md, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
