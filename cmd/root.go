package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/metpro/casechat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	configPath  string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "casechat",
	Short: "Manage workspaces and chat transcripts",
	Long: `A CLI for the casechat workspace/chat state engine.

Each workspace holds its own chat transcript and document folders. Transcripts
and workspace metadata persist in a local store; messages are exchanged with
the configured model backend.

Quick Start:
  casechat list                     # List workspaces
  casechat show <workspace>         # View a workspace's transcript
  casechat send <workspace> "hi"    # Send a message and print the reply
  casechat export <workspace> --format md`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom store location (path to the database file)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "casechat.yaml", "Path to the config file")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadEngineConfig loads the config file and applies flag overrides.
func loadEngineConfig() (internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if storagePath != "" {
		cfg.StoragePath = storagePath
	}
	return cfg, nil
}

// openEngine opens the store and constructs both managers. The caller must
// close the returned store.
func openEngine() (*internal.Store, *internal.WorkspaceManager, *internal.ChatHistoryManager, error) {
	cfg, err := loadEngineConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := internal.OpenStore(cfg.StoragePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	gateway := internal.NewHTTPGateway(cfg.BackendURL, cfg.RequestTimeout())
	workspaces := internal.NewWorkspaceManager(store)
	history := internal.NewChatHistoryManager(store, gateway)

	return store, workspaces, history, nil
}

// findWorkspace resolves a workspace by exact ID or by name.
func findWorkspace(m *internal.WorkspaceManager, idOrName string) (*internal.Workspace, error) {
	for _, ws := range m.Workspaces() {
		if ws.ID == idOrName {
			return &ws, nil
		}
	}
	for _, ws := range m.Workspaces() {
		if strings.EqualFold(ws.Name, idOrName) {
			return &ws, nil
		}
	}
	return nil, fmt.Errorf("no workspace matches %q", idOrName)
}
