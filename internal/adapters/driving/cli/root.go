// Package cli implements the command-line interface.
// Commands are thin adapters over the driving ports; all behaviour
// lives in the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

var (
	version = "dev"

	syncOrchestrator driving.SyncOrchestrator
	sourceManager    driving.SourceManager
	recordStore      driven.RecordStore
	credentialsStore driven.CredentialsStore

	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "wikisync",
	Short: "Extract and sync workspace content",
	Long: `wikisync extracts spaces, pages, comments and blog posts from
workspace sources and stores them locally for indexing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services carries the wired core services the commands depend on.
type Services struct {
	SyncOrchestrator driving.SyncOrchestrator
	SourceManager    driving.SourceManager
	RecordStore      driven.RecordStore
	CredentialsStore driven.CredentialsStore
}

// Configure injects the services. Must be called before Execute.
func Configure(services Services) {
	syncOrchestrator = services.SyncOrchestrator
	sourceManager = services.SourceManager
	recordStore = services.RecordStore
	credentialsStore = services.CredentialsStore
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}
