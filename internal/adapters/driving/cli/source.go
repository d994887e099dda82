package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage workspace sources",
}

var (
	sourceAddType   string
	sourceAddName   string
	sourceAddConfig []string
)

var sourceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new source",
	Long: `Registers a new workspace source.
Connector configuration is passed as repeated --config key=value flags,
e.g. --config content_types=pages,comments --config limit=25.`,
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <source-id>",
	Short: "Remove a source and its data",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

var sourceTokenCmd = &cobra.Command{
	Use:   "token <source-id> <api-token>",
	Short: "Store a static API token for a source",
	Args:  cobra.ExactArgs(2),
	RunE:  runSourceToken,
}

func init() {
	sourceAddCmd.Flags().StringVarP(&sourceAddType, "type", "t", "confluence", "connector type")
	sourceAddCmd.Flags().StringVarP(&sourceAddName, "name", "n", "", "source name")
	sourceAddCmd.Flags().StringArrayVarP(&sourceAddConfig, "config", "c", nil, "connector config as key=value")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceTokenCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, _ []string) error {
	if sourceManager == nil {
		return errors.New("source service not configured")
	}

	pairs := sourceAddConfig
	sourceAddConfig = nil

	config := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid config %q, expected key=value", pair)
		}
		config[key] = value
	}

	source, err := sourceManager.Add(context.Background(), sourceAddType, sourceAddName, config)
	if err != nil {
		return fmt.Errorf("add source: %w", err)
	}

	cmd.Printf("Added source %s (%s)\n", source.ID, source.Type)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceManager == nil {
		return errors.New("source service not configured")
	}

	sources, err := sourceManager.List(context.Background())
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	for _, source := range sources {
		cmd.Printf("%s  %-12s  %s\n", source.ID, source.Type, source.Name)
	}
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceManager == nil {
		return errors.New("source service not configured")
	}

	if err := sourceManager.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("remove source: %w", err)
	}

	cmd.Printf("Removed source %s\n", args[0])
	return nil
}

func runSourceToken(cmd *cobra.Command, args []string) error {
	if sourceManager == nil || credentialsStore == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()
	sourceID, token := args[0], args[1]

	source, err := sourceManager.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	creds := domain.Credentials{
		ID:        uuid.NewString(),
		SourceID:  source.ID,
		APIToken:  token,
		CreatedAt: time.Now(),
	}
	// Reuse the existing credentials slot when one is linked.
	if source.CredentialsID != "" {
		creds.ID = source.CredentialsID
	}
	if err := credentialsStore.Save(ctx, creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	cmd.Printf("Stored token for source %s\n", source.ID)
	return nil
}
