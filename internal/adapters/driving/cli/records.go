package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records <source-id>",
	Short: "List extracted records for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	if recordStore == nil {
		return errors.New("record store not configured")
	}

	records, err := recordStore.ListBySource(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No records stored for this source.")
		return nil
	}

	for _, record := range records {
		// Indent by lineage depth to show the hierarchy.
		indent := strings.Repeat("  ", len(record.Lineage))
		title := record.Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("%s%-9s %s  %s\n", indent, record.Kind, record.ID, title)
	}
	return nil
}
