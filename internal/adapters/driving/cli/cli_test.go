package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisync-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/wikisync-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/core/services"
)

// execute runs the root command with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// wireTestServices wires the commands against in-memory stores and a
// registered fake connector type.
func wireTestServices(t *testing.T) (*memory.SourceStore, *memory.RecordStore) {
	t.Helper()

	sources := memory.NewSourceStore()
	syncStates := memory.NewSyncStateStore()
	records := memory.NewRecordStore()
	credentials := memory.NewCredentialsStore()

	factory := services.NewConnectorFactory(auth.NewFactory(credentials, nil))
	factory.Register("confluence", func(_ context.Context, source domain.Source, _ driven.TokenProvider) (driven.Connector, error) {
		return nil, domain.ErrNotImplemented
	})

	Configure(Services{
		SyncOrchestrator: services.NewSyncOrchestrator(sources, syncStates, records, factory),
		SourceManager:    services.NewSourceManager(sources, syncStates, records, credentials, factory),
		RecordStore:      records,
		CredentialsStore: credentials,
	})
	return sources, records
}

func TestVersionCommand(t *testing.T) {
	wireTestServices(t)
	version = "1.2.3"

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "wikisync version 1.2.3")
}

func TestSourceCommands(t *testing.T) {
	t.Run("add, list, remove round trip", func(t *testing.T) {
		sources, _ := wireTestServices(t)

		out, err := execute(t, "source", "add", "--type", "confluence", "--name", "Team Wiki",
			"--config", "content_types=pages,comments")
		require.NoError(t, err)
		assert.Contains(t, out, "Added source")

		all, err := sources.List(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "pages,comments", all[0].Config["content_types"])

		out, err = execute(t, "source", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Team Wiki")

		_, err = execute(t, "source", "remove", all[0].ID)
		require.NoError(t, err)

		out, err = execute(t, "source", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "No sources configured.")
	})

	t.Run("add rejects malformed config", func(t *testing.T) {
		wireTestServices(t)

		_, err := execute(t, "source", "add", "--type", "confluence", "--name", "X",
			"--config", "no-equals-sign")
		assert.Error(t, err)
	})

	t.Run("add rejects unknown type", func(t *testing.T) {
		wireTestServices(t)

		_, err := execute(t, "source", "add", "--type", "sharepoint", "--name", "X")
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})
}

func TestRecordsCommand(t *testing.T) {
	t.Run("prints hierarchy with indentation", func(t *testing.T) {
		_, records := wireTestServices(t)
		ctx := context.Background()

		require.NoError(t, records.Save(ctx, &domain.Record{
			ID: "S1", Kind: domain.KindSpace, SourceID: "src-1", Title: "Engineering",
		}))
		require.NoError(t, records.Save(ctx, &domain.Record{
			ID: "P1", Kind: domain.KindPage, SourceID: "src-1", Title: "Design",
			Lineage: []domain.Breadcrumb{{ID: "S1", Name: "Engineering", Kind: domain.KindSpace}},
		}))

		out, err := execute(t, "records", "src-1")

		require.NoError(t, err)
		assert.Contains(t, out, "Engineering")
		assert.Contains(t, out, "  page")
	})

	t.Run("empty source prints notice", func(t *testing.T) {
		wireTestServices(t)

		out, err := execute(t, "records", "src-1")

		require.NoError(t, err)
		assert.Contains(t, out, "No records stored")
	})
}
