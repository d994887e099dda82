package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/wikisync-cli/internal/adapters/driven/auth"
	fileconfig "github.com/custodia-labs/wikisync-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/wikisync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/wikisync-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/wikisync-cli/internal/connectors/confluence"
	"github.com/custodia-labs/wikisync-cli/internal/core/domain"
	"github.com/custodia-labs/wikisync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikisync-cli/internal/core/services"
	htmlextract "github.com/custodia-labs/wikisync-cli/internal/extractors/html"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := fileconfig.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	sourceStore := store.SourceStore()
	syncStateStore := store.SyncStateStore()
	recordStore := store.RecordStore()
	credentialsStore := store.CredentialsStore()

	var oauthConfig *oauth2.Config
	if clientID := configStore.GetString("oauth.client_id"); clientID != "" {
		oauthConfig = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: configStore.GetString("oauth.client_secret"),
			Endpoint:     auth.AtlassianEndpoint,
		}
	}

	factory := services.NewConnectorFactory(auth.NewFactory(credentialsStore, oauthConfig))

	extractor := htmlextract.New()
	factory.Register(confluence.ConnectorType, func(ctx context.Context, source domain.Source, tokenProvider driven.TokenProvider) (driven.Connector, error) {
		return confluence.NewFromSource(ctx, source, tokenProvider, extractor)
	})

	cli.Configure(cli.Services{
		SyncOrchestrator: services.NewSyncOrchestrator(sourceStore, syncStateStore, recordStore, factory),
		SourceManager:    services.NewSourceManager(sourceStore, syncStateStore, recordStore, credentialsStore, factory),
		RecordStore:      recordStore,
		CredentialsStore: credentialsStore,
	})

	return cli.Execute(version)
}
