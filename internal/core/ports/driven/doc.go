// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Connector: Streams records from a workspace source
//   - ConnectorFactory: Creates connectors from configuration
//   - TokenProvider: Supplies bearer tokens and the refresh-on-401 path
//   - ContentExtractor: Turns a materialized content stream into a record
//   - RecordStore: Record persistence
//   - SourceStore: Source configuration persistence
//   - SyncStateStore: Sync progress persistence
//   - CredentialsStore: Token/credentials persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
