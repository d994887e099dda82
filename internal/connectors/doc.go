// Package connectors provides implementations of the Connector interface
// for workspace sources. Each connector knows how to traverse one source
// type and stream its content as typed records.
//
// Connectors are registered with the ConnectorFactory at startup.
package connectors
