// Package services implements the core application services.
// Services implement driving ports and depend only on driven ports,
// never on concrete adapters.
package services
