// Package core defines the shared language of the worldpop system.
//
// This package contains:
//   - Domain entities (Country, City, CountryLanguage, CapitalCity)
//   - Report values (PopulationBreakdown, LanguageStats)
//   - Service interfaces (Catalog, Aggregator)
//   - Configuration types (AdapterConfig, TargetConfig, DialectConfig)
//   - The error taxonomy shared by engines and transports
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
