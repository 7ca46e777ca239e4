// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IngestionService: the upload, extract, record, embed and persist pipeline
//   - DocumentService: read access to recorded documents
//   - SettingsService: typed access to configuration
//   - BatchImporter: bounded concurrent import of local files
package services
