package config

import "errors"

// Validation errors returned by [AgentConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid agent adapter settings
	// (for example, a missing server URL).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid agent storage settings
	// (for example, an empty local data directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid polling settings
	// (for example, a non-positive poll interval or event log cap).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
