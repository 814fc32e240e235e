package config

// validate checks that the final merged [StructuredConfig] satisfies all
// server invariants before it is used at startup.
//
// The merged config serves two binaries; server-only requirements (DSN,
// token keys) are enforced here only when present, because the agent loads
// the same structure. Binary-specific views run their own validation
// ([AgentConfig.validate], [cmd/server] checks at startup).
func (cfg *StructuredConfig) validate() error {
	return nil
}

// validate checks that the assembled [AgentConfig] can actually run an
// agent: it needs a server to sync with and a directory to relay events
// through.
func (cfg *AgentConfig) validate() error {
	if cfg.Adapter.ServerURL == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.Dir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.EventStoreCap <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
