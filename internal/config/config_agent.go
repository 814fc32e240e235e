package config

import (
	"fmt"
	"time"
)

// AgentAdapter holds network settings used by the agent transport layer.
type AgentAdapter struct {
	// ServerURL is the FixIT server base URL the agent syncs with.
	ServerURL string
	// RequestTimeout is the default timeout for outbound agent requests.
	RequestTimeout time.Duration
}

// AgentStorage groups the agent's local storage settings.
type AgentStorage struct {
	// Dir is the shared local data directory (event log, tombstones,
	// session).
	Dir string
	// ReplicaDSN is the SQLite DSN of the local users/tickets replica.
	ReplicaDSN string
}

// AgentSync carries the polling and event-relay settings for the agent
// runtime.
type AgentSync struct {
	// Interval is the poll interval for the auto-sync loop.
	Interval time.Duration
	// EventStoreCap bounds the persisted event log.
	EventStoreCap int
	// EventMaxAge is the prune threshold for stored events.
	EventMaxAge time.Duration
	// TombstoneClearInterval is the bulk-clear period of the in-memory
	// tombstone set.
	TombstoneClearInterval time.Duration
	// TombstonePerEntryTTL selects per-entry expiry instead of the bulk
	// clear.
	TombstonePerEntryTTL bool
}

// AgentConfig is the top-level desk-agent configuration assembled from
// [StructuredConfig].
type AgentConfig struct {
	// Adapter contains agent transport addresses and timeouts.
	Adapter AgentAdapter
	// Storage contains agent storage settings.
	Storage AgentStorage
	// Sync contains polling and event-relay settings.
	Sync AgentSync
}

// GetAgentConfig builds and validates an agent-specific config view from
// the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the agent runtime, applies agent defaults for unset sync
// values, and validates the resulting [AgentConfig].
func GetAgentConfig() (*AgentConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewAgentConfig(cfg)
}

// NewAgentConfig maps an already-loaded [StructuredConfig] into the agent
// view, applies agent defaults for unset values and validates the result.
func NewAgentConfig(cfg *StructuredConfig) (*AgentConfig, error) {
	agentCfg := &AgentConfig{
		Adapter: AgentAdapter{
			ServerURL:      cfg.Agent.ServerURL,
			RequestTimeout: cfg.Agent.RequestTimeout,
		},
		Storage: AgentStorage{
			Dir:        cfg.Storage.Local.Dir,
			ReplicaDSN: cfg.Storage.Local.ReplicaDSN,
		},
		Sync: AgentSync{
			Interval:               cfg.Sync.Interval,
			EventStoreCap:          cfg.Sync.EventStoreCap,
			EventMaxAge:            cfg.Sync.EventMaxAge,
			TombstoneClearInterval: cfg.Sync.TombstoneClearInterval,
			TombstonePerEntryTTL:   cfg.Sync.TombstonePerEntryTTL,
		},
	}
	agentCfg.applyDefaults()

	if err := agentCfg.validate(); err != nil {
		return nil, err
	}

	return agentCfg, nil
}

// applyDefaults fills in the agent's operational defaults: a 10-second poll
// interval, the 50-entry event log cap, 24-hour event retention, and the
// hourly tombstone clear.
func (cfg *AgentConfig) applyDefaults() {
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 10 * time.Second
	}
	if cfg.Sync.EventStoreCap == 0 {
		cfg.Sync.EventStoreCap = 50
	}
	if cfg.Sync.EventMaxAge == 0 {
		cfg.Sync.EventMaxAge = 24 * time.Hour
	}
	if cfg.Sync.TombstoneClearInterval == 0 {
		cfg.Sync.TombstoneClearInterval = time.Hour
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = 15 * time.Second
	}
	if cfg.Storage.ReplicaDSN == "" {
		cfg.Storage.ReplicaDSN = ":memory:"
	}
}
