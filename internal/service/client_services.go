package service

import (
	"github.com/fixit-helpdesk/fixit/internal/adapter"
	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/store"
)

// ClientServices groups the agent-side service layer.
type ClientServices struct {
	// EventRelay publishes and delivers cross-session sync events.
	EventRelay EventRelay

	// TombstoneService tracks locally deleted users.
	TombstoneService TombstoneService

	// DeskService performs server mutations and announces them as sync
	// events.
	DeskService DeskService

	// SessionService owns login, restore, and logout.
	SessionService SessionService

	// Reconciler swaps the local replica when server state changes.
	Reconciler Reconciler

	// SyncJob drives periodic reconciliation.
	SyncJob SyncJob
}

// NewClientServices wires the agent service layer over the client
// storages and the server adapter.
func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.StructuredConfig, logger *logger.Logger) *ClientServices {
	relay := NewEventRelay(storages, logger)
	tombstones := NewTombstoneService(storages.TombstoneStore, cfg.Sync, logger)
	sessions := NewSessionService(serverAdapter, storages, logger)
	reconcile := NewReconciler(serverAdapter, storages.Replica, tombstones, sessions, logger)

	return &ClientServices{
		EventRelay:       relay,
		TombstoneService: tombstones,
		DeskService:      NewDeskService(serverAdapter, relay, tombstones, logger),
		SessionService:   sessions,
		Reconciler:       reconcile,
		SyncJob:          NewSyncJob(relay, logger),
	}
}
