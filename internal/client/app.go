package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/adapter"
	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/service"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/internal/workers"
	"github.com/fixit-helpdesk/fixit/models"
)

const (
	agentSyncInterval         = 10 * time.Second
	connectivityProbeInterval = 15 * time.Second
)

// App is the desk-agent runtime.
type App struct {
	services      *service.ClientServices
	serverAdapter adapter.ServerAdapter
	storages      *store.ClientStorages
	cfg           *config.StructuredConfig
	logger        *logger.Logger

	workers     *workers.Workers
	maintenance *workers.Maintenance
}

// NewApp wires the agent runtime from its already-constructed layers.
func NewApp(services *service.ClientServices, serverAdapter adapter.ServerAdapter, storages *store.ClientStorages, cfg *config.StructuredConfig, logger *logger.Logger) *App {
	maintenance := workers.NewMaintenance(storages.EventStore, storages.TombstoneStore, cfg.Sync, logger)

	return &App{
		services:      services,
		serverAdapter: serverAdapter,
		storages:      storages,
		cfg:           cfg,
		logger:        logger,
		workers:       workers.NewWorkers(services.TombstoneService, maintenance),
		maintenance:   maintenance,
	}
}

// Desk exposes the agent's mutation surface. Callers embedding the agent
// (or driving it through an administrative command) create and update
// tickets and delete accounts through it; every accepted mutation is
// announced as a sync event, which the running app picks up through its
// own relay subscription and turns into a reconciliation pass.
func (a *App) Desk() service.DeskService {
	return a.services.DeskService
}

// Run starts the agent and blocks until a termination signal arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := a.establishSession(ctx); err != nil {
		return err
	}

	if err := a.services.EventRelay.Watch(ctx); err != nil {
		return fmt.Errorf("start event watch: %w", err)
	}
	defer func() { _ = a.services.EventRelay.Close() }()

	unsubscribe := a.services.EventRelay.OnSyncEvent(func(event models.SyncEvent) {
		a.handleSyncEvent(ctx, event)
	})
	defer unsubscribe()

	a.workers.Run()
	defer a.services.TombstoneService.Close()
	defer a.maintenance.Close()

	interval := a.cfg.Sync.Interval
	if interval <= 0 {
		interval = agentSyncInterval
	}
	a.services.SyncJob.StartAutoSync(a.syncCycle, interval)
	defer a.services.SyncJob.StopAutoSync()

	// The first probe flips the job online (publishing one FORCE_SYNC)
	// when the server is reachable; later probes keep the flag honest.
	a.probeConnectivity(ctx)
	go a.connectivityLoop(ctx)

	a.logger.Info().
		Str("device_id", a.services.EventRelay.DeviceID()).
		Dur("interval", interval).
		Msg("agent running")

	<-ctx.Done()
	a.logger.Info().Msg("agent shutting down")

	return nil
}

// establishSession restores the persisted session or falls back to the
// configured credentials.
func (a *App) establishSession(ctx context.Context) error {
	session, err := a.services.SessionService.Restore(ctx)
	if err == nil {
		a.logger.Info().Str("user_id", session.User.ID).Msg("session restored")
		return nil
	}
	if !errors.Is(err, store.ErrLocalSessionNotFound) && !errors.Is(err, service.ErrSessionInvalidated) {
		return fmt.Errorf("restore session: %w", err)
	}

	if a.cfg.Agent.Email == "" || a.cfg.Agent.Password == "" {
		return fmt.Errorf("no persisted session and no agent credentials configured: %w", err)
	}

	session, err = a.services.SessionService.Login(ctx, a.cfg.Agent.Email, a.cfg.Agent.Password)
	if err != nil {
		return fmt.Errorf("agent login: %w", err)
	}
	a.logger.Info().Str("user_id", session.User.ID).Msg("logged in")

	return nil
}

func (a *App) syncCycle(ctx context.Context) error {
	a.services.Reconciler.Reconcile(ctx)
	return nil
}

// handleSyncEvent reacts to events from both delivery paths: a deletion
// of the authenticated account forces a logout, and every event triggers
// a reconciliation pass on top of the regular polling cadence.
func (a *App) handleSyncEvent(ctx context.Context, event models.SyncEvent) {
	if event.Type == models.EventUserDeleted && a.sessionUserDeleted(event) {
		a.logger.Info().Msg("authenticated account was deleted, logging out")
		if err := a.services.SessionService.Logout(); err != nil {
			a.logger.Error().Err(err).Msg("failed to log out")
		}
		return
	}

	go a.services.Reconciler.Reconcile(ctx)
}

func (a *App) sessionUserDeleted(event models.SyncEvent) bool {
	session, ok := a.services.SessionService.Current()
	if !ok {
		return false
	}

	var deleted models.User
	if err := json.Unmarshal(event.Data, &deleted); err != nil {
		a.logger.Error().Err(err).Msg("failed to decode user deletion event")
		return false
	}

	return deleted.ID == session.User.ID
}

func (a *App) probeConnectivity(ctx context.Context) {
	online := a.serverAdapter.Health(ctx) == nil
	if online != a.services.SyncJob.Online() {
		a.logger.Info().Bool("online", online).Msg("connectivity changed")
	}
	a.services.SyncJob.SetOnline(online)
}

func (a *App) connectivityLoop(ctx context.Context) {
	ticker := time.NewTicker(connectivityProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.probeConnectivity(ctx)
		}
	}
}
