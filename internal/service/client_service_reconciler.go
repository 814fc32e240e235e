package service

import (
	"context"
	"sync"

	"github.com/fixit-helpdesk/fixit/internal/adapter"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/metrics"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/models"
)

type reconciler struct {
	adapter    adapter.ServerAdapter
	replica    store.Replica
	tombstones TombstoneService
	sessions   SessionService
	logger     *logger.Logger

	mu                 sync.Mutex
	usersFingerprint   string
	ticketsFingerprint string
}

// NewReconciler builds the controller that keeps the local replica in
// step with the server's collections.
func NewReconciler(serverAdapter adapter.ServerAdapter, replica store.Replica, tombstones TombstoneService, sessions SessionService, logger *logger.Logger) Reconciler {
	return &reconciler{
		adapter:    serverAdapter,
		replica:    replica,
		tombstones: tombstones,
		sessions:   sessions,
		logger:     logger,
	}
}

// Reconcile fetches both collections and swaps the replica where the
// fetched state differs from what was last applied. Fetch or storage
// failures leave the previous replica in place.
func (r *reconciler) Reconcile(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reconcileUsers(ctx)
	r.reconcileTickets(ctx)
}

func (r *reconciler) reconcileUsers(ctx context.Context) {
	users, err := r.adapter.GetAllUsers(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch users, keeping previous replica")
		return
	}

	r.checkSessionContinuity(users)

	// Drop entries this client just deleted: a poll racing the delete
	// must not resurrect them. Replacement is then decided on the
	// filtered set.
	filtered := users[:0]
	for _, user := range users {
		if r.tombstones.IsDeleted(user.ID) {
			metrics.TombstoneSuppressions.Inc()
			continue
		}
		filtered = append(filtered, user)
	}

	fingerprint, err := utils.Fingerprint(filtered)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fingerprint fetched users")
		return
	}
	if fingerprint == r.usersFingerprint {
		return
	}

	if err = r.replica.ReplaceUsers(ctx, filtered); err != nil {
		r.logger.Error().Err(err).Msg("failed to replace user replica")
		return
	}

	r.usersFingerprint = fingerprint
	metrics.ReconcileReplacements.WithLabelValues("users").Inc()
	r.logger.Debug().Int("count", len(filtered)).Msg("user replica replaced")
}

func (r *reconciler) reconcileTickets(ctx context.Context) {
	tickets, err := r.adapter.GetAllTickets(ctx, models.TicketFilter{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch tickets, keeping previous replica")
		return
	}

	fingerprint, err := utils.Fingerprint(tickets)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fingerprint fetched tickets")
		return
	}
	if fingerprint == r.ticketsFingerprint {
		return
	}

	if err = r.replica.ReplaceTickets(ctx, tickets); err != nil {
		r.logger.Error().Err(err).Msg("failed to replace ticket replica")
		return
	}

	r.ticketsFingerprint = fingerprint
	metrics.ReconcileReplacements.WithLabelValues("tickets").Inc()
	r.logger.Debug().Int("count", len(tickets)).Msg("ticket replica replaced")
}

// checkSessionContinuity warns when the authenticated account is missing
// from a fetch. The warning is all that happens here: logout is driven by
// an explicit USER_DELETED event or the tombstone check at restore, not
// by a possibly transient fetch gap.
func (r *reconciler) checkSessionContinuity(users []models.User) {
	session, ok := r.sessions.Current()
	if !ok {
		return
	}

	for _, user := range users {
		if user.ID == session.User.ID && user.Email == session.User.Email {
			return
		}
	}

	r.logger.Warn().
		Str("user_id", session.User.ID).
		Msg("authenticated user missing from fetched collection")
}
