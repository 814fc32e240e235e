package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixit_sync_ticks_total",
		Help: "Total number of automatic synchronization cycles started.",
	})

	SyncSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixit_sync_skipped_total",
		Help: "Total number of sync ticks skipped because a cycle was still running.",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fixit_sync_events_published_total",
		Help: "Total number of sync events written to the shared event store, labelled by type.",
	}, []string{"type"})

	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fixit_sync_events_dispatched_total",
		Help: "Total number of sync events delivered to subscribers, labelled by origin.",
	}, []string{"origin"})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixit_sync_events_dropped_total",
		Help: "Total number of sync events evicted by the event store cap.",
	})

	ReconcileReplacements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fixit_reconcile_replacements_total",
		Help: "Total number of local collection snapshots replaced after a remote diff, labelled by collection.",
	}, []string{"collection"})

	TombstoneSuppressions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixit_tombstone_suppressions_total",
		Help: "Total number of deleted users filtered out of reconciled snapshots.",
	})

	NotificationsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fixit_notifications_posted_total",
		Help: "Total number of notification webhook posts, labelled by channel and status.",
	}, []string{"channel", "status"})

	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixit_notifications_dropped_total",
		Help: "Total number of notifications rejected due to a full queue.",
	})
)
