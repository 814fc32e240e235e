package notify

import (
	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/metrics"
	"github.com/fixit-helpdesk/fixit/internal/utils"
)

const defaultQueueSize = 64

// WebhookNotifier posts notifications to the configured email and WhatsApp
// webhook endpoints from a single background goroutine. Enqueue never
// blocks; when the queue is full the notification is dropped and counted.
type WebhookNotifier struct {
	client *utils.HTTPClient

	emailEndpoint    string
	whatsAppEndpoint string

	queue chan Notification
	done  chan struct{}

	logger *logger.Logger
}

// NewWebhookNotifier constructs a notifier from cfg. Endpoints left empty
// disable their channel: notifications for a disabled channel are dropped
// silently at delivery time.
func NewWebhookNotifier(cfg config.Notify, log *logger.Logger) *WebhookNotifier {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	client := utils.NewHTTPClient()
	client.SetTimeout(cfg.RequestTimeout)

	return &WebhookNotifier{
		client:           client,
		emailEndpoint:    cfg.EmailEndpoint,
		whatsAppEndpoint: cfg.WhatsAppEndpoint,
		queue:            make(chan Notification, queueSize),
		done:             make(chan struct{}),
		logger:           log,
	}
}

// Enqueue implements [Notifier].
func (n *WebhookNotifier) Enqueue(notification Notification) bool {
	select {
	case n.queue <- notification:
		return true
	default:
		metrics.NotificationsDropped.Inc()
		n.logger.Warn().
			Str("channel", string(notification.Channel)).
			Str("recipient", notification.Recipient).
			Msg("notification queue is full, dropping notification")
		return false
	}
}

// Run implements [workers.Worker]. It starts the delivery goroutine, which
// drains the queue until Close is called.
func (n *WebhookNotifier) Run() {
	go n.deliverLoop()
}

// Close stops the delivery goroutine. Notifications still queued are
// abandoned.
func (n *WebhookNotifier) Close() {
	close(n.done)
}

func (n *WebhookNotifier) deliverLoop() {
	for {
		select {
		case <-n.done:
			return
		case notification := <-n.queue:
			n.deliver(notification)
		}
	}
}

// deliver posts one notification. Failures are logged and swallowed so a
// dead gateway never backs up into the service layer.
func (n *WebhookNotifier) deliver(notification Notification) {
	endpoint := n.endpointForChannel(notification.Channel)
	if endpoint == "" {
		return
	}

	response, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(notification).
		Post(endpoint)
	if err != nil {
		metrics.NotificationsPosted.WithLabelValues(string(notification.Channel), "error").Inc()
		n.logger.Err(err).
			Str("channel", string(notification.Channel)).
			Str("recipient", notification.Recipient).
			Msg("notification post failed")
		return
	}

	if response.IsError() {
		metrics.NotificationsPosted.WithLabelValues(string(notification.Channel), "error").Inc()
		n.logger.Error().
			Str("channel", string(notification.Channel)).
			Str("recipient", notification.Recipient).
			Int("status", response.StatusCode()).
			Msg("notification endpoint returned an error status")
		return
	}

	metrics.NotificationsPosted.WithLabelValues(string(notification.Channel), "ok").Inc()
}

func (n *WebhookNotifier) endpointForChannel(channel Channel) string {
	switch channel {
	case ChannelEmail:
		return n.emailEndpoint
	case ChannelWhatsApp:
		return n.whatsAppEndpoint
	default:
		return ""
	}
}
