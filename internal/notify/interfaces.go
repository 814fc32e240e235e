// Package notify delivers fire-and-forget ticket notifications to external
// email and WhatsApp webhook endpoints. Delivery failures are logged and
// swallowed so that ticket mutations never block on a slow or dead gateway.
package notify

// Channel selects the outbound delivery mechanism for a notification.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Notification is one outbound message. Recipient is an email address for
// ChannelEmail and a phone number for ChannelWhatsApp.
type Notification struct {
	Channel   Channel `json:"channel"`
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
}

// Notifier accepts notifications for asynchronous delivery.
type Notifier interface {
	// Enqueue hands a notification to the delivery worker without blocking.
	// It reports false when the queue is full and the notification was
	// dropped.
	Enqueue(n Notification) bool
}
