package notify

// NopNotifier discards every notification. Used in tests and when no
// webhook endpoints are configured.
type NopNotifier struct{}

func NewNopNotifier() *NopNotifier {
	return &NopNotifier{}
}

// Enqueue implements [Notifier].
func (n *NopNotifier) Enqueue(Notification) bool {
	return true
}
