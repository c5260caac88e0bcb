package service

// Notifier pushes realtime events to a user's open sessions.
type Notifier interface {
	Send(userID, eventType string, data interface{})
}

type noopNotifier struct{}

func (noopNotifier) Send(string, string, interface{}) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
