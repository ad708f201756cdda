package dispatch

import (
	"log"
)

// Notifier pushes an asynchronous message to a user through the platform
// dispatcher. linkToken is an action token the dispatcher may render as a
// button (empty for plain notices).
type Notifier interface {
	Notify(userID int64, message, linkToken string) error
}

// LogNotifier is the default wiring: it only logs. The platform glue swaps
// in a real sender.
type LogNotifier struct{}

func (LogNotifier) Notify(userID int64, message, linkToken string) error {
	log.Printf("notify user=%d link=%q: %s", userID, linkToken, message)
	return nil
}

// notify delivers best-effort. Delivery failures (blocked bot, dead chat)
// are logged and swallowed, never surfaced to the triggering user.
func (d *Dispatcher) notify(userID int64, message, linkToken string) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(userID, message, linkToken); err != nil {
		log.Printf("notification to %d failed: %v", userID, err)
	}
}
