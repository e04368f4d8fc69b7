package notify

import "go.uber.org/zap"

// Notifier carries advisory, human-facing progress and trade messages.
// Delivery is best-effort; a Notifier must never block its caller or alter
// the result of the operation it reports on.
type Notifier interface {
	Notify(text string)
}

// Nop discards every message. Use it when no chat surface is wired in.
type Nop struct{}

func (Nop) Notify(string) {}

// Log forwards messages to the application log, for headless runs that
// still want the progress trail.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(text string) {
	l.Logger.Info(text)
}
