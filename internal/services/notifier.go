package services

import (
	"github.com/justsurfingit/job-portal/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Notifier surfaces user-visible outcomes of portal operations.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithField("component", "notify")}
}

func (n *LogNotifier) Success(msg string) {
	metrics.ObserveNotification("success")
	n.log.Info("✅ " + msg)
}

func (n *LogNotifier) Error(msg string) {
	metrics.ObserveNotification("error")
	n.log.Warn("❌ " + msg)
}
