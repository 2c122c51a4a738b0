// Package notify is the outcome-notification sink: every user-facing
// operation reports at most one success or failure event through it. The
// delivery mechanism (toasts, terminal output) is up to the implementation.
package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Notifier interface {
	Success(message string)
	Error(message string)
}

type logNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier reports outcomes through the application logger.
func NewLogNotifier(logger *logrus.Logger) Notifier {
	return &logNotifier{log: logger}
}

func (n *logNotifier) Success(message string) {
	n.log.Infof("Notification (success): %s", message)
}

func (n *logNotifier) Error(message string) {
	n.log.Warnf("Notification (error): %s", message)
}

// Recorder collects notifications for inspection in tests.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, message)
}

func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}
