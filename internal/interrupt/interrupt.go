// Package interrupt keeps the shell alive across SIGINT and counts every
// delivery. The count is reported once, in the shutdown message.
package interrupt

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/guish-sh/guish/internal/styles"
	"go.uber.org/zap"
)

// Tracker owns the process-wide SIGINT counter. The only mutation that
// happens on the asynchronous delivery path is the atomic increment; the
// user-visible notice is best-effort output that touches no shared state.
type Tracker struct {
	count  atomic.Int64
	sigs   chan os.Signal
	notice io.Writer
	logger *zap.Logger
}

func NewTracker(notice io.Writer, logger *zap.Logger) *Tracker {
	return &Tracker{
		sigs:   make(chan os.Signal, 1),
		notice: notice,
		logger: logger,
	}
}

// Start subscribes to SIGINT and drains deliveries on a goroutine so the
// shell itself never dies on Ctrl+C.
func (t *Tracker) Start() {
	signal.Notify(t.sigs, os.Interrupt)

	go func() {
		for range t.sigs {
			n := t.count.Add(1)
			t.logger.Debug("caught SIGINT", zap.Int64("count", n))
			fmt.Fprintln(t.notice, styles.NOTICE("\nCaught SIGINT. Type 'exit' to leave the shell."))
		}
	}()
}

// Stop unsubscribes from SIGINT. Pending deliveries already counted stay
// counted.
func (t *Tracker) Stop() {
	signal.Stop(t.sigs)
}

// Count returns how many SIGINTs have been delivered so far.
func (t *Tracker) Count() int64 {
	return t.count.Load()
}

// ShutdownMessage renders the one-time exit report including the SIGINT
// count, even when it is zero.
func (t *Tracker) ShutdownMessage() string {
	return fmt.Sprintf("[Shell exiting... SIGINT (Ctrl+C) was caught %d times]", t.Count())
}
