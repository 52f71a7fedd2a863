package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/focuscrawl/focuscrawl/internal/telemetry"
)

// ConsoleReporter renders snapshots to a terminal. A mutex keeps live,
// final, and trap writes from interleaving mid-render.
type ConsoleReporter struct {
	mu  sync.Mutex
	w   io.Writer
	log *zap.Logger
}

// NewConsoleReporter writes reports to w; a nil w means os.Stdout.
func NewConsoleReporter(w io.Writer, log *zap.Logger) *ConsoleReporter {
	if w == nil {
		w = os.Stdout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ConsoleReporter{w: w, log: log.Named("report")}
}

// Live implements telemetry.Reporter.
func (c *ConsoleReporter) Live(snap telemetry.Snapshot) {
	c.write(RenderLive(snap))
}

// Final implements telemetry.Reporter.
func (c *ConsoleReporter) Final(snap telemetry.Snapshot) {
	c.write(RenderFinal(snap))
}

// TrapDetected implements telemetry.Reporter. Trap notices print at once,
// outside the live report cadence.
func (c *ConsoleReporter) TrapDetected(url, category string) {
	c.write(fmt.Sprintf("\nTRAP DETECTED: %s - %s\n", category, url))
}

func (c *ConsoleReporter) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.w, s); err != nil {
		c.log.Warn("console write failed", zap.Error(err))
	}
}
