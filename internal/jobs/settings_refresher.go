package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reloader re-reads the live settings
type Reloader interface {
	Reload(ctx context.Context) error
}

// SettingsRefresher periodically reloads the affiliate settings so changes
// made by other instances are picked up
type SettingsRefresher struct {
	provider Reloader
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewSettingsRefresher creates a new settings refresher job
func NewSettingsRefresher(provider Reloader, interval time.Duration, log *zap.Logger) *SettingsRefresher {
	return &SettingsRefresher{
		provider: provider,
		interval: interval,
		timeout:  10 * time.Second,
		log:      log,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the refresh loop. It blocks until Stop is called.
func (sr *SettingsRefresher) Start() {
	defer close(sr.done)
	sr.log.Info("starting settings refresher", zap.Duration("interval", sr.interval))

	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sr.refresh()
		case <-sr.stopChan:
			sr.log.Info("stopping settings refresher")
			return
		}
	}
}

// Stop stops the refresh loop and waits for it to exit
func (sr *SettingsRefresher) Stop() {
	close(sr.stopChan)
	<-sr.done
}

func (sr *SettingsRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), sr.timeout)
	defer cancel()

	// The provider logs and counts failures and keeps the previous settings
	_ = sr.provider.Reload(ctx)
}
