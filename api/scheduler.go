/*
scheduler.go - Periodic holiday calendar refresh

PURPOSE:
  Periodically reloads the holiday table into the calendar snapshot the
  attendance service resolves against. Holiday edits made through the API
  refresh the snapshot immediately; this loop picks up edits made by other
  processes (CLI imports, another server on the same database).

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Refreshes once immediately on start
  - Readers never block: the snapshot swaps an immutable set atomically
  - A failed refresh keeps the previous set

CONFIGURATION:
  - CheckInterval: How often to reload (default: 1 hour)
  - Enabled: Whether the refresher is active (default: true)

USAGE:
  refresher := NewHolidayRefresher(handler)
  refresher.Start()
  // ... later
  refresher.Stop()

SEE ALSO:
  - handlers.go: RefreshHolidays
  - calendar/holidays.go: Snapshot
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// HolidayRefresher keeps the handler's holiday snapshot in sync with the store.
type HolidayRefresher struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	lastMu sync.Mutex
	last   time.Time
}

// NewHolidayRefresher creates a refresher with a one hour interval.
func NewHolidayRefresher(h *Handler) *HolidayRefresher {
	return &HolidayRefresher{
		Handler:       h,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the refresh loop. Calling Start twice is a no-op.
func (hr *HolidayRefresher) Start() {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	if !hr.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}
	if hr.ticker != nil {
		return
	}

	hr.ticker = time.NewTicker(hr.CheckInterval)
	hr.stop = make(chan struct{})
	hr.wg.Add(1)

	go hr.run(hr.ticker, hr.stop)

	log.Printf("[Scheduler] Started with check interval: %v", hr.CheckInterval)
}

// Stop stops the loop and waits for an in-flight refresh.
func (hr *HolidayRefresher) Stop() {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	if hr.ticker != nil {
		hr.ticker.Stop()
		close(hr.stop)
		hr.wg.Wait()
		hr.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (hr *HolidayRefresher) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer hr.wg.Done()

	// Run immediately on start
	hr.RunNow()

	for {
		select {
		case <-ticker.C:
			hr.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow reloads the snapshot once.
func (hr *HolidayRefresher) RunNow() error {
	timeout := hr.Handler.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := hr.Handler.RefreshHolidays(ctx)
	if err != nil {
		log.Printf("[Scheduler] Holiday refresh failed, keeping previous calendar: %v", err)
		return err
	}

	hr.lastMu.Lock()
	hr.last = time.Now()
	hr.lastMu.Unlock()

	log.Printf("[Scheduler] Holiday calendar refreshed: %d entries", n)
	return nil
}

// LastRefresh returns when the snapshot was last reloaded successfully.
func (hr *HolidayRefresher) LastRefresh() time.Time {
	hr.lastMu.Lock()
	defer hr.lastMu.Unlock()
	return hr.last
}
