package simulation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"station-dashboard/internal/logging"
	"station-dashboard/internal/models"
)

// DefaultInterval is the wall-clock period between ticks.
const DefaultInterval = 2 * time.Second

// Observer is called with every published snapshot on the loop goroutine.
// It must not block.
type Observer func(*models.Snapshot)

// Loop owns the station state. It is the only writer and publishes a new
// immutable snapshot on each tick; readers call Snapshot at any time.
type Loop struct {
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time

	mu        sync.Mutex // guards src and observers, serializes Step
	src       Source
	observers []Observer

	current atomic.Pointer[models.Snapshot]

	ctx    context.Context
	cancel context.CancelFunc
}

// NewLoop publishes initial as snapshot 0. A non-positive interval selects
// DefaultInterval.
func NewLoop(initial []models.Station, src Source, interval time.Duration, logger *logging.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{
		interval: interval,
		logger:   logger,
		now:      time.Now,
		src:      src,
		ctx:      ctx,
		cancel:   cancel,
	}
	stations := make([]models.Station, len(initial))
	copy(stations, initial)
	l.current.Store(&models.Snapshot{Seq: 0, GeneratedAt: l.now(), Stations: stations})
	return l
}

// Subscribe registers an observer for subsequent snapshots.
func (l *Loop) Subscribe(obs Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, obs)
}

// Snapshot returns the latest published snapshot. Callers must not modify it.
func (l *Loop) Snapshot() *models.Snapshot {
	return l.current.Load()
}

// Step runs one tick synchronously, publishes and returns the new snapshot.
func (l *Loop) Step() *models.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.current.Load()
	next := &models.Snapshot{
		Seq:         prev.Seq + 1,
		GeneratedAt: l.now(),
		Stations:    Tick(prev.Stations, l.src),
	}
	l.current.Store(next)
	l.notify(next)
	return next
}

// Start hands the current snapshot to observers and then ticks every interval
// until Stop is called.
func (l *Loop) Start(wg *sync.WaitGroup) {
	l.mu.Lock()
	l.notify(l.current.Load())
	l.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		l.logger.Infof("Simulation loop started (interval %s, %d stations)", l.interval, len(l.Snapshot().Stations))
		for {
			select {
			case <-l.ctx.Done():
				l.logger.Infof("Simulation loop stopped at seq %d", l.Snapshot().Seq)
				return
			case <-ticker.C:
				snap := l.Step()
				l.logger.Debugf("Published snapshot seq=%d", snap.Seq)
			}
		}
	}()
}

// Stop cancels further ticks. Safe to call more than once.
func (l *Loop) Stop() {
	l.cancel()
}

func (l *Loop) notify(snap *models.Snapshot) {
	for _, obs := range l.observers {
		obs(snap)
	}
}
