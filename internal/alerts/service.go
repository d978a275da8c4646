package alerts

import (
	"context"
	"strings"
	"sync"
	"time"

	"station-dashboard/internal/config"
	"station-dashboard/internal/logging"
	"station-dashboard/internal/metrics"
	"station-dashboard/internal/models"
)

// Provider delivers an alert to one channel.
type Provider interface {
	Name() string
	Send(ctx context.Context, alert models.Alert) error
}

// Service watches published snapshots for stations crossing the risk
// threshold and dispatches alerts through a worker pool.
type Service struct {
	logger    *logging.Logger
	condition string
	minScore  int
	workers   int
	alerts    chan models.Alert
	ctx       context.Context
	cancel    context.CancelFunc
	wg        *sync.WaitGroup
	providers []Provider
	now       func() time.Time

	mu     sync.Mutex
	atRisk map[string]bool
}

// New constructs an alerts Service.
func New(logger *logging.Logger, cfg config.Config, providers ...Provider) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		logger:    logger,
		condition: cfg.Alerts.Condition,
		minScore:  cfg.Alerts.MinScore,
		workers:   cfg.Alerts.MaxWorkers,
		alerts:    make(chan models.Alert, cfg.Alerts.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		providers: providers,
		now:       time.Now,
		atRisk:    make(map[string]bool),
	}
}

// Start launches the worker pool.
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop signals the workers to exit. Queued alerts that were not picked up
// are discarded.
func (s *Service) Stop() {
	s.cancel()
}

// Observe compares a snapshot against the previous one and queues an alert
// for every station that entered or left the at-risk state.
func (s *Service) Observe(snap *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range snap.Stations {
		r := metrics.AssessRisk(st)
		hot := evaluateCondition(s.condition, r.Score, s.minScore)
		was := s.atRisk[st.ID]
		switch {
		case hot && !was:
			s.atRisk[st.ID] = true
			s.QueueAlert(models.NewAlert(models.AlertRaised, r, snap.Seq, s.now()))
		case !hot && was:
			delete(s.atRisk, st.ID)
			s.QueueAlert(models.NewAlert(models.AlertCleared, r, snap.Seq, s.now()))
		}
	}
}

// AtRisk returns how many stations are currently above the threshold.
func (s *Service) AtRisk() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.atRisk)
}

// QueueAlert enqueues an Alert for dispatch.
func (s *Service) QueueAlert(alert models.Alert) {
	select {
	case s.alerts <- alert:
		s.logger.Debugf("Queued %s alert for %s (seq %d)", alert.Kind, alert.StationID, alert.Seq)
	default:
		s.logger.Errorf("Queue full, dropping %s alert for %s", alert.Kind, alert.StationID)
	}
}

// worker processes alerts until context is cancelled.
func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Alert worker %d stopped", id)
			return
		case alert := <-s.alerts:
			s.dispatch(alert)
		}
	}
}

// dispatch sends alert to every provider. One failing provider does not stop
// the others.
func (s *Service) dispatch(alert models.Alert) {
	s.logger.Infof("Station %s %s (score %d: %s)", alert.StationID, alert.Kind, alert.Score, strings.Join(alert.Flags, ","))
	for _, p := range s.providers {
		if err := p.Send(s.ctx, alert); err != nil {
			s.logger.Errorf("Dispatch error via %s for %s: %v", p.Name(), alert.StationID, err)
			continue
		}
		s.logger.Debugf("Alert for %s dispatched via %s", alert.StationID, p.Name())
	}
}

// evaluateCondition checks if a risk score satisfies the configured condition.
func evaluateCondition(cond string, score, threshold int) bool {
	switch cond {
	case "EQ":
		return score == threshold
	case "NEQ":
		return score != threshold
	case "GT":
		return score > threshold
	case "GTE":
		return score >= threshold
	case "LT":
		return score < threshold
	case "LTE":
		return score <= threshold
	default:
		return false
	}
}
