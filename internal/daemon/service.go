// Package daemon provides the long-running dashboard service and its HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/logging"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"
	"github.com/theirongolddev/adpulse/internal/store"

	"github.com/shopspring/decimal"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataFile     string
	UseCache     bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Horizon      int
	Policy       forecast.Policy
}

// LoadFunc produces a dataset for each poll.
type LoadFunc func() (*pipeline.LoadResult, error)

// Snapshot is a compact dataset state for status/event payloads.
type Snapshot struct {
	At              time.Time       `json:"at"`
	Revision        string          `json:"revision"`
	Source          string          `json:"source"`
	Countries       int             `json:"countries"`
	Campaigns       int             `json:"campaigns"`
	ActiveCampaigns int             `json:"active_campaigns"`
	Conversions     int64           `json:"conversions"`
	BudgetAllocated decimal.Decimal `json:"budget_allocated"`
	BudgetSpent     decimal.Decimal `json:"budget_spent"`
	BudgetSpentPct  decimal.Decimal `json:"budget_spent_pct"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Campaigns       int             `json:"campaigns"`
	ActiveCampaigns int             `json:"active_campaigns"`
	Conversions     int64           `json:"conversions"`
	BudgetAllocated decimal.Decimal `json:"budget_allocated"`
	BudgetSpent     decimal.Decimal `json:"budget_spent"`
}

func (d Delta) isZero() bool {
	return d.Campaigns == 0 &&
		d.ActiveCampaigns == 0 &&
		d.Conversions == 0 &&
		d.BudgetAllocated.IsZero() &&
		d.BudgetSpent.IsZero()
}

// Event is emitted whenever the dataset revision changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot       = "snapshot"
	EventDatasetChanged = "dataset_changed"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataFile        string    `json:"data_file,omitempty"`
	CacheHit        bool      `json:"cache_hit"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg  Config
	load LoadFunc

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	cacheHit    bool
	data        *model.Dataset
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = forecast.DefaultHorizon
	}
	if cfg.Policy == (forecast.Policy{}) {
		cfg.Policy = forecast.DefaultPolicy()
	}

	s := &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.load = s.loadDataset
	return s
}

// WithLoader replaces the dataset source, mainly for tests.
func (s *Service) WithLoader(fn LoadFunc) *Service {
	s.load = fn
	return s
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logging.For("daemon").WithField("addr", s.cfg.Addr).Info("listening")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce reloads the dataset. On failure the previous dataset keeps serving.
func (s *Service) pollOnce() {
	log := logging.For("daemon")
	res, err := s.load()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		log.WithError(err).Warn("poll failed")
		return
	}

	now := time.Now()
	snap := snapshotFromDataset(res, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	s.cacheHit = res.CacheHit

	switch {
	case !prevExists:
		s.data = res.Dataset
		s.snapshot = snap
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	case prev.Revision != snap.Revision:
		s.data = res.Dataset
		s.snapshot = snap
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventDatasetChanged,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     diffSnapshots(prev, snap),
		}
		publish = true
	default:
		s.snapshot.At = now
	}
	s.mu.Unlock()

	if publish {
		log.WithField("revision", snap.Revision).
			WithField("type", ev.Type).
			WithField("totals_changed", !ev.Delta.isZero()).
			Info("dataset published")
		s.publishEvent(ev)
	}
}

func (s *Service) loadDataset() (*pipeline.LoadResult, error) {
	if s.cfg.UseCache && s.cfg.DataFile != "" {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			return pipeline.LoadWithCache(s.cfg.DataFile, cache)
		}
		logging.For("daemon").WithError(err).Warn("cache unavailable, loading without it")
	}
	return pipeline.Load(s.cfg.DataFile)
}

func snapshotFromDataset(res *pipeline.LoadResult, at time.Time) Snapshot {
	ds := res.Dataset
	budget := pipeline.BudgetTotals(ds.Budget)
	camps := pipeline.CampaignTotals(ds.Campaigns)
	active := pipeline.FilterCampaigns(ds.Campaigns, pipeline.CampaignFilter{Status: model.StatusActive})

	return Snapshot{
		At:              at,
		Revision:        res.Revision,
		Source:          res.Source,
		Countries:       len(ds.Countries),
		Campaigns:       camps.Count,
		ActiveCampaigns: len(active),
		Conversions:     camps.Conversions,
		BudgetAllocated: budget.Allocated,
		BudgetSpent:     budget.Spent,
		BudgetSpentPct:  budget.SpentPct,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Campaigns:       curr.Campaigns - prev.Campaigns,
		ActiveCampaigns: curr.ActiveCampaigns - prev.ActiveCampaigns,
		Conversions:     curr.Conversions - prev.Conversions,
		BudgetAllocated: curr.BudgetAllocated.Sub(prev.BudgetAllocated),
		BudgetSpent:     curr.BudgetSpent.Sub(prev.BudgetSpent),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataFile:        s.cfg.DataFile,
		CacheHit:        s.cacheHit,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// dataset returns the dataset currently served, or nil before the first good poll.
func (s *Service) dataset() *model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
