// Package scheduler reloads the reference dataset on a gocron schedule and
// watches how old the active dataset is.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/giygas/pedcalc-api/interfaces"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/metrics"
	"github.com/giygas/pedcalc-api/validation"
	"github.com/go-co-op/gocron"
)

var _ interfaces.Scheduler = (*Scheduler)(nil)

// DefaultReloadTimes are the daily reload times used when none are given.
const DefaultReloadTimes = "06:00;18:00"

const (
	loadTimeout     = 10 * time.Minute
	monitorInterval = time.Hour
	staleAfter      = 25 * time.Hour
)

// ErrUpdateInProgress is returned when a reload is requested while another
// one is running.
var ErrUpdateInProgress = errors.New("reference data update already in progress")

// Scheduler loads the dataset once at Start and again at each reload time.
type Scheduler struct {
	dataStore   interfaces.DataStore
	loader      interfaces.Loader
	validator   interfaces.DataValidator
	scheduler   *gocron.Scheduler
	reloadTimes string

	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler creates a scheduler. reloadTimes is a gocron At() expression
// such as "06:00;18:00"; empty means DefaultReloadTimes.
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, validator interfaces.DataValidator, reloadTimes string) *Scheduler {
	if reloadTimes == "" {
		reloadTimes = DefaultReloadTimes
	}
	return &Scheduler{
		dataStore:   dataStore,
		loader:      loader,
		validator:   validator,
		scheduler:   gocron.NewScheduler(time.Local),
		reloadTimes: reloadTimes,
		done:        make(chan struct{}),
	}
}

// Start performs the initial load, which must succeed, then schedules the
// reloads and the staleness monitor.
func (s *Scheduler) Start() error {
	if err := s.Reload(context.Background()); err != nil && !errors.Is(err, ErrUpdateInProgress) {
		logging.Error("Failed to perform initial reference data load", "error", err)
		return fmt.Errorf("initial reference data load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.reloadTimes).Do(func() {
		if err := s.Reload(context.Background()); err != nil && !errors.Is(err, ErrUpdateInProgress) {
			// The previous dataset stays active.
			logging.Error("Failed to reload reference data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduled reloads and the monitor.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.scheduler.Stop()
	})
}

// Reload loads, validates and publishes a new dataset. A dataset that fails
// validation is discarded and the active one is kept.
func (s *Scheduler) Reload(ctx context.Context) error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		return ErrUpdateInProgress
	}
	defer s.dataStore.EndUpdate()

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	logging.Info("Starting reference data reload", "at", time.Now().Format(time.RFC3339))
	start := time.Now()

	ds, err := s.loader.Load(ctx)
	if err != nil {
		metrics.ObserveReload(metrics.ReloadFailure, nil)
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	if err := s.validator.ValidateDataset(ds); err != nil {
		metrics.ObserveReload(metrics.ReloadInvalid, nil)
		return fmt.Errorf("reference data rejected: %w", err)
	}

	report := s.validator.ReportDataQuality(ds)
	validation.LogReport(report)

	s.dataStore.UpdateData(ds, report)
	metrics.ObserveReload(metrics.ReloadSuccess, ds)

	logging.Info("Reference data reload completed",
		"duration", time.Since(start).String(),
		"drug_count", len(ds.Formulary.Drugs),
		"growth_standards", len(ds.Growth),
		"sources", len(ds.Sources),
	)
	return nil
}

// startHealthMonitoring warns when the dataset has not been refreshed for
// longer than a day.
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(monitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.checkStaleness(time.Now())
			}
		}
	}()
}

func (s *Scheduler) checkStaleness(now time.Time) bool {
	lastUpdate := s.dataStore.GetLastUpdated()
	if now.Sub(lastUpdate) > staleAfter {
		logging.Warn("Reference data hasn't been updated in over 25 hours", "last_update", lastUpdate.Format(time.RFC3339))
		return true
	}
	return false
}
