// Package data provides thread-safe storage for the reference dataset.
// It includes the DataContainer struct with atomic operations for zero-downtime
// reloads and thread-safe access to the current snapshot.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/pedcalc-api/interfaces"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/reference/entities"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the current dataset with atomic pointers for zero-downtime updates
type DataContainer struct {
	dataset         atomic.Pointer[entities.Dataset]
	report          atomic.Pointer[interfaces.DataQualityReport]
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer without a dataset
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{}) // Initialize with zero value
	return dc
}

// GetDataset returns the current dataset snapshot, or nil before the first load.
// Callers must treat the snapshot as read-only.
func (dc *DataContainer) GetDataset() *entities.Dataset {
	ds := dc.dataset.Load()
	if ds == nil {
		logging.Warn("Reference dataset is not loaded")
	}
	return ds
}

// GetDataQualityReport returns the report computed for the current dataset
func (dc *DataContainer) GetDataQualityReport() *interfaces.DataQualityReport {
	if r := dc.report.Load(); r != nil {
		return r
	}
	return &interfaces.DataQualityReport{}
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically publishes a new dataset. A nil dataset is ignored so
// readers never lose the previous snapshot.
func (dc *DataContainer) UpdateData(dataset *entities.Dataset, report *interfaces.DataQualityReport) {
	if dataset == nil {
		logging.Warn("Ignoring nil dataset update")
		return
	}

	// Atomic swap (zero downtime replacement)
	dc.dataset.Store(dataset)
	if report != nil {
		dc.report.Store(report)
	}
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
