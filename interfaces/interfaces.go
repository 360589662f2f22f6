// Package interfaces defines core abstractions for the calculation API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/pedcalc-api/reference/entities"
)

// DataQualityReport summarises non-fatal problems found in a dataset.
// Lists hold at most 10 entries; the counters are exact.
type DataQualityReport struct {
	DuplicateDrugIDs            []string
	DrugsWithoutDoses           int
	DrugsWithoutDosesIDs        []string
	UnparseableDoses            int
	UnparseableDosesIDs         []string // "drug/key"
	DrugsWithoutMaxDose         int
	DrugsWithoutMaxDoseIDs      []string
	DrugsWithRenalAdjustment    int
	DrugsWithoutRenalAdjustment int
}

// DataStore defines the contract for data storage operations.
// It provides thread-safe access to the current reference dataset
// with atomic operations for zero-downtime updates.
type DataStore interface {
	// Data retrieval methods
	GetDataset() *entities.Dataset
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	GetDataQualityReport() *DataQualityReport

	// Data update methods
	UpdateData(dataset *entities.Dataset, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Loader defines the contract for reading reference tables from the
// embedded defaults, an override directory, or a remote formulary.
type Loader interface {
	Load(ctx context.Context) (*entities.Dataset, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated data reloads and system health checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	// Formulary
	ListDrugs(w http.ResponseWriter, r *http.Request)
	GetDrug(w http.ResponseWriter, r *http.Request)
	DrugDoses(w http.ResponseWriter, r *http.Request)

	// Calculators
	CalcDose(w http.ResponseWriter, r *http.Request)
	CalcMaxDose(w http.ResponseWriter, r *http.Request)
	CalcMAP(w http.ResponseWriter, r *http.Request)
	CalcGFR(w http.ResponseWriter, r *http.Request)
	CalcETT(w http.ResponseWriter, r *http.Request)
	CalcUmbilical(w http.ResponseWriter, r *http.Request)
	CalcGIR(w http.ResponseWriter, r *http.Request)
	CalcFluids(w http.ResponseWriter, r *http.Request)
	CalcExchange(w http.ResponseWriter, r *http.Request)
	CalcBallard(w http.ResponseWriter, r *http.Request)

	// Classifiers
	ClassifyBP(w http.ResponseWriter, r *http.Request)
	ClassifyNeonatalBP(w http.ResponseWriter, r *http.Request)
	ClassifyGrowth(w http.ResponseWriter, r *http.Request)
	ClassifyJaundice(w http.ResponseWriter, r *http.Request)

	// Charts
	GrowthChart(w http.ResponseWriter, r *http.Request)

	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
// It provides system health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload time
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for data validation operations.
// It ensures data integrity and consistency.
type DataValidator interface {
	// ValidateDataset rejects datasets the calculators cannot use
	ValidateDataset(ds *entities.Dataset) error

	// ValidateDrug checks if a single formulary entry is valid
	ValidateDrug(d *entities.Drug) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(ds *entities.Dataset) *DataQualityReport

	// ValidateInput validates free-text search strings
	ValidateInput(input string) error

	// ValidateDrugID validates formulary ids
	ValidateDrugID(input string) (string, error)
}
