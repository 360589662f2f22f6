package interfaces

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/pedcalc-api/reference/entities"
)

// MockDataStore implements DataStore interface for testing
type MockDataStore struct {
	dataset     *entities.Dataset
	report      *DataQualityReport
	lastUpdated time.Time
	updating    bool
}

func (m *MockDataStore) GetDataset() *entities.Dataset {
	return m.dataset
}

func (m *MockDataStore) GetLastUpdated() time.Time {
	return m.lastUpdated
}

func (m *MockDataStore) IsUpdating() bool {
	return m.updating
}

func (m *MockDataStore) GetServerStartTime() time.Time {
	return time.Time{} // Return zero time for mock
}

func (m *MockDataStore) GetDataQualityReport() *DataQualityReport {
	return m.report
}

func (m *MockDataStore) UpdateData(dataset *entities.Dataset, report *DataQualityReport) {
	m.dataset = dataset
	m.report = report
	m.lastUpdated = time.Now()
}

func (m *MockDataStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *MockDataStore) EndUpdate() {
	m.updating = false
}

// MockLoader implements Loader interface for testing
type MockLoader struct {
	shouldFail bool
}

func (m *MockLoader) Load(ctx context.Context) (*entities.Dataset, error) {
	if m.shouldFail {
		return nil, &mockError{"load failed"}
	}

	ds := &entities.Dataset{
		Formulary: entities.Formulary{Drugs: []entities.Drug{
			{ID: "amoxicillin", Name: "Amoxicillin"},
			{ID: "gentamicin", Name: "Gentamicin"},
		}},
		LoadedAt: time.Now(),
	}
	ds.BuildIndex()
	return ds, nil
}

// MockScheduler implements Scheduler interface for testing
type MockScheduler struct {
	started bool
	stopped bool
}

func (m *MockScheduler) Start() error {
	if m.started {
		return &mockError{"already started"}
	}
	m.started = true
	return nil
}

func (m *MockScheduler) Stop() {
	m.stopped = true
}

// MockHTTPHandler implements HTTPHandler interface for testing
type MockHTTPHandler struct {
	responseCode int
	responseBody string
}

func (m *MockHTTPHandler) respond(w http.ResponseWriter) {
	w.WriteHeader(m.responseCode)
	_, _ = w.Write([]byte(m.responseBody))
}

func (m *MockHTTPHandler) ListDrugs(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) GetDrug(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) DrugDoses(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcDose(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcMaxDose(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcMAP(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcGFR(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcETT(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcUmbilical(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcGIR(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcFluids(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcExchange(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) CalcBallard(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) ClassifyBP(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) ClassifyNeonatalBP(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) ClassifyGrowth(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) ClassifyJaundice(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) GrowthChart(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

func (m *MockHTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	m.respond(w)
}

// MockHealthChecker implements HealthChecker interface for testing
type MockHealthChecker struct {
	status     string
	details    map[string]any
	httpStatus int
}

func (m *MockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.details, m.httpStatus
}

func (m *MockHealthChecker) CalculateNextUpdate() time.Time {
	return time.Now().Add(1 * time.Hour)
}

// MockDataValidator implements DataValidator interface for testing
type MockDataValidator struct {
	shouldFail bool
}

func (m *MockDataValidator) ValidateDataset(ds *entities.Dataset) error {
	if m.shouldFail {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func (m *MockDataValidator) ValidateDrug(d *entities.Drug) error {
	if m.shouldFail {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func (m *MockDataValidator) ReportDataQuality(ds *entities.Dataset) *DataQualityReport {
	return &DataQualityReport{}
}

func (m *MockDataValidator) ValidateInput(input string) error {
	if m.shouldFail {
		return fmt.Errorf("input validation failed")
	}
	return nil
}

func (m *MockDataValidator) ValidateDrugID(input string) (string, error) {
	if m.shouldFail {
		return "", fmt.Errorf("drug id validation failed")
	}
	return strings.TrimSpace(input), nil
}

// mockError is a simple error type for testing
type mockError struct {
	msg string
}

func (e *mockError) Error() string {
	return e.msg
}

func TestDataStoreInterface(t *testing.T) {
	store := &MockDataStore{}

	if !store.BeginUpdate() {
		t.Fatal("Expected first BeginUpdate to succeed")
	}
	if store.BeginUpdate() {
		t.Error("Expected concurrent BeginUpdate to fail")
	}

	store.UpdateData(&entities.Dataset{}, &DataQualityReport{})
	store.EndUpdate()

	if store.GetDataset() == nil {
		t.Error("Expected dataset after update")
	}
	if store.GetLastUpdated().IsZero() {
		t.Error("Expected last updated to be set")
	}
}

func TestLoaderInterface(t *testing.T) {
	loader := &MockLoader{shouldFail: false}
	ds, err := loader.Load(context.Background())
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if len(ds.Formulary.Drugs) != 2 {
		t.Errorf("Expected 2 drugs, got %d", len(ds.Formulary.Drugs))
	}
	if _, ok := ds.Drug("gentamicin"); !ok {
		t.Error("Expected gentamicin in the index")
	}

	loader = &MockLoader{shouldFail: true}
	if _, err = loader.Load(context.Background()); err == nil {
		t.Error("Expected error but got none")
	}
}

func TestSchedulerInterface(t *testing.T) {
	scheduler := &MockScheduler{}

	err := scheduler.Start()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if !scheduler.started {
		t.Error("Scheduler should be started")
	}

	scheduler.Stop()
	if !scheduler.stopped {
		t.Error("Scheduler should be stopped")
	}
}

func TestHTTPHandlerInterface(t *testing.T) {
	handler := &MockHTTPHandler{
		responseCode: http.StatusOK,
		responseBody: "test response",
	}

	req := httptest.NewRequest("GET", "/v1/calc/map?sbp=120&dbp=80", nil)
	w := httptest.NewRecorder()

	handler.CalcMAP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if w.Body.String() != "test response" {
		t.Errorf("Expected body 'test response', got '%s'", w.Body.String())
	}
}

func TestHealthCheckerInterface(t *testing.T) {
	checker := &MockHealthChecker{
		status:     "healthy",
		details:    map[string]any{"drugs": 105},
		httpStatus: http.StatusOK,
	}

	status, details, code := checker.HealthCheck()
	if code != http.StatusOK {
		t.Errorf("Expected %d, got %d", http.StatusOK, code)
	}

	if status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", status)
	}

	if details["drugs"] != 105 {
		t.Errorf("Expected 105 drugs, got '%v'", details["drugs"])
	}
}

func TestDataValidatorInterface(t *testing.T) {
	validator := &MockDataValidator{shouldFail: false}

	drug := &entities.Drug{ID: "amoxicillin", Name: "Amoxicillin"}
	if err := validator.ValidateDrug(drug); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	validator = &MockDataValidator{shouldFail: true}
	if err := validator.ValidateDrug(drug); err == nil {
		t.Error("Expected validation error but got none")
	}
}

// Example of how interfaces enable dependency injection
type Service struct {
	dataStore DataStore
	loader    Loader
	scheduler Scheduler
}

func NewService(dataStore DataStore, loader Loader, scheduler Scheduler) *Service {
	return &Service{
		dataStore: dataStore,
		loader:    loader,
		scheduler: scheduler,
	}
}

func (s *Service) Refresh(ctx context.Context) error {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	s.dataStore.UpdateData(ds, nil)
	return nil
}

func (s *Service) DrugCount() int {
	if ds := s.dataStore.GetDataset(); ds != nil {
		return len(ds.Formulary.Drugs)
	}
	return 0
}

func TestServiceWithDependencyInjection(t *testing.T) {
	service := NewService(&MockDataStore{}, &MockLoader{}, &MockScheduler{})

	if err := service.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if count := service.DrugCount(); count != 2 {
		t.Errorf("Expected 2 drugs, got %d", count)
	}
}

// Compile-time checks to ensure our implementations implement the interfaces
func TestCompileTimeChecks(t *testing.T) {
	// These will fail to compile if the implementations don't match the interfaces
	var _ DataStore = (*MockDataStore)(nil)
	var _ Loader = (*MockLoader)(nil)
	var _ Scheduler = (*MockScheduler)(nil)
	var _ HTTPHandler = (*MockHTTPHandler)(nil)
	var _ HealthChecker = (*MockHealthChecker)(nil)
	var _ DataValidator = (*MockDataValidator)(nil)
}
