package iostore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetFetchStore implements the StoreManager interface.
func (m *MockStoreManager) GetFetchStore() contract.FetchStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.FetchStore)
	return store
}

// GetReportStore implements the StoreManager interface.
func (m *MockStoreManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// MockFetchStore is a mock implementation of FetchStore for testing.
type MockFetchStore struct {
	mock.Mock
}

var _ contract.FetchStore = &MockFetchStore{} // Compile-time check

// Get implements the FetchStore interface.
func (m *MockFetchStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the FetchStore interface.
func (m *MockFetchStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// GetStatus implements the FetchStore interface.
func (m *MockFetchStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the FetchStore interface.
func (m *MockFetchStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// BeginRun implements the ReportStore interface.
func (m *MockReportStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the ReportStore interface.
func (m *MockReportStore) EndRun(runID int64, endTime time.Time, totalRepos int) error {
	args := m.Called(runID, endTime, totalRepos)
	return args.Error(0)
}

// RecordFlag implements the ReportStore interface.
func (m *MockReportStore) RecordFlag(runID int64, team, repoURL string, flag schema.Flag) error {
	args := m.Called(runID, team, repoURL, flag)
	return args.Error(0)
}

// GetRuns implements the ReportStore interface.
func (m *MockReportStore) GetRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetFlags implements the ReportStore interface.
func (m *MockReportStore) GetFlags() ([]schema.FlagRecord, error) {
	args := m.Called()
	flags, _ := args.Get(0).([]schema.FlagRecord)
	return flags, args.Error(1)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
