package iostore

import (
	"github.com/stretchr/testify/mock"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRankStore implements the StoreManager interface.
func (m *MockStoreManager) GetRankStore() contract.RankStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RankStore)
	return store
}

// GetCatalogStore implements the StoreManager interface.
func (m *MockStoreManager) GetCatalogStore() contract.CatalogStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CatalogStore)
	return store
}

// MockRankStore is a mock implementation of RankStore for testing.
type MockRankStore struct {
	mock.Mock
}

var _ contract.RankStore = &MockRankStore{} // Compile-time check

// PutSnapshot implements the RankStore interface.
func (m *MockRankStore) PutSnapshot(key schema.RankKey, snap *schema.Snapshot) error {
	args := m.Called(key, snap)
	return args.Error(0)
}

// GetSnapshot implements the RankStore interface.
func (m *MockRankStore) GetSnapshot(key schema.RankKey) (*schema.Snapshot, bool, error) {
	args := m.Called(key)
	snap, _ := args.Get(0).(*schema.Snapshot)
	return snap, args.Bool(1), args.Error(2)
}

// GetLatest implements the RankStore interface.
func (m *MockRankStore) GetLatest(country string, platform schema.Platform, chart schema.Chart) (*schema.Snapshot, bool, error) {
	args := m.Called(country, platform, chart)
	snap, _ := args.Get(0).(*schema.Snapshot)
	return snap, args.Bool(1), args.Error(2)
}

// ListDates implements the RankStore interface.
func (m *MockRankStore) ListDates(country string) ([]string, error) {
	args := m.Called(country)
	dates, _ := args.Get(0).([]string)
	return dates, args.Error(1)
}

// InsertDate implements the RankStore interface.
func (m *MockRankStore) InsertDate(country, date string) error {
	args := m.Called(country, date)
	return args.Error(0)
}

// PutBaseline implements the RankStore interface.
func (m *MockRankStore) PutBaseline(key schema.RankKey, baseline schema.MetadataBaseline) error {
	args := m.Called(key, baseline)
	return args.Error(0)
}

// GetBaseline implements the RankStore interface.
func (m *MockRankStore) GetBaseline(key schema.RankKey) (schema.MetadataBaseline, bool, error) {
	args := m.Called(key)
	baseline, _ := args.Get(0).(schema.MetadataBaseline)
	return baseline, args.Bool(1), args.Error(2)
}

// PutReport implements the RankStore interface.
func (m *MockRankStore) PutReport(key string, payload any) error {
	args := m.Called(key, payload)
	return args.Error(0)
}

// GetReport implements the RankStore interface.
func (m *MockRankStore) GetReport(key string, out any) (bool, error) {
	args := m.Called(key, out)
	return args.Bool(0), args.Error(1)
}

// GetAllSnapshots implements the RankStore interface.
func (m *MockRankStore) GetAllSnapshots() ([]*schema.Snapshot, error) {
	args := m.Called()
	snaps, _ := args.Get(0).([]*schema.Snapshot)
	return snaps, args.Error(1)
}

// GetStatus implements the RankStore interface.
func (m *MockRankStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RankStore interface.
func (m *MockRankStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCatalogStore is a mock implementation of CatalogStore for testing.
type MockCatalogStore struct {
	mock.Mock
}

var _ contract.CatalogStore = &MockCatalogStore{} // Compile-time check

// Load implements the CatalogStore interface.
func (m *MockCatalogStore) Load() (map[string]schema.Category, error) {
	args := m.Called()
	entries, _ := args.Get(0).(map[string]schema.Category)
	return entries, args.Error(1)
}

// LoadOverrides implements the CatalogStore interface.
func (m *MockCatalogStore) LoadOverrides() (map[string]schema.Category, error) {
	args := m.Called()
	entries, _ := args.Get(0).(map[string]schema.Category)
	return entries, args.Error(1)
}

// SaveResolved implements the CatalogStore interface.
func (m *MockCatalogStore) SaveResolved(entries map[string]schema.Category) error {
	args := m.Called(entries)
	return args.Error(0)
}

// SaveOverrides implements the CatalogStore interface.
func (m *MockCatalogStore) SaveOverrides(entries map[string]schema.Category) (int, error) {
	args := m.Called(entries)
	return args.Int(0), args.Error(1)
}

// GetStatus implements the CatalogStore interface.
func (m *MockCatalogStore) GetStatus() (schema.CatalogStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CatalogStatus), args.Error(1)
}

// Close implements the CatalogStore interface.
func (m *MockCatalogStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
