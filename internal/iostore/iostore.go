// Package iostore persists snapshots, date indexes, baselines, reports and
// the category catalog across sqlite, mysql and postgresql backends.
package iostore

import (
	"sync"

	"github.com/chartpulse/chartpulse/internal/contract"
)

// StoreManagerImpl manages the rank and catalog store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	ranks        contract.RankStore
	catalog      contract.CatalogStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetRankStore returns the rank store.
func (mgr *StoreManagerImpl) GetRankStore() contract.RankStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.ranks
}

// GetCatalogStore returns the catalog store.
func (mgr *StoreManagerImpl) GetCatalogStore() contract.CatalogStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.catalog
}
