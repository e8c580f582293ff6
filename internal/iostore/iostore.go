// Package iostore persists fetched commit histories and analysis results.
package iostore

import (
	"sync"

	"github.com/hackwatch/hackwatch/internal/contract"
)

// StoreManagerImpl manages the fetch cache and report store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	fetch        contract.FetchStore
	report       contract.ReportStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetFetchStore returns the commit fetch cache.
func (mgr *StoreManagerImpl) GetFetchStore() contract.FetchStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.fetch
}

// GetReportStore returns the analysis report store.
func (mgr *StoreManagerImpl) GetReportStore() contract.ReportStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.report
}
