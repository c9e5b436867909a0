// Package persist stores expert submissions and consensus runs in SQL databases.
package persist

import (
	"sync"

	"github.com/huangsam/ahp/internal/contract"
)

// StoreManager holds the submission and consensus stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	submissions  contract.SubmissionStore
	consensus    contract.ConsensusStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetSubmissionStore returns the SubmissionStore.
func (mgr *StoreManager) GetSubmissionStore() contract.SubmissionStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.submissions
}

// GetConsensusStore returns the ConsensusStore.
func (mgr *StoreManager) GetConsensusStore() contract.ConsensusStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.consensus
}
