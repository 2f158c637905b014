package store

import (
	"sync"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

// FlowStore keeps the action flow definitions in seed order. Seed order
// matters: the selector breaks priority ties by first match, so the
// returned slice must be stable across calls.
type FlowStore struct {
	mu    sync.RWMutex
	flows []*models.ActionFlow
}

func NewFlowStore() *FlowStore {
	return &FlowStore{}
}

func (s *FlowStore) Add(f *models.ActionFlow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows = append(s.flows, f)
}

// FindByRoleCondition returns flows matching the pair, in seed order.
func (s *FlowStore) FindByRoleCondition(role models.Role, condition string) []*models.ActionFlow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ActionFlow
	for _, f := range s.flows {
		if f.Role == role && f.Condition == condition {
			out = append(out, f)
		}
	}
	return out
}

func (s *FlowStore) List() []*models.ActionFlow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ActionFlow, len(s.flows))
	copy(out, s.flows)
	return out
}

func (s *FlowStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flows)
}
