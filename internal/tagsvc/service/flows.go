package service

import (
	"time"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/cache"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/store"
)

// Flow definitions are static, so selections can be cached longer than
// resolutions or conditions.
const flowTTL = 5 * time.Minute

// FlowSelector picks the action flow for a (role, condition) pair.
type FlowSelector struct {
	flows *store.FlowStore
	cache *cache.Cache[*models.ActionFlow]
}

func NewFlowSelector(flows *store.FlowStore) *FlowSelector {
	return &FlowSelector{
		flows: flows,
		cache: cache.New[*models.ActionFlow](),
	}
}

// Select returns the highest-priority flow matching the pair, nil when
// none matches. Ties keep the first seeded flow, so repeated calls are
// stable.
func (s *FlowSelector) Select(role models.Role, condition string) *models.ActionFlow {
	key := string(role) + ":" + condition
	if flow, ok := s.cache.Get(key); ok {
		return flow
	}

	matches := s.flows.FindByRoleCondition(role, condition)
	if len(matches) == 0 {
		// "no applicable flow" is a valid outcome; not cached so a
		// freshly added flow is picked up immediately.
		return nil
	}

	best := matches[0]
	for _, f := range matches[1:] {
		if f.Priority > best.Priority {
			best = f
		}
	}

	s.cache.Set(key, best, flowTTL)
	return best
}

func (s *FlowSelector) CacheCleanup() int {
	return s.cache.Cleanup()
}

func (s *FlowSelector) CacheLen() int {
	return s.cache.Len()
}
