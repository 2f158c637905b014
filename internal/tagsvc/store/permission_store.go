package store

import (
	"sync"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

// PermissionStore holds exactly one RolePermissions record per role.
type PermissionStore struct {
	mu    sync.RWMutex
	perms map[models.Role]*models.RolePermissions
}

func NewPermissionStore() *PermissionStore {
	return &PermissionStore{perms: make(map[models.Role]*models.RolePermissions)}
}

func (s *PermissionStore) Put(p *models.RolePermissions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perms[p.Role] = p
}

func (s *PermissionStore) Get(role models.Role) *models.RolePermissions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.perms[role]
}

func (s *PermissionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.perms)
}
