package service

import (
	"strings"
	"time"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/cache"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/store"
)

const resolverTTL = 30 * time.Second

// Resolution is the (user, role) pair a scanned uid maps to.
type Resolution struct {
	UserID string
	Role   models.Role
}

// UserResolver maps a scanned uid to its owning user. A nil result is an
// expected outcome (unregistered or pending card), not an error.
type UserResolver struct {
	regs  *store.RegistrationStore
	cache *cache.Cache[Resolution]
}

func NewUserResolver(regs *store.RegistrationStore) *UserResolver {
	return &UserResolver{
		regs:  regs,
		cache: cache.New[Resolution](),
	}
}

func (r *UserResolver) Resolve(uid string) *Resolution {
	if cached, ok := r.cache.Get(uid); ok {
		return &cached
	}

	reg := r.regs.FindApprovedByUID(uid)
	if reg == nil {
		// Misses are never cached: an approval must become visible on
		// the very next scan.
		return nil
	}

	res := Resolution{
		UserID: reg.UserID,
		Role:   RoleFromUserID(reg.UserID),
	}
	r.cache.Set(uid, res, resolverTTL)
	return &res
}

// RoleFromUserID derives the role from the account naming convention.
// In production the directory service owns this mapping.
func RoleFromUserID(userID string) models.Role {
	switch {
	case strings.HasPrefix(userID, "teacher_"):
		return models.RoleTeacher
	case strings.HasPrefix(userID, "staff_"):
		return models.RoleStaff
	case strings.HasPrefix(userID, "master_"), strings.HasPrefix(userID, "admin_"):
		return models.RoleMaster
	default:
		return models.RoleStudent
	}
}

// CacheCleanup sweeps expired resolutions, called by the engine janitor.
func (r *UserResolver) CacheCleanup() int {
	return r.cache.Cleanup()
}

func (r *UserResolver) CacheLen() int {
	return r.cache.Len()
}
