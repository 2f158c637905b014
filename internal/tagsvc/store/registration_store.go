package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

// RegistrationStore keeps uid-to-user registrations. Registrations are
// never hard-deleted here; deactivation is an external concern.
type RegistrationStore struct {
	mu   sync.RWMutex
	regs []*models.UIDRegistration
}

func NewRegistrationStore() *RegistrationStore {
	return &RegistrationStore{}
}

func (s *RegistrationStore) Add(reg *models.UIDRegistration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs = append(s.regs, reg)
}

// Register inserts a new, unapproved registration for uid.
func (s *RegistrationStore) Register(uid, userID, deviceType, deviceName string) *models.UIDRegistration {
	reg := &models.UIDRegistration{
		ID:           uuid.New().String(),
		UID:          uid,
		UserID:       userID,
		DeviceType:   deviceType,
		DeviceName:   deviceName,
		IsApproved:   false,
		RegisteredAt: time.Now(),
	}
	s.Add(reg)
	return reg
}

// Approve flips the approval flag for every registration of uid and
// reports whether any registration matched.
func (s *RegistrationStore) Approve(uid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, reg := range s.regs {
		if reg.UID == uid {
			reg.IsApproved = true
			found = true
		}
	}
	return found
}

// FindApprovedByUID returns the most recently registered approved entry
// for uid, nil when none matches (unregistered or pending card).
func (s *RegistrationStore) FindApprovedByUID(uid string) *models.UIDRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.regs) - 1; i >= 0; i-- {
		if s.regs[i].UID == uid && s.regs[i].IsApproved {
			return s.regs[i]
		}
	}
	return nil
}

// RecordUsage bumps the usage counter and last-used fields after a
// successful dispatch.
func (s *RegistrationStore) RecordUsage(uid, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for i := len(s.regs) - 1; i >= 0; i-- {
		reg := s.regs[i]
		if reg.UID == uid && reg.IsApproved {
			reg.UsageCount++
			reg.LastUsedAt = &now
			reg.LastUsedLocation = location
			return
		}
	}
}

// List returns registrations, optionally narrowed to one user.
func (s *RegistrationStore) List(userID string) []*models.UIDRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.UIDRegistration, 0, len(s.regs))
	for _, reg := range s.regs {
		if userID != "" && reg.UserID != userID {
			continue
		}
		out = append(out, reg)
	}
	return out
}

func (s *RegistrationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regs)
}
