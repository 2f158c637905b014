package store

import (
	"sync"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

// DeviceStore holds the tagging terminals. Seeded at startup; read-only
// to the dispatch pipeline, device management happens elsewhere.
type DeviceStore struct {
	mu      sync.RWMutex
	devices map[string]*models.Device
	order   []string
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{devices: make(map[string]*models.Device)}
}

func (s *DeviceStore) Put(d *models.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.devices[d.ID]; !ok {
		s.order = append(s.order, d.ID)
	}
	s.devices[d.ID] = d
}

func (s *DeviceStore) Get(id string) *models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices[id] // nil means device not found
}

func (s *DeviceStore) List() []*models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Device, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.devices[id])
	}
	return out
}

func (s *DeviceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}
