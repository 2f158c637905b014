package store

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Registry aggregates the reference stores. The four registries are
// seeded concurrently; the system is not ready until all of them finish.
type Registry struct {
	Devices       *DeviceStore
	Registrations *RegistrationStore
	Permissions   *PermissionStore
	Flows         *FlowStore
	Logs          *LogStore

	ready atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{
		Devices:       NewDeviceStore(),
		Registrations: NewRegistrationStore(),
		Permissions:   NewPermissionStore(),
		Flows:         NewFlowStore(),
		Logs:          NewLogStore(),
	}
}

// Init seeds the device, registration, permission and flow registries
// concurrently and marks the registry ready once all four complete.
func (r *Registry) Init() {
	var wg sync.WaitGroup

	seeders := []func(){
		func() { seedDevices(r.Devices) },
		func() { seedRegistrations(r.Registrations) },
		func() { seedPermissions(r.Permissions) },
		func() { seedFlows(r.Flows) },
	}

	wg.Add(len(seeders))
	for _, seed := range seeders {
		go func(fn func()) {
			defer wg.Done()
			fn()
		}(seed)
	}
	wg.Wait()

	r.ready.Store(true)
	log.Infof("registry initialized: %d devices, %d registrations, %d roles, %d flows",
		r.Devices.Len(), r.Registrations.Len(), r.Permissions.Len(), r.Flows.Len())
}

func (r *Registry) IsReady() bool {
	return r.ready.Load()
}
