package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/seiwa-edu/tagging-services/internal/comm"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/cache"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/service"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/store"
)

// Business rejections surfaced in the dispatch result. These are
// expected outcomes, never errors in the Go sense.
const (
	ReasonSystemNotReady     = "system not ready"
	ReasonInvalidDevice      = "invalid device"
	ReasonMethodNotSupported = "method not supported by device"
	ReasonUnregisteredUID    = "unregistered uid"
	ReasonNotPermitted       = "not permitted to tag"
	ReasonMethodNotPermitted = "method not permitted for role"
	ReasonDailyLimit         = "daily limit exceeded"
	ReasonNoFlow             = "no applicable flow"
	ReasonDropped            = "request dropped"
	ReasonProcessing         = "processing error"
)

const (
	deviceTTL       = 2 * time.Minute
	permissionTTL   = 5 * time.Minute
	janitorInterval = time.Minute
)

// EventPublisher receives every completed dispatch for live observers.
type EventPublisher interface {
	PublishTagEvent(ev comm.TagEvent)
}

type Request struct {
	UID      string            `json:"uid"`
	DeviceID string            `json:"device_id"`
	Method   models.TagMethod  `json:"method"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Result struct {
	Success      bool               `json:"success"`
	Flow         *models.ActionFlow `json:"flow,omitempty"`
	Error        string             `json:"error,omitempty"`
	ProcessingMs float64            `json:"processing_ms"`
}

type SystemStatus struct {
	Ready         bool      `json:"ready"`
	QueueLength   int       `json:"queue_length"`
	LogCount      int       `json:"log_count"`
	DeviceCount   int       `json:"device_count"`
	CacheEntries  int       `json:"cache_entries"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// Dispatcher is the tagging engine's single entry point. A dispatch call
// never runs its pipeline inline: it is queued, so the number of
// concurrently running pipelines stays bounded by the queue batch size.
type Dispatcher struct {
	registry   *store.Registry
	resolver   *service.UserResolver
	conditions *service.ConditionEvaluator
	selector   *service.FlowSelector
	executor   *Executor
	queue      *WorkQueue

	deviceCache *cache.Cache[*models.Device]
	permCache   *cache.Cache[*models.RolePermissions]

	events EventPublisher

	// in-flight scans per user, so a concurrent batch cannot pass the
	// daily quota check before any of its logs land
	quotaMu  sync.Mutex
	inflight map[string]int

	startedAt time.Time
	stop      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher wires the pipeline. reservations, executor and events
// may be nil; stubs are used in their place.
func NewDispatcher(registry *store.Registry, reservations service.ReservationChecker,
	executor *Executor, events EventPublisher) *Dispatcher {

	if executor == nil {
		executor = NewExecutor(nil, nil)
	}

	d := &Dispatcher{
		registry:    registry,
		resolver:    service.NewUserResolver(registry.Registrations),
		conditions:  service.NewConditionEvaluator(reservations),
		selector:    service.NewFlowSelector(registry.Flows),
		executor:    executor,
		queue:       NewWorkQueue(DefaultBatchSize, DefaultMaxQueueSize),
		deviceCache: cache.New[*models.Device](),
		permCache:   cache.New[*models.RolePermissions](),
		events:      events,
		inflight:    make(map[string]int),
		startedAt:   time.Now(),
		stop:        make(chan struct{}),
	}

	go d.janitor()
	return d
}

// Dispatch queues the scan and waits for its result. The context only
// bounds the wait; an enqueued pipeline always runs to completion.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	start := time.Now()
	resCh := make(chan Result, 1)

	task := &Task{
		Run: func() {
			resCh <- d.process(req, start)
		},
		Evict: func() {
			resCh <- Result{Success: false, Error: ReasonDropped, ProcessingMs: msSince(start)}
		},
	}
	d.queue.Enqueue(task, true)

	select {
	case res := <-resCh:
		return res
	case <-ctx.Done():
		return Result{Success: false, Error: ReasonProcessing, ProcessingMs: msSince(start)}
	}
}

// process is the pipeline proper. Every rejection short-circuits with a
// failure log entry; a panic anywhere below is converted to the generic
// processing error so nothing escapes the dispatch boundary.
func (d *Dispatcher) process(req Request, start time.Time) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("dispatch pipeline panic for uid %s: %v", req.UID, r)
			result = Result{Success: false, Error: ReasonProcessing, ProcessingMs: msSince(start)}
		}
	}()

	fail := func(reason string, res *service.Resolution, device *models.Device) Result {
		entry := d.appendLog(req, res, device, false, reason, "", start)
		d.publish(entry)
		return Result{Success: false, Error: reason, ProcessingMs: entry.ProcessingMs}
	}

	if !d.registry.IsReady() {
		return fail(ReasonSystemNotReady, nil, nil)
	}

	device := d.lookupDevice(req.DeviceID)
	if device == nil || !device.Active {
		return fail(ReasonInvalidDevice, nil, nil)
	}
	if !device.SupportsMethod(req.Method) {
		return fail(ReasonMethodNotSupported, nil, device)
	}

	res := d.resolver.Resolve(req.UID)
	if res == nil {
		return fail(ReasonUnregisteredUID, nil, device)
	}

	perms := d.lookupPermissions(res.Role)
	if perms == nil || !perms.CanTag {
		return fail(ReasonNotPermitted, res, device)
	}
	if !perms.MethodAllowed(req.Method) {
		return fail(ReasonMethodNotPermitted, res, device)
	}

	if !d.reserveQuota(res.UserID, perms.MaxDailyTags) {
		return fail(ReasonDailyLimit, res, device)
	}
	defer d.releaseQuota(res.UserID)

	cond := d.conditions.Evaluate(res.UserID, res.Role)

	flow := d.selector.Select(res.Role, cond)
	if flow == nil {
		return fail(ReasonNoFlow, res, device)
	}

	entry := d.appendLog(req, res, device, true, "", AttendanceStatusFor(time.Now()), start)
	d.registry.Registrations.RecordUsage(req.UID, device.Location)

	// side effects run detached; the caller gets its result now
	go d.executor.Run(flow.Actions, res.UserID, entry)

	d.publish(entry)

	return Result{Success: true, Flow: flow, ProcessingMs: entry.ProcessingMs}
}

// reserveQuota admits a scan only if the user's successful tags today
// plus their scans already in flight stay under the limit. The slot is
// held until releaseQuota, which runs after the scan's log is appended.
func (d *Dispatcher) reserveQuota(userID string, max int) bool {
	d.quotaMu.Lock()
	defer d.quotaMu.Unlock()

	if d.registry.Logs.CountUserTagsOn(userID, time.Now())+d.inflight[userID] >= max {
		return false
	}
	d.inflight[userID]++
	return true
}

func (d *Dispatcher) releaseQuota(userID string) {
	d.quotaMu.Lock()
	defer d.quotaMu.Unlock()

	d.inflight[userID]--
	if d.inflight[userID] <= 0 {
		delete(d.inflight, userID)
	}
}

func (d *Dispatcher) lookupDevice(deviceID string) *models.Device {
	if device, ok := d.deviceCache.Get(deviceID); ok {
		return device
	}
	device := d.registry.Devices.Get(deviceID)
	if device != nil {
		d.deviceCache.Set(deviceID, device, deviceTTL)
	}
	return device
}

func (d *Dispatcher) lookupPermissions(role models.Role) *models.RolePermissions {
	if perms, ok := d.permCache.Get(string(role)); ok {
		return perms
	}
	perms := d.registry.Permissions.Get(role)
	if perms != nil {
		d.permCache.Set(string(role), perms, permissionTTL)
	}
	return perms
}

func (d *Dispatcher) appendLog(req Request, res *service.Resolution, device *models.Device,
	success bool, reason string, status models.AttendanceStatus, start time.Time) *models.TaggingLog {

	entry := &models.TaggingLog{
		ID:           uuid.New().String(),
		UID:          req.UID,
		DeviceID:     req.DeviceID,
		Method:       req.Method,
		Timestamp:    time.Now(),
		Success:      success,
		ErrorMessage: reason,
		Status:       status,
		ProcessingMs: msSince(start),
		Metadata:     req.Metadata,
	}
	if res != nil {
		entry.UserID = res.UserID
		entry.UserRole = res.Role
	}
	if device != nil {
		entry.DeviceLocation = device.Location
	}
	d.registry.Logs.Append(entry)
	return entry
}

func (d *Dispatcher) publish(entry *models.TaggingLog) {
	if d.events == nil {
		return
	}
	d.events.PublishTagEvent(comm.TagEvent{
		LogID:        entry.ID,
		UID:          entry.UID,
		UserID:       entry.UserID,
		UserRole:     string(entry.UserRole),
		DeviceID:     entry.DeviceID,
		Location:     entry.DeviceLocation,
		Method:       string(entry.Method),
		Status:       string(entry.Status),
		Success:      entry.Success,
		Error:        entry.ErrorMessage,
		ProcessingMs: entry.ProcessingMs,
		Timestamp:    entry.Timestamp,
	})
}

// AttendanceStatusFor derives the attendance status from the scan hour:
// before 9 is early, 9 to 10 inclusive is present, after 10 is late.
func AttendanceStatusFor(t time.Time) models.AttendanceStatus {
	switch hour := t.Hour(); {
	case hour < 9:
		return models.StatusEarly
	case hour <= 10:
		return models.StatusPresent
	default:
		return models.StatusLate
	}
}

// RegisterUID inserts a new, unapproved registration.
func (d *Dispatcher) RegisterUID(uid, userID, deviceType, deviceName string) bool {
	if uid == "" || userID == "" {
		return false
	}
	d.registry.Registrations.Register(uid, userID, deviceType, deviceName)
	log.Infof("uid %s registered for %s, pending approval", uid, userID)
	return true
}

// ApproveUID flips the approval flag, enabling dispatch for the uid.
func (d *Dispatcher) ApproveUID(uid string) bool {
	ok := d.registry.Registrations.Approve(uid)
	if ok {
		log.Infof("uid %s approved", uid)
	}
	return ok
}

func (d *Dispatcher) GetLogs(filter models.LogFilter) []*models.TaggingLog {
	return d.registry.Logs.List(filter)
}

func (d *Dispatcher) GetDevices() []*models.Device {
	return d.registry.Devices.List()
}

func (d *Dispatcher) GetUIDRegistrations(userID string) []*models.UIDRegistration {
	return d.registry.Registrations.List(userID)
}

func (d *Dispatcher) GetTaggingStats(filter models.LogFilter) models.TaggingStats {
	return d.registry.Logs.Stats(filter)
}

func (d *Dispatcher) GetSystemStatus() SystemStatus {
	return SystemStatus{
		Ready:       d.registry.IsReady(),
		QueueLength: d.queue.Len(),
		LogCount:    d.registry.Logs.Len(),
		DeviceCount: d.registry.Devices.Len(),
		CacheEntries: d.deviceCache.Len() + d.permCache.Len() +
			d.resolver.CacheLen() + d.conditions.CacheLen() + d.selector.CacheLen(),
		UptimeSeconds: time.Since(d.startedAt).Seconds(),
		Timestamp:     time.Now(),
	}
}

// janitor periodically sweeps the expiring caches.
func (d *Dispatcher) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := d.deviceCache.Cleanup() + d.permCache.Cleanup() +
				d.resolver.CacheCleanup() + d.conditions.CacheCleanup() + d.selector.CacheCleanup()
			if removed > 0 {
				log.Debugf("cache janitor removed %d expired entries", removed)
			}
		case <-d.stop:
			return
		}
	}
}

// Close stops the janitor and the queue drain loop.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.stop)
		d.queue.Close()
	})
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}
