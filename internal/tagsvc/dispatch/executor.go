package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/service"
)

const retryBackoff = 100 * time.Millisecond

// Notifier is the delivery seam for notification actions; the NATS
// broker implements it in the service wiring.
type Notifier interface {
	Notify(userID, message string) error
}

// ActionHandler executes one action kind for a user.
type ActionHandler func(userID string, action models.Action, entry *models.TaggingLog) error

type ActionResult struct {
	Kind     models.ActionKind
	Attempts int
	Err      error
}

// Executor runs a flow's actions after the dispatch result has already
// been returned. All actions of a flow run concurrently; each honors its
// own delay and retry policy, and one action failing never aborts its
// siblings.
type Executor struct {
	mu       sync.RWMutex
	handlers map[models.ActionKind]ActionHandler
}

// NewExecutor seeds the kind handlers. Both collaborators are optional:
// without a ledger the points action is a logged no-op, without a
// notifier the notification action is.
func NewExecutor(points *service.PointsLedger, notifier Notifier) *Executor {
	e := &Executor{handlers: make(map[models.ActionKind]ActionHandler)}

	e.handlers[models.ActionAttendance] = func(userID string, a models.Action, entry *models.TaggingLog) error {
		// attendance itself was already derived into the log entry;
		// production forwards it to the school information system here
		log.Infof("attendance %s recorded for %s at %s", entry.Status, userID, entry.DeviceLocation)
		return nil
	}

	e.handlers[models.ActionNotification] = func(userID string, a models.Action, entry *models.TaggingLog) error {
		template, _ := a.Params["template"].(string)
		message := fmt.Sprintf("check-in %s at %s", entry.Status, entry.DeviceLocation)
		if template != "" {
			message = template + ": " + message
		}
		if notifier == nil {
			log.Infof("notification for %s skipped, no notifier wired: %s", userID, message)
			return nil
		}
		return notifier.Notify(userID, message)
	}

	e.handlers[models.ActionPoints] = func(userID string, a models.Action, entry *models.TaggingLog) error {
		if points == nil {
			log.Infof("points action for %s skipped, no ledger wired", userID)
			return nil
		}
		raw, _ := a.Params["amount"].(string)
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid points amount %q: %w", raw, err)
		}
		reason, _ := a.Params["reason"].(string)
		if reason == "" {
			reason = "tagging reward"
		}
		points.Credit(userID, amount, reason)
		log.Infof("credited %s points to %s (%s)", amount, userID, reason)
		return nil
	}

	e.handlers[models.ActionReservation] = func(userID string, a models.Action, entry *models.TaggingLog) error {
		// reservation updates belong to the external reservation system
		log.Infof("reservation update queued for %s", userID)
		return nil
	}

	e.handlers[models.ActionCustom] = func(userID string, a models.Action, entry *models.TaggingLog) error {
		op, _ := a.Params["op"].(string)
		log.Infof("custom action %q executed for %s", op, userID)
		return nil
	}

	return e
}

// SetHandler replaces the handler for a kind; used by service wiring to
// plug external collaborators in.
func (e *Executor) SetHandler(kind models.ActionKind, h ActionHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = h
}

func (e *Executor) handler(kind models.ActionKind) ActionHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.handlers[kind]
}

// Run executes all actions concurrently and collects their outcomes.
// Failures are logged, never raised: the dispatch caller is long gone.
func (e *Executor) Run(actions []models.Action, userID string, entry *models.TaggingLog) []ActionResult {
	results := make([]ActionResult, len(actions))

	var wg sync.WaitGroup
	wg.Add(len(actions))
	for i, a := range actions {
		go func(i int, a models.Action) {
			defer wg.Done()
			results[i] = e.execute(a, userID, entry)
		}(i, a)
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			log.Errorf("action %s failed for %s after %d attempts: %v", r.Kind, userID, r.Attempts, r.Err)
		}
	}
	return results
}

// execute honors the action's delay, then retries with linearly growing
// backoff up to its RetryCount.
func (e *Executor) execute(a models.Action, userID string, entry *models.TaggingLog) ActionResult {
	if a.Delay > 0 {
		time.Sleep(a.Delay)
	}

	h := e.handler(a.Kind)
	if h == nil {
		return ActionResult{Kind: a.Kind, Attempts: 0, Err: fmt.Errorf("no handler for action kind %q", a.Kind)}
	}

	var err error
	attempts := 0
	for attempt := 0; attempt <= a.RetryCount; attempt++ {
		attempts++
		err = e.attempt(h, userID, a, entry)
		if err == nil {
			break
		}
		if attempt < a.RetryCount {
			time.Sleep(time.Duration(attempt+1) * retryBackoff)
		}
	}
	return ActionResult{Kind: a.Kind, Attempts: attempts, Err: err}
}

// attempt isolates a single try so a panicking handler only fails its
// own action.
func (e *Executor) attempt(h ActionHandler, userID string, a models.Action, entry *models.TaggingLog) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action %s panic: %v", a.Kind, r)
		}
	}()
	return h(userID, a, entry)
}
