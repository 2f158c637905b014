package dispatch

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/service"
)

func testLog() *models.TaggingLog {
	return &models.TaggingLog{
		ID:             "log-1",
		Status:         models.StatusPresent,
		DeviceLocation: "entrance hall",
	}
}

// One action failing, even after exhausting its retries, must not stop
// its siblings.
func TestActionFailureDoesNotAbortSiblings(t *testing.T) {
	e := NewExecutor(nil, nil)

	var siblingRan atomic.Bool
	e.SetHandler(models.ActionCustom, func(userID string, a models.Action, entry *models.TaggingLog) error {
		return errors.New("downstream unavailable")
	})
	e.SetHandler(models.ActionAttendance, func(userID string, a models.Action, entry *models.TaggingLog) error {
		siblingRan.Store(true)
		return nil
	})

	results := e.Run([]models.Action{
		{Kind: models.ActionCustom, RetryCount: 1},
		{Kind: models.ActionAttendance},
	}, "student_001", testLog())

	if len(results) != 2 {
		t.Fatalf("Run() returned %d results, want 2", len(results))
	}
	if results[0].Err == nil {
		t.Error("failing action reported no error")
	}
	if results[0].Attempts != 2 {
		t.Errorf("failing action attempts = %d, want 2", results[0].Attempts)
	}
	if results[1].Err != nil {
		t.Errorf("sibling action failed: %v", results[1].Err)
	}
	if !siblingRan.Load() {
		t.Error("sibling action did not run")
	}
}

func TestRetryEventuallySucceeds(t *testing.T) {
	e := NewExecutor(nil, nil)

	var calls atomic.Int32
	e.SetHandler(models.ActionNotification, func(userID string, a models.Action, entry *models.TaggingLog) error {
		if calls.Add(1) < 3 {
			return errors.New("temporarily unreachable")
		}
		return nil
	})

	results := e.Run([]models.Action{
		{Kind: models.ActionNotification, RetryCount: 3},
	}, "student_001", testLog())

	if results[0].Err != nil {
		t.Errorf("Run() error = %v, want success after retries", results[0].Err)
	}
	if results[0].Attempts != 3 {
		t.Errorf("attempts = %d, want 3", results[0].Attempts)
	}
}

func TestPanickingActionIsIsolated(t *testing.T) {
	e := NewExecutor(nil, nil)

	var siblingRan atomic.Bool
	e.SetHandler(models.ActionCustom, func(userID string, a models.Action, entry *models.TaggingLog) error {
		panic("handler bug")
	})
	e.SetHandler(models.ActionAttendance, func(userID string, a models.Action, entry *models.TaggingLog) error {
		siblingRan.Store(true)
		return nil
	})

	results := e.Run([]models.Action{
		{Kind: models.ActionCustom},
		{Kind: models.ActionAttendance},
	}, "student_001", testLog())

	if results[0].Err == nil {
		t.Error("panicking action reported no error")
	}
	if !siblingRan.Load() {
		t.Error("sibling did not survive the panic")
	}
}

func TestActionDelayHonored(t *testing.T) {
	e := NewExecutor(nil, nil)

	start := time.Now()
	e.Run([]models.Action{
		{Kind: models.ActionAttendance, Delay: 50 * time.Millisecond},
	}, "student_001", testLog())

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Run() returned after %s, want at least 50ms delay", elapsed)
	}
}

func TestPointsActionCreditsLedger(t *testing.T) {
	ledger := service.NewPointsLedger()
	e := NewExecutor(ledger, nil)

	results := e.Run([]models.Action{
		{Kind: models.ActionPoints, Params: map[string]interface{}{"amount": "10", "reason": "reserved visit"}},
	}, "student_001", testLog())

	if results[0].Err != nil {
		t.Fatalf("points action failed: %v", results[0].Err)
	}
	if got := ledger.Balance("student_001"); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Balance() = %s, want 10", got)
	}
}

func TestPointsActionRejectsBadAmount(t *testing.T) {
	ledger := service.NewPointsLedger()
	e := NewExecutor(ledger, nil)

	results := e.Run([]models.Action{
		{Kind: models.ActionPoints, Params: map[string]interface{}{"amount": "ten"}},
	}, "student_001", testLog())

	if results[0].Err == nil {
		t.Error("invalid amount did not fail the action")
	}
	if !ledger.Balance("student_001").IsZero() {
		t.Error("ledger credited despite invalid amount")
	}
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(userID, message string) error {
	n.messages = append(n.messages, userID+": "+message)
	return nil
}

func TestNotificationUsesNotifier(t *testing.T) {
	n := &recordingNotifier{}
	e := NewExecutor(nil, n)

	results := e.Run([]models.Action{
		{Kind: models.ActionNotification, Params: map[string]interface{}{"template": "checkin_walkin"}},
	}, "student_001", testLog())

	if results[0].Err != nil {
		t.Fatalf("notification action failed: %v", results[0].Err)
	}
	if len(n.messages) != 1 {
		t.Fatalf("notifier received %d messages, want 1", len(n.messages))
	}
}

func TestUnknownActionKind(t *testing.T) {
	e := NewExecutor(nil, nil)

	results := e.Run([]models.Action{
		{Kind: models.ActionKind("teleport")},
	}, "student_001", testLog())

	if results[0].Err == nil {
		t.Error("unknown action kind did not fail")
	}
}
