package service

import (
	"time"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/cache"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

const conditionTTL = 60 * time.Second

// ReservationChecker is the seam to the reservation system. The real
// implementation lives outside this core.
type ReservationChecker interface {
	HasReservationNow(userID string) bool
}

// StubReservationChecker answers from a fixed table; the zero value
// reports no reservations at all.
type StubReservationChecker struct {
	Reserved map[string]bool
}

func (s *StubReservationChecker) HasReservationNow(userID string) bool {
	if s == nil || s.Reserved == nil {
		return false
	}
	return s.Reserved[userID]
}

// ConditionEvaluator derives the situational condition used to pick a
// flow. Results are cached briefly since conditions can change between
// scans.
type ConditionEvaluator struct {
	reservations ReservationChecker
	cache        *cache.Cache[string]
}

func NewConditionEvaluator(reservations ReservationChecker) *ConditionEvaluator {
	if reservations == nil {
		reservations = &StubReservationChecker{}
	}
	return &ConditionEvaluator{
		reservations: reservations,
		cache:        cache.New[string](),
	}
}

func (e *ConditionEvaluator) Evaluate(userID string, role models.Role) string {
	key := string(role) + ":" + userID
	if cond, ok := e.cache.Get(key); ok {
		return cond
	}

	var cond string
	switch role {
	case models.RoleStudent:
		if e.reservations.HasReservationNow(userID) {
			cond = models.CondHasReservation
		} else {
			cond = models.CondNoReservation
		}
	case models.RoleTeacher, models.RoleStaff:
		cond = models.CondCheckin
	default:
		cond = models.CondDefault
	}

	e.cache.Set(key, cond, conditionTTL)
	return cond
}

func (e *ConditionEvaluator) CacheCleanup() int {
	return e.cache.Cleanup()
}

func (e *ConditionEvaluator) CacheLen() int {
	return e.cache.Len()
}
