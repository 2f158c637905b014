package service

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

// PointsLedger keeps reward points as dr/cr entries per user. Balances
// are derived, never stored.
type PointsLedger struct {
	mu      sync.RWMutex
	nextID  int64
	entries []*models.PointEntry
}

func NewPointsLedger() *PointsLedger {
	return &PointsLedger{nextID: 1}
}

func (l *PointsLedger) Credit(userID string, amount decimal.Decimal, ref string) *models.PointEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := &models.PointEntry{
		ID:        l.nextID,
		UserID:    userID,
		Cr:        amount,
		Dr:        decimal.Zero,
		TRef:      ref,
		Status:    "posted",
		CreatedAt: time.Now(),
	}
	l.nextID++
	l.entries = append(l.entries, e)
	return e
}

func (l *PointsLedger) Debit(userID string, amount decimal.Decimal, ref string) *models.PointEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := &models.PointEntry{
		ID:        l.nextID,
		UserID:    userID,
		Dr:        amount,
		Cr:        decimal.Zero,
		TRef:      ref,
		Status:    "posted",
		CreatedAt: time.Now(),
	}
	l.nextID++
	l.entries = append(l.entries, e)
	return e
}

func (l *PointsLedger) Balance(userID string) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balance := decimal.Zero
	for _, e := range l.entries {
		if e.UserID != userID {
			continue
		}
		balance = balance.Add(e.Cr).Sub(e.Dr)
	}
	return balance
}

func (l *PointsLedger) Entries(userID string) []*models.PointEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*models.PointEntry
	for _, e := range l.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}
