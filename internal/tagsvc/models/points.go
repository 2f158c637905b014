package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PointEntry is one row of the dr/cr point ledger kept per user.
type PointEntry struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Dr        decimal.Decimal `json:"dr"`
	Cr        decimal.Decimal `json:"cr"`
	TRef      string          `json:"tref"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
