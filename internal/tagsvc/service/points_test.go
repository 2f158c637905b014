package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerBalance(t *testing.T) {
	l := NewPointsLedger()
	l.Credit("student_001", decimal.NewFromInt(10), "reserved visit")
	l.Credit("student_001", decimal.NewFromInt(5), "walk-in visit")
	l.Debit("student_001", decimal.NewFromInt(3), "reward exchange")
	l.Credit("student_002", decimal.NewFromInt(100), "campaign")

	if got := l.Balance("student_001"); !got.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Balance(student_001) = %s, want 12", got)
	}
	if got := l.Balance("student_002"); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Balance(student_002) = %s, want 100", got)
	}
	if got := l.Balance("student_999"); !got.IsZero() {
		t.Errorf("Balance(student_999) = %s, want 0", got)
	}
}

func TestLedgerEntries(t *testing.T) {
	l := NewPointsLedger()
	l.Credit("student_001", decimal.NewFromInt(10), "visit")
	l.Credit("student_002", decimal.NewFromInt(20), "visit")

	entries := l.Entries("student_001")
	if len(entries) != 1 {
		t.Fatalf("Entries() returned %d rows, want 1", len(entries))
	}
	if entries[0].TRef != "visit" || !entries[0].Cr.Equal(decimal.NewFromInt(10)) {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[0].ID == 0 {
		t.Error("entry ID not assigned")
	}
}
