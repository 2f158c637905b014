package store

import (
	"sort"
	"sync"
	"time"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
)

// LogStore is the append-only tagging audit log.
type LogStore struct {
	mu   sync.RWMutex
	logs []*models.TaggingLog
}

func NewLogStore() *LogStore {
	return &LogStore{}
}

func (s *LogStore) Append(l *models.TaggingLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, l)
}

// List returns matching logs sorted newest-first.
func (s *LogStore) List(filter models.LogFilter) []*models.TaggingLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.TaggingLog
	for _, l := range s.logs {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// CountUserTagsOn counts the successful tags of a user on the calendar
// day of ref (local midnight to midnight). Failed attempts do not burn
// quota.
func (s *LogStore) CountUserTagsOn(userID string, ref time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	count := 0
	for _, l := range s.logs {
		if !l.Success || l.UserID != userID {
			continue
		}
		if l.Timestamp.Before(dayStart) || !l.Timestamp.Before(dayEnd) {
			continue
		}
		count++
	}
	return count
}

// Stats aggregates matching logs.
func (s *LogStore) Stats(filter models.LogFilter) models.TaggingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.TaggingStats{
		ByRole:   make(map[models.Role]int),
		ByDevice: make(map[string]int),
		ByStatus: make(map[models.AttendanceStatus]int),
	}
	for _, l := range s.logs {
		if !filter.Matches(l) {
			continue
		}
		stats.Total++
		if l.Success {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		if l.UserRole != "" {
			stats.ByRole[l.UserRole]++
		}
		if l.DeviceID != "" {
			stats.ByDevice[l.DeviceID]++
		}
		if l.Status != "" {
			stats.ByStatus[l.Status]++
		}
	}
	return stats
}

func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}
