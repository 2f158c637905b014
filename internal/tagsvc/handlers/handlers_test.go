package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/dispatch"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	registry := store.NewRegistry()
	registry.Init()

	engine := dispatch.NewDispatcher(registry, nil, nil, nil)
	t.Cleanup(engine.Close)
	return NewHandler(engine)
}

func TestLogsHandlerRejectsUnknownRole(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		url  string
		code int
	}{
		{"unknown role", "/v1/logs?role=alien", 400},
		{"valid role", "/v1/logs?role=teacher", 200},
		{"no role", "/v1/logs", 200},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.LogsHandler(rec, httptest.NewRequest("GET", tt.url, nil))
		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.code)
		}
	}
}

func TestStatsHandlerRejectsUnknownRole(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.StatsHandler(rec, httptest.NewRequest("GET", "/v1/stats?role=ghost", nil))
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAccessCheckHandler(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name    string
		url     string
		code    int
		allowed bool
	}{
		{"unknown role", "/v1/access/check?role=alien&page=dashboard", 400, false},
		{"empty role", "/v1/access/check?page=dashboard", 400, false},
		{"student dashboard", "/v1/access/check?role=student&page=dashboard", 200, true},
		{"student settings", "/v1/access/check?role=student&page=settings", 200, false},
		{"staff csv export", "/v1/access/check?role=staff&page=students&function=export_csv", 200, true},
		{"teacher student logs", "/v1/access/check?role=teacher&data_type=student_logs", 200, true},
		{"no page or data type", "/v1/access/check?role=student", 400, false},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.AccessCheckHandler(rec, httptest.NewRequest("GET", tt.url, nil))
		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.code)
			continue
		}
		if tt.code != 200 {
			continue
		}

		var rsp struct {
			Data map[string]bool `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &rsp); err != nil {
			t.Fatalf("%s: bad response body: %v", tt.name, err)
		}
		if rsp.Data["allowed"] != tt.allowed {
			t.Errorf("%s: allowed = %v, want %v", tt.name, rsp.Data["allowed"], tt.allowed)
		}
	}
}
