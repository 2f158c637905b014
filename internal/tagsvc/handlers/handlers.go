package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/seiwa-edu/tagging-services/internal/tagsvc/dispatch"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/models"
	"github.com/seiwa-edu/tagging-services/internal/tagsvc/service"
)

type Handler struct {
	engine    *dispatch.Dispatcher
	tokenAuth *jwtauth.JWTAuth
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func NewHandler(engine *dispatch.Dispatcher) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "tagging service is running at port " + os.Getenv("TAG_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode health response: %v", err)
	}
}

// TagHandler is the scan endpoint terminals post to.
func (h *Handler) TagHandler(w http.ResponseWriter, r *http.Request) {
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}
	if req.UID == "" || req.DeviceID == "" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "uid and device_id are required"})
		return
	}

	result := h.engine.Dispatch(r.Context(), req)

	code := http.StatusOK
	if !result.Success {
		// business rejections still answer 200; the result carries the reason
		log.Infof("tag rejected for uid %s: %s", req.UID, result.Error)
	}
	h.CreateResponse(w, Response{Code: code, Data: result})
}

func (h *Handler) RegisterUIDHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID        string `json:"uid"`
		UserID     string `json:"user_id"`
		DeviceType string `json:"device_type"`
		DeviceName string `json:"device_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	if !h.engine.RegisterUID(req.UID, req.UserID, req.DeviceType, req.DeviceName) {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "uid and user_id are required"})
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Message: "registration created, pending approval"})
}

func (h *Handler) ApproveUIDHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID string `json:"uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	if !h.engine.ApproveUID(req.UID) {
		h.CreateResponse(w, Response{Code: http.StatusNotFound, Error: "no registration for uid"})
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Message: "uid approved"})
}

// roleParam reads an optional role query parameter, rejecting unknown
// role names.
func roleParam(r *http.Request) (models.Role, bool) {
	role := models.Role(r.URL.Query().Get("role"))
	if role != "" && !models.ValidRole(role) {
		return "", false
	}
	return role, true
}

func (h *Handler) LogsHandler(w http.ResponseWriter, r *http.Request) {
	role, ok := roleParam(r)
	if !ok {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "unknown role"})
		return
	}

	filter := models.LogFilter{
		UserID:   r.URL.Query().Get("user_id"),
		UserRole: role,
		DeviceID: r.URL.Query().Get("device_id"),
	}
	if v := r.URL.Query().Get("start"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartDate = &ts
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndDate = &ts
		}
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h.engine.GetLogs(filter)})
}

func (h *Handler) DevicesHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h.engine.GetDevices()})
}

func (h *Handler) RegistrationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h.engine.GetUIDRegistrations(userID)})
}

func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	role, ok := roleParam(r)
	if !ok {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "unknown role"})
		return
	}

	filter := models.LogFilter{
		UserID:   r.URL.Query().Get("user_id"),
		UserRole: role,
		DeviceID: r.URL.Query().Get("device_id"),
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h.engine.GetTaggingStats(filter)})
}

func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: h.engine.GetSystemStatus()})
}

// AccessCheckHandler answers the portal's page/data authorization
// queries.
func (h *Handler) AccessCheckHandler(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if !models.ValidRole(role) {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "unknown role"})
		return
	}

	page := r.URL.Query().Get("page")
	function := r.URL.Query().Get("function")
	dataType := r.URL.Query().Get("data_type")

	var allowed bool
	switch {
	case page != "":
		allowed = service.CheckPermission(role, page, function)
	case dataType != "":
		allowed = service.CheckDataAccess(role, dataType)
	default:
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "page or data_type is required"})
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: map[string]bool{"allowed": allowed}})
}
