package handler

import (
	"fmt"
	"net/http"

	"shinobi-rh/internal/auth"
	"shinobi-rh/internal/model"
	"shinobi-rh/internal/service"
)

type ScheduleHandler struct {
	svc  *service.ScheduleService
	auth *Authenticator
}

func NewScheduleHandler(svc *service.ScheduleService, authn *Authenticator) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, auth: authn}
}

// HandleList handles GET /api/schedules.
func (h *ScheduleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	schedules, err := h.svc.List(r.Context(), claims.CompanyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if schedules == nil {
		schedules = []*model.WorkSchedule{}
	}
	writeJSON(w, schedules)
}

// HandleCreate handles POST /api/schedules.
func (h *ScheduleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	var in service.ScheduleInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	sched, err := h.svc.Create(r.Context(), claims.CompanyID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, sched)
}

// HandleProvisionDefault handles POST /api/schedules/default.
func (h *ScheduleHandler) HandleProvisionDefault(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	sched, err := h.svc.ProvisionDefault(r.Context(), claims.CompanyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, sched)
}

func (h *ScheduleHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/schedules", h.auth.Require(h.HandleList))
	mux.Handle("POST /api/schedules", h.auth.Require(h.HandleCreate, auth.RoleAdmin, auth.RoleManager))
	mux.Handle("POST /api/schedules/default", h.auth.Require(h.HandleProvisionDefault, auth.RoleAdmin))
}
