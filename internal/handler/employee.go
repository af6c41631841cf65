package handler

import (
	"fmt"
	"net/http"

	"shinobi-rh/internal/auth"
	"shinobi-rh/internal/model"
	"shinobi-rh/internal/service"
)

type EmployeeHandler struct {
	svc  *service.EmployeeService
	auth *Authenticator
}

func NewEmployeeHandler(svc *service.EmployeeService, authn *Authenticator) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, auth: authn}
}

// HandleList handles GET /api/employees.
func (h *EmployeeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	employees, err := h.svc.List(r.Context(), claims.CompanyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if employees == nil {
		employees = []*model.Employee{}
	}
	writeJSON(w, employees)
}

// HandleGet handles GET /api/employees/{id}. Employees may only read their
// own profile.
func (h *EmployeeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	id := r.PathValue("id")
	if !claims.IsManager() && id != claims.EmployeeID {
		writeError(w, r, service.ErrForbidden)
		return
	}

	emp, err := h.svc.Get(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, emp)
}

// HandleCreate handles POST /api/employees.
func (h *EmployeeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	var in service.EmployeeInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	emp, err := h.svc.Register(r.Context(), claims.CompanyID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, emp)
}

// HandleAssignSchedule handles PUT /api/employees/{id}/schedule.
func (h *EmployeeHandler) HandleAssignSchedule(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	var req struct {
		ScheduleID string `json:"schedule_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	id := r.PathValue("id")
	if err := h.svc.AssignSchedule(r.Context(), claims.CompanyID, id, req.ScheduleID); err != nil {
		writeError(w, r, err)
		return
	}
	emp, err := h.svc.Get(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, emp)
}

func (h *EmployeeHandler) RegisterRoutes(mux *http.ServeMux) {
	managers := []string{auth.RoleAdmin, auth.RoleManager}

	mux.Handle("GET /api/employees", h.auth.Require(h.HandleList, managers...))
	mux.Handle("GET /api/employees/{id}", h.auth.Require(h.HandleGet))
	mux.Handle("POST /api/employees", h.auth.Require(h.HandleCreate, managers...))
	mux.Handle("PUT /api/employees/{id}/schedule", h.auth.Require(h.HandleAssignSchedule, managers...))
}
