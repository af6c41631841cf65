package handler

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shinobi-rh/internal/auth"
	"shinobi-rh/internal/model"
	"shinobi-rh/internal/report"
	"shinobi-rh/internal/service"
)

type AttendanceHandler struct {
	svc  *service.AttendanceService
	auth *Authenticator
	loc  *time.Location
	now  func() time.Time

	trustProxy bool
}

// NewAttendanceHandler builds the attendance endpoints. With trustProxy set,
// the audit IP of a check-in is read from X-Forwarded-For.
func NewAttendanceHandler(svc *service.AttendanceService, authn *Authenticator, loc *time.Location, trustProxy bool) *AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceHandler{svc: svc, auth: authn, loc: loc, now: time.Now, trustProxy: trustProxy}
}

// CheckRequest is the body of check-in and check-out calls. Only managers
// may set EmployeeID, Date or Time; employees always act on themselves, now.
type CheckRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// resolveCheck fills in the target employee, date and clock for a check call.
func (h *AttendanceHandler) resolveCheck(r *http.Request) (*auth.Claims, string, string, model.Clock, error) {
	claims := auth.FromContext(r.Context())
	var req CheckRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, "", "", "", fmt.Errorf("%w: %v", errBadRequest, err)
	}

	now := h.now().In(h.loc)
	employeeID := claims.EmployeeID
	date := now.Format(time.DateOnly)
	at := model.ClockOf(now)

	if claims.IsManager() {
		if req.EmployeeID != "" {
			employeeID = req.EmployeeID
		}
		if req.Date != "" {
			date = req.Date
		}
		if req.Time != "" {
			c, err := model.ParseClock(req.Time)
			if err != nil {
				return nil, "", "", "", fmt.Errorf("%w %q", service.ErrInvalidTime, req.Time)
			}
			at = c
		}
	} else if req.EmployeeID != "" && req.EmployeeID != claims.EmployeeID {
		return nil, "", "", "", service.ErrForbidden
	}

	if employeeID == "" {
		return nil, "", "", "", service.ErrEmployeeNotFound
	}
	return claims, employeeID, date, at, nil
}

// HandleCheckIn handles POST /api/attendance/check-in.
func (h *AttendanceHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	claims, employeeID, date, at, err := h.resolveCheck(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, err := h.svc.CheckIn(r.Context(), claims.CompanyID, employeeID, date, at, model.CheckInMeta{
		IPAddress:  clientIP(r, h.trustProxy),
		DeviceInfo: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, record)
}

// HandleCheckOut handles POST /api/attendance/check-out.
func (h *AttendanceHandler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	claims, employeeID, date, at, err := h.resolveCheck(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, err := h.svc.CheckOut(r.Context(), claims.CompanyID, employeeID, date, at)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, record)
}

// HandleToday returns the caller's record for today, creating the daily
// placeholder if needed.
func (h *AttendanceHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	employeeID := claims.EmployeeID
	if claims.IsManager() {
		if id := r.URL.Query().Get("employee_id"); id != "" {
			employeeID = id
		}
	}
	if employeeID == "" {
		writeError(w, r, service.ErrEmployeeNotFound)
		return
	}

	date := h.now().In(h.loc).Format(time.DateOnly)
	record, err := h.svc.EnsureDailyRecord(r.Context(), claims.CompanyID, employeeID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, record)
}

// HandleHistory handles GET /api/attendance?from=&to=&employee_id=.
// Employees only ever see their own records.
func (h *AttendanceHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	q := r.URL.Query()

	today := h.now().In(h.loc)
	from := q.Get("from")
	if from == "" {
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, h.loc).Format(time.DateOnly)
	}
	to := q.Get("to")
	if to == "" {
		to = today.Format(time.DateOnly)
	}

	employeeID := q.Get("employee_id")
	if !claims.IsManager() {
		if claims.EmployeeID == "" {
			writeError(w, r, service.ErrForbidden)
			return
		}
		employeeID = claims.EmployeeID
	}

	records, err := h.svc.History(r.Context(), claims.CompanyID, employeeID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*model.AttendanceRecord{}
	}
	writeJSON(w, records)
}

// HandleJustify handles PATCH /api/attendance/{id}/justification.
func (h *AttendanceHandler) HandleJustify(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	var in service.JustifyInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	actor := service.Actor{
		UserID:     claims.Subject,
		EmployeeID: claims.EmployeeID,
		Manager:    claims.IsManager(),
	}
	record, err := h.svc.Justify(r.Context(), claims.CompanyID, r.PathValue("id"), actor, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, record)
}

// HandleMarkAbsentees handles POST /api/attendance/absentees.
func (h *AttendanceHandler) HandleMarkAbsentees(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	var req struct {
		Date string `json:"date"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.Date == "" {
		req.Date = h.now().In(h.loc).Format(time.DateOnly)
	}

	created, err := h.svc.MarkAbsentees(r.Context(), claims.CompanyID, req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"date": req.Date, "created": created})
}

// HandleDailySummary handles GET /api/attendance/summary/daily?date=.
func (h *AttendanceHandler) HandleDailySummary(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().In(h.loc).Format(time.DateOnly)
	}

	summary, err := h.svc.DailySummary(r.Context(), claims.CompanyID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// HandleMonthlySummary handles GET /api/attendance/summary/monthly?year=&month=.
func (h *AttendanceHandler) HandleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	year, month, err := h.period(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.svc.MonthlySummary(r.Context(), claims.CompanyID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// HandleEmployeeSummary handles GET /api/attendance/summary/employees?year=&month=.
func (h *AttendanceHandler) HandleEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	year, month, err := h.period(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	lines, err := h.svc.EmployeeMonthlySummary(r.Context(), claims.CompanyID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, lines)
}

// HandleReport handles GET /api/attendance/report?year=&month=&format=.
// The file is rendered in memory so that a failure still yields a JSON error.
func (h *AttendanceHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	year, month, err := h.period(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rawFormat := r.URL.Query().Get("format")
	if rawFormat == "" {
		rawFormat = string(report.FormatXLSX)
	}
	format, err := report.ParseFormat(rawFormat)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "attendance.err.invalid_format", map[string]any{"Format": rawFormat})
		return
	}

	lines, err := h.svc.EmployeeMonthlySummary(r.Context(), claims.CompanyID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rep := &report.MonthlyReport{Year: year, Month: month, Lines: lines, GeneratedAt: h.now().In(h.loc)}
	var buf bytes.Buffer
	if err := report.Write(r.Context(), &buf, format, rep); err != nil {
		writeError(w, r, fmt.Errorf("render report: %w", err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename(format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// period reads year and month from the query, defaulting to the current month.
func (h *AttendanceHandler) period(r *http.Request) (int, int, error) {
	now := h.now().In(h.loc)
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: year %q", service.ErrInvalidPeriod, v)
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: month %q", service.ErrInvalidPeriod, v)
		}
		month = n
	}
	return year, month, nil
}

// RegisterRoutes registers all attendance routes on the given mux.
func (h *AttendanceHandler) RegisterRoutes(mux *http.ServeMux) {
	managers := []string{auth.RoleAdmin, auth.RoleManager}

	mux.Handle("POST /api/attendance/check-in", h.auth.Require(h.HandleCheckIn))
	mux.Handle("POST /api/attendance/check-out", h.auth.Require(h.HandleCheckOut))
	mux.Handle("GET /api/attendance/today", h.auth.Require(h.HandleToday))
	mux.Handle("GET /api/attendance", h.auth.Require(h.HandleHistory))
	mux.Handle("PATCH /api/attendance/{id}/justification", h.auth.Require(h.HandleJustify))
	mux.Handle("POST /api/attendance/absentees", h.auth.Require(h.HandleMarkAbsentees, managers...))
	mux.Handle("GET /api/attendance/summary/daily", h.auth.Require(h.HandleDailySummary, managers...))
	mux.Handle("GET /api/attendance/summary/monthly", h.auth.Require(h.HandleMonthlySummary, managers...))
	mux.Handle("GET /api/attendance/summary/employees", h.auth.Require(h.HandleEmployeeSummary, managers...))
	mux.Handle("GET /api/attendance/report", h.auth.Require(h.HandleReport, managers...))
}

// clientIP returns the socket address of the caller, or the first
// X-Forwarded-For hop when the service runs behind a trusted proxy.
func clientIP(r *http.Request, trustProxy bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
