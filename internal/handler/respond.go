package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"shinobi-rh/internal/i18n"
	"shinobi-rh/internal/service"
)

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, messageID string, data map[string]any) {
	writeJSONStatus(w, status, map[string]string{"error": i18n.T(r.Context(), messageID, data)})
}

var errBadRequest = errors.New("malformed request")

// errorMapping ties service errors to a status and a message ID.
var errorMapping = []struct {
	err       error
	status    int
	messageID string
}{
	{service.ErrAlreadyCheckedIn, http.StatusConflict, "attendance.err.already_checked_in"},
	{service.ErrAlreadyCheckedOut, http.StatusConflict, "attendance.err.already_checked_out"},
	{service.ErrRecordChanged, http.StatusConflict, "attendance.err.record_changed"},
	{service.ErrNotCheckedIn, http.StatusUnprocessableEntity, "attendance.err.not_checked_in"},
	{service.ErrCheckOutBeforeCheckIn, http.StatusUnprocessableEntity, "attendance.err.checkout_before_checkin"},
	{service.ErrRecordNotFound, http.StatusNotFound, "attendance.err.record_not_found"},
	{service.ErrEmployeeNotFound, http.StatusNotFound, "attendance.err.employee_not_found"},
	{service.ErrScheduleNotFound, http.StatusNotFound, "attendance.err.schedule_not_found"},
	{service.ErrInvalidSchedule, http.StatusBadRequest, "attendance.err.invalid_schedule"},
	{service.ErrInvalidEmployee, http.StatusBadRequest, "attendance.err.invalid_employee"},
	{service.ErrInvalidDate, http.StatusBadRequest, "attendance.err.invalid_date"},
	{service.ErrInvalidTime, http.StatusBadRequest, "attendance.err.invalid_time"},
	{service.ErrInvalidPeriod, http.StatusBadRequest, "attendance.err.invalid_period"},
	{service.ErrForbidden, http.StatusForbidden, "attendance.err.forbidden"},
	{errBadRequest, http.StatusBadRequest, "attendance.err.bad_request"},
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			detail := strings.TrimPrefix(err.Error(), m.err.Error()+": ")
			writeMessage(w, r, m.status, m.messageID, map[string]any{"Detail": detail})
			return
		}
	}
	log.Printf("ERROR %s %s: %v", r.Method, r.URL.Path, err)
	writeMessage(w, r, http.StatusInternalServerError, "attendance.err.internal", nil)
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
