package model

// StatusCount is one (employee, status) bucket of attendance records over a
// date range, as produced by the store's aggregation.
type StatusCount struct {
	EmployeeID  string           `bson:"employee_id" json:"employee_id"`
	Status      AttendanceStatus `bson:"status" json:"status"`
	Count       int              `bson:"count" json:"count"`
	WorkedHours float64          `bson:"worked_hours" json:"worked_hours"`
}

// DailySummary counts a company's attendance for one day. Total is the number
// of active employees; Absent includes employees without any record.
type DailySummary struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
	Excused int    `json:"excused"`
}

// MonthlySummary holds percentage rates (0-100, unrounded) over all records of
// a company for one month.
type MonthlySummary struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalRecords int     `json:"total_records"`
	PresentRate  float64 `json:"present_rate"`
	LateRate     float64 `json:"late_rate"`
	AbsentRate   float64 `json:"absent_rate"`
	ExcusedRate  float64 `json:"excused_rate"`
}

type EmployeeMonthlySummary struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Department     string  `json:"department"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	Absent         int     `json:"absent"`
	Excused        int     `json:"excused"`
	WorkedHours    float64 `json:"worked_hours"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// Total is the number of records counted for the employee.
func (s EmployeeMonthlySummary) Total() int {
	return s.Present + s.Late + s.Absent + s.Excused
}
