package models

import "time"

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02T15:04:05"
)

// EmployeeResponse is the public view of an employee.
type EmployeeResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Position *string `json:"position"`
}

// TimeRecordResponse is the public view of a time record. Timestamps are
// rendered as local wall-clock time without an offset.
type TimeRecordResponse struct {
	ID         uint    `json:"id"`
	EmployeeID uint    `json:"employee_id"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}

func NewEmployeeResponse(e *Employee) EmployeeResponse {
	return EmployeeResponse{ID: e.ID, Name: e.Name, Position: e.Position}
}

func NewTimeRecordResponse(tr *TimeRecord, loc *time.Location) TimeRecordResponse {
	var checkIn *string
	if !tr.CheckIn.IsZero() {
		checkIn = formatTimestamp(&tr.CheckIn, loc)
	}

	return TimeRecordResponse{
		ID:         tr.ID,
		EmployeeID: tr.EmployeeID,
		Date:       tr.Date.Format(isoDate),
		CheckIn:    checkIn,
		CheckOut:   formatTimestamp(tr.CheckOut, loc),
		BreakStart: formatTimestamp(tr.BreakStart, loc),
		BreakEnd:   formatTimestamp(tr.BreakEnd, loc),
	}
}

func formatTimestamp(t *time.Time, loc *time.Location) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	if loc != nil {
		s := t.In(loc).Format(isoDateTime)
		return &s
	}
	s := t.Format(isoDateTime)
	return &s
}
