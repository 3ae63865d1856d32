package models

import (
	"time"
)

type TimeRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EmployeeID uint      `gorm:"not null;index:idx_time_records_employee_date" json:"employee_id"`
	Date       time.Time `gorm:"type:date;not null;index:idx_time_records_employee_date" json:"date"`

	CheckIn    time.Time  `gorm:"not null" json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	BreakStart *time.Time `json:"break_start"`
	BreakEnd   *time.Time `json:"break_end"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Employee Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (TimeRecord) TableName() string {
	return "time_records"
}

// RecordState is the position of an employee-day in the check-in/break cycle.
type RecordState string

const (
	StateNoRecord RecordState = "no_record"
	StateWorking  RecordState = "working"
	StateOnBreak  RecordState = "on_break"
	StateDone     RecordState = "done"
)

// DateOf returns the calendar day of t as midnight UTC, the form stored in Date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOpen reports whether the record has not been checked out yet.
func (tr *TimeRecord) IsOpen() bool {
	return tr.CheckOut == nil
}

// OnBreak reports whether a break was started and not ended.
func (tr *TimeRecord) OnBreak() bool {
	return tr.BreakStart != nil && tr.BreakEnd == nil
}

// State is safe to call on a nil record.
func (tr *TimeRecord) State() RecordState {
	switch {
	case tr == nil:
		return StateNoRecord
	case !tr.IsOpen():
		return StateDone
	case tr.OnBreak():
		return StateOnBreak
	default:
		return StateWorking
	}
}

// TotalHours is check-out minus check-in in fractional hours, or 0 if either is missing.
func (tr *TimeRecord) TotalHours() float64 {
	if tr.CheckIn.IsZero() || tr.CheckOut == nil {
		return 0
	}
	return tr.CheckOut.Sub(tr.CheckIn).Hours()
}

// BreakHours is break-end minus break-start in fractional hours, or 0 if either is missing.
func (tr *TimeRecord) BreakHours() float64 {
	if tr.BreakStart == nil || tr.BreakEnd == nil {
		return 0
	}
	return tr.BreakEnd.Sub(*tr.BreakStart).Hours()
}

// WorkedHours may be negative; callers decide how to display that.
func (tr *TimeRecord) WorkedHours() float64 {
	return tr.TotalHours() - tr.BreakHours()
}
