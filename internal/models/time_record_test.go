package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) *time.Time {
	t := time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestTimeRecord_State(t *testing.T) {
	var missing *TimeRecord
	assert.Equal(t, StateNoRecord, missing.State())

	record := &TimeRecord{CheckIn: *at(9, 0)}
	assert.Equal(t, StateWorking, record.State())

	record.BreakStart = at(12, 0)
	assert.Equal(t, StateOnBreak, record.State())

	record.BreakEnd = at(12, 30)
	assert.Equal(t, StateWorking, record.State())

	record.CheckOut = at(17, 0)
	assert.Equal(t, StateDone, record.State())
}

func TestTimeRecord_Hours(t *testing.T) {
	tests := []struct {
		name   string
		record TimeRecord
		total  float64
		brk    float64
		worked float64
	}{
		{"open", TimeRecord{CheckIn: *at(9, 0)}, 0, 0, 0},
		{"no break", TimeRecord{CheckIn: *at(9, 0), CheckOut: at(17, 0)}, 8, 0, 8},
		{"with break", TimeRecord{CheckIn: *at(9, 0), CheckOut: at(17, 0), BreakStart: at(12, 0), BreakEnd: at(12, 30)}, 8, 0.5, 7.5},
		{"unfinished break", TimeRecord{CheckIn: *at(9, 0), CheckOut: at(17, 0), BreakStart: at(12, 0)}, 8, 0, 8},
		{"break on open record", TimeRecord{CheckIn: *at(9, 0), BreakStart: at(10, 0), BreakEnd: at(11, 0)}, 0, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.total, tt.record.TotalHours(), 1e-9)
			assert.InDelta(t, tt.brk, tt.record.BreakHours(), 1e-9)
			assert.InDelta(t, tt.worked, tt.record.WorkedHours(), 1e-9)
		})
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	late := time.Date(2026, time.March, 2, 23, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), DateOf(late))
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), DateOf(late.UTC()))
}

func TestEmployee_PositionOr(t *testing.T) {
	position := "Chef"
	assert.Equal(t, "Chef", (&Employee{Position: &position}).PositionOr("not informed"))
	assert.Equal(t, "not informed", (&Employee{}).PositionOr("not informed"))
}
