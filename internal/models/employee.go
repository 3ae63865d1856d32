package models

import "time"

type Employee struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Position  *string   `gorm:"type:varchar(80)" json:"position"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	TimeRecords []TimeRecord `gorm:"foreignKey:EmployeeID" json:"-"`
}

// TableName sets the table name.
func (Employee) TableName() string {
	return "employees"
}

// PositionOr returns the position, or fallback when none was informed.
func (e *Employee) PositionOr(fallback string) string {
	if e.Position == nil || *e.Position == "" {
		return fallback
	}
	return *e.Position
}
