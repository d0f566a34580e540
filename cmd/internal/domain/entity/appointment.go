package entity

const (
	// HourTypeOrdinary tags ordinary work hours.
	HourTypeOrdinary = "HN"
	// HourTypeClass tags class hours, which earn the workplace add-on percent.
	HourTypeClass = "HA"
)

type Appointment struct {
	ID          int     `gorm:"primaryKey"`
	AgendaID    int     `gorm:"not null;index:idx_appointment_day,priority:1"` // References: agendas(id)
	WorkplaceID int     `gorm:"not null;index"`                                // References: workplaces(id)
	Weekday     int     `gorm:"not null;index:idx_appointment_day,priority:2"` // 0 = Monday
	StartTime   string  `gorm:"not null"`
	EndTime     string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	HourType    string  `gorm:"not null"`
	Duration    float64 `gorm:"not null"` // hours, supplied by the user
	CreatedAt   int64   `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt   int64   `gorm:"not null;autoUpdateTime:milli"`
}

// IsClassHour reports whether the appointment earns the class-hour add-on.
func (a *Appointment) IsClassHour() bool {
	return a.HourType == HourTypeClass
}
