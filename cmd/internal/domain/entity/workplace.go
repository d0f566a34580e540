package entity

// DefaultGracePeriod is the idle time, in minutes, required between
// appointments at unlinked workplaces when none is configured.
const DefaultGracePeriod = 60

type Workplace struct {
	ID                 int     `gorm:"primaryKey"`
	UserID             int     `gorm:"not null;index"` // References: users(id)
	Name               string  `gorm:"not null"`
	Color              string  `gorm:"not null"`
	HourlyRate         float64 `gorm:"not null"`
	ClassHourPercent   float64 `gorm:"not null"`
	GracePeriodMinutes int     `gorm:"not null"`
	RelatedTo          *int    `gorm:"index"` // References: workplaces(id)
	CreatedAt          int64   `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt          int64   `gorm:"not null;autoUpdateTime:milli"`
}

// IsSecondary reports whether the workplace hangs under a primary one.
func (w *Workplace) IsSecondary() bool {
	return w.RelatedTo != nil
}
