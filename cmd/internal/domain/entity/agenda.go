package entity

import (
	"strconv"
	"strings"
)

type Agenda struct {
	ID           int     `gorm:"primaryKey"`
	UserID       int     `gorm:"not null;index"` // References: users(id)
	Name         string  `gorm:"not null"`
	StartsOn     string  `gorm:"not null"` // YYYY-MM-DD
	EndsOn       string  `gorm:"not null"` // YYYY-MM-DD
	DefaultStart string  `gorm:"not null"`
	DefaultEnd   string  `gorm:"not null"`
	Weekdays     string  `gorm:"not null"` // comma separated, 0 = Monday
	ShareToken   *string `gorm:"uniqueIndex"`
	CreatedAt    int64   `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt    int64   `gorm:"not null;autoUpdateTime:milli"`
}

// VisibleWeekdays decodes the stored weekday list, skipping garbage entries.
func (a *Agenda) VisibleWeekdays() []int {
	if a.Weekdays == "" {
		return []int{}
	}
	parts := strings.Split(a.Weekdays, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	return days
}

// SetVisibleWeekdays encodes the weekday list into its stored form.
func (a *Agenda) SetVisibleWeekdays(days []int) {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	a.Weekdays = strings.Join(parts, ",")
}

// AgendaRate overrides a workplace hourly rate inside a single agenda.
type AgendaRate struct {
	ID          int     `gorm:"primaryKey"`
	AgendaID    int     `gorm:"not null;uniqueIndex:idx_agenda_rate"` // References: agendas(id)
	WorkplaceID int     `gorm:"not null;uniqueIndex:idx_agenda_rate"` // References: workplaces(id)
	HourlyRate  float64 `gorm:"not null"`
	CreatedAt   int64   `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt   int64   `gorm:"not null;autoUpdateTime:milli"`
}
