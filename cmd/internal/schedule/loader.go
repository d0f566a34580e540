package schedule

import (
	"fmt"
	"sort"
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils"
)

type AppointmentStore interface {
	FindByAgendaAndWeekday(agendaID, weekday int, excludeID *int) ([]*entity.Appointment, error)
}

// Slot is a stored appointment with its interval resolved to minutes.
type Slot struct {
	Appointment *entity.Appointment
	Start       int
	End         int
}

func (s Slot) WorkplaceID() int {
	return s.Appointment.WorkplaceID
}

// Loader reads the appointments of one weekday of an agenda.
type Loader struct {
	Appointments AppointmentStore
}

func NewLoader(appointments AppointmentStore) *Loader {
	return &Loader{Appointments: appointments}
}

// SameDayAppointments returns the appointments of (agendaID, weekday) sorted
// by start time, leaving out excludeID when set. A stored row with an
// unreadable time is reported as an error instead of being read as midnight.
func (l *Loader) SameDayAppointments(agendaID, weekday int, excludeID *int) ([]Slot, error) {
	appts, err := l.Appointments.FindByAgendaAndWeekday(agendaID, weekday, excludeID)
	if err != nil {
		return nil, fmt.Errorf("fetch appointments of agenda %d weekday %d: %w", agendaID, weekday, err)
	}

	slots := make([]Slot, 0, len(appts))
	for _, appt := range appts {
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}
		start, err := utils.ParseClock(appt.StartTime)
		if err != nil {
			return nil, fmt.Errorf("appointment %d start %q: %w", appt.ID, appt.StartTime, err)
		}
		end, err := utils.ParseClock(appt.EndTime)
		if err != nil {
			return nil, fmt.Errorf("appointment %d end %q: %w", appt.ID, appt.EndTime, err)
		}
		slots = append(slots, Slot{Appointment: appt, Start: start, End: end})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start < slots[j].Start
	})
	return slots, nil
}
