package schedule

import (
	"fmt"
	"strings"
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils"

	"github.com/go-playground/validator/v10"
)

// hoursEpsilon absorbs float noise when summing decimal durations.
const hoursEpsilon = 1e-9

const invalidDataReason = "Dados inválidos"

// Candidate is the full post-edit state of an appointment to be checked.
type Candidate struct {
	WorkplaceID   int     `json:"workplace_id" validate:"required,gt=0"`
	Weekday       int     `json:"weekday" validate:"min=0,max=6"`
	StartTime     string  `json:"start_time" validate:"required,clocktime"`
	EndTime       string  `json:"end_time" validate:"required,clocktime"`
	DurationHours float64 `json:"duration" validate:"gt=0"`
}

// FromAppointment builds the candidate describing a stored appointment.
func FromAppointment(appt *entity.Appointment) *Candidate {
	return &Candidate{
		WorkplaceID:   appt.WorkplaceID,
		Weekday:       appt.Weekday,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		DurationHours: appt.Duration,
	}
}

// Engine decides whether a candidate appointment fits a weekly agenda.
type Engine struct {
	Validator  *validator.Validate
	Workplaces WorkplaceStore
	resolver   *Resolver
	loader     *Loader
}

func NewEngine(workplaces WorkplaceStore, appointments AppointmentStore, validate *validator.Validate) *Engine {
	return &Engine{
		Validator:  validate,
		Workplaces: workplaces,
		resolver:   NewResolver(workplaces),
		loader:     NewLoader(appointments),
	}
}

// Validate checks candidate against the agenda owned by userID. It returns
// nil when the appointment may be stored, a *Violation naming the first rule
// it breaks, or any other error when the stores could not be read.
// excludeID is the appointment being edited, whose stored self is ignored.
//
// Rules run in a fixed order: invalid data, unknown workplace, continuous
// limit, overlap, daily limit, grace period, rest period.
func (e *Engine) Validate(agendaID int, candidate *Candidate, userID int, excludeID *int) error {
	if candidate == nil {
		return reject(RuleInvalidData, invalidDataReason)
	}
	if err := e.Validator.Struct(candidate); err != nil {
		return reject(RuleInvalidData, invalidDataReason)
	}

	start, err := utils.ParseClock(candidate.StartTime)
	if err != nil {
		return reject(RuleInvalidData, invalidDataReason)
	}
	end, err := utils.ParseClock(candidate.EndTime)
	if err != nil || end <= start {
		return reject(RuleInvalidData, invalidDataReason)
	}

	wp, err := e.Workplaces.FindByID(candidate.WorkplaceID)
	if err != nil {
		return fmt.Errorf("fetch workplace %d: %w", candidate.WorkplaceID, err)
	}
	if wp == nil || wp.UserID != userID {
		return reject(RuleUnknownWorkplace, "Local de trabalho não encontrado")
	}

	if candidate.DurationHours > MaxContinuousHours {
		return reject(RuleContinuousLimit, "Limite de trabalho contínuo excedido: máximo de 6 horas")
	}

	day, err := e.loader.SameDayAppointments(agendaID, candidate.Weekday, excludeID)
	if err != nil {
		return err
	}

	if v := checkOverlap(day, start, end); v != nil {
		return v
	}

	group, err := e.resolver.groupOf(wp, userID)
	if err != nil {
		return err
	}

	if v := checkDailyLimit(day, group, candidate.DurationHours); v != nil {
		return v
	}

	if v := checkGracePeriod(day, group, wp, start, end); v != nil {
		return v
	}

	prevDay, err := e.loader.SameDayAppointments(agendaID, PreviousWeekday(candidate.Weekday), excludeID)
	if err != nil {
		return err
	}
	nextDay, err := e.loader.SameDayAppointments(agendaID, NextWeekday(candidate.Weekday), excludeID)
	if err != nil {
		return err
	}
	return checkRestPeriod(prevDay, nextDay, start, end)
}

// PreviousWeekday wraps Monday (0) back to Sunday (6).
func PreviousWeekday(weekday int) int {
	return (weekday + 6) % 7
}

// NextWeekday wraps Sunday (6) forward to Monday (0).
func NextWeekday(weekday int) int {
	return (weekday + 1) % 7
}

func checkOverlap(day []Slot, start, end int) error {
	for _, s := range day {
		if start < s.End && end > s.Start {
			return reject(RuleOverlap, fmt.Sprintf(
				"Conflito de horário com o compromisso das %s às %s",
				utils.FormatClock(s.Start), utils.FormatClock(s.End)))
		}
	}
	return nil
}

func checkDailyLimit(day []Slot, group Group, duration float64) error {
	total := duration
	for _, s := range day {
		if group.Contains(s.WorkplaceID()) {
			total += s.Appointment.Duration
		}
	}
	if total <= MaxDailyHours+hoursEpsilon {
		return nil
	}
	return reject(RuleDailyLimit, fmt.Sprintf(
		"Limite diário de 8 horas excedido para os locais %s: total de %.1f horas",
		strings.Join(group.Names(), ", "), total))
}

func checkGracePeriod(day []Slot, group Group, wp *entity.Workplace, start, end int) error {
	var prev, next *Slot
	for i := range day {
		s := &day[i]
		if s.End <= start && (prev == nil || s.End > prev.End) {
			prev = s
		}
		if s.Start >= end && (next == nil || s.Start < next.Start) {
			next = s
		}
	}

	grace := wp.GracePeriodMinutes
	if prev != nil && !exemptFromGrace(prev, group, wp) {
		if gap := start - prev.End; gap < grace {
			return graceViolation(gap, grace)
		}
	}
	if next != nil && !exemptFromGrace(next, group, wp) {
		if gap := next.Start - end; gap < grace {
			return graceViolation(gap, grace)
		}
	}
	return nil
}

func exemptFromGrace(neighbor *Slot, group Group, wp *entity.Workplace) bool {
	return neighbor.WorkplaceID() == wp.ID || group.Contains(neighbor.WorkplaceID())
}

func graceViolation(gap, grace int) *Violation {
	return reject(RuleGracePeriod, fmt.Sprintf(
		"Período de carência não respeitado: intervalo de %d minutos, mínimo de %d minutos entre locais diferentes",
		gap, grace))
}

func checkRestPeriod(prevDay, nextDay []Slot, start, end int) error {
	if len(prevDay) > 0 {
		last := prevDay[len(prevDay)-1]
		if rest := (utils.MinutesPerDay - last.End) + start; rest < MinRestMinutes {
			return reject(RuleRestPeriod, fmt.Sprintf(
				"Descanso mínimo de 11 horas entre dias não respeitado: %d minutos desde o dia anterior", rest))
		}
	}
	if len(nextDay) > 0 {
		first := nextDay[0]
		if rest := (utils.MinutesPerDay - end) + first.Start; rest < MinRestMinutes {
			return reject(RuleRestPeriod, fmt.Sprintf(
				"Descanso mínimo de 11 horas entre dias não respeitado: %d minutos até o dia seguinte", rest))
		}
	}
	return nil
}
