package service

import (
	"sort"
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type ReportPeriod string

const (
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
)

// weeksPerMonth is the flat multiplier used for monthly projections.
const weeksPerMonth = 4

type WorkplaceReport struct {
	WorkplaceID int     `json:"workplace_id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	HourlyRate  float64 `json:"hourly_rate"`
	BaseHours   float64 `json:"base_hours"`
	AddOnHours  float64 `json:"add_on_hours"`
	TotalHours  float64 `json:"total_hours"`
	TotalValue  float64 `json:"total_value"`
}

type ReportResponse struct {
	Period     ReportPeriod       `json:"period"`
	Workplaces []*WorkplaceReport `json:"workplaces"`
	TotalHours float64            `json:"total_hours"`
	TotalValue float64            `json:"total_value"`
}

type DefaultReportService struct {
	AgendaRepo      AgendaRepository
	AppointmentRepo AppointmentRepository
	WorkplaceRepo   WorkplaceRepository
	UserRepo        UserRepository
}

func NewReportService(agendaRepo AgendaRepository, apptRepo AppointmentRepository, wpRepo WorkplaceRepository, userRepo UserRepository) *DefaultReportService {
	return &DefaultReportService{
		AgendaRepo:      agendaRepo,
		AppointmentRepo: apptRepo,
		WorkplaceRepo:   wpRepo,
		UserRepo:        userRepo,
	}
}

func (r *DefaultReportService) GetReport(agendaID int, period ReportPeriod, sub string) (*ReportResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(r.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(r.AgendaRepo, agendaID, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	appts, err := r.AppointmentRepo.FindByAgendaID(agenda.ID)
	if err != nil {
		log.Errorf("failed to find appointments of agenda %d: %v", agenda.ID, err)
		return nil, apierror.InternalServerError
	}

	wps, err := r.WorkplaceRepo.FindByUserID(caller.ID)
	if err != nil {
		log.Errorf("failed to find workplaces for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	rates, err := r.AgendaRepo.FindRates(agenda.ID)
	if err != nil {
		log.Errorf("failed to find rates of agenda %d: %v", agenda.ID, err)
		return nil, apierror.InternalServerError
	}

	report := BuildWeeklyReport(appts, wps, rates)
	if period == PeriodMonthly {
		report = report.scale(PeriodMonthly, weeksPerMonth)
	}
	return report, nil
}

// BuildWeeklyReport sums one week of appointments per workplace. Class hours
// (HA) earn extra hours worth the workplace add-on percent, and an agenda
// rate overrides the workplace hourly rate. Workplaces without appointments
// are left out.
func BuildWeeklyReport(appts []*entity.Appointment, wps []*entity.Workplace, rates []*entity.AgendaRate) *ReportResponse {
	byID := make(map[int]*entity.Workplace, len(wps))
	for _, wp := range wps {
		byID[wp.ID] = wp
	}
	overrides := make(map[int]float64, len(rates))
	for _, rate := range rates {
		overrides[rate.WorkplaceID] = rate.HourlyRate
	}

	lines := make(map[int]*WorkplaceReport)
	for _, appt := range appts {
		wp, ok := byID[appt.WorkplaceID]
		if !ok {
			continue
		}

		line, ok := lines[wp.ID]
		if !ok {
			rate, overridden := overrides[wp.ID]
			if !overridden {
				rate = wp.HourlyRate
			}
			line = &WorkplaceReport{WorkplaceID: wp.ID, Name: wp.Name, Color: wp.Color, HourlyRate: rate}
			lines[wp.ID] = line
		}

		line.BaseHours += appt.Duration
		if appt.IsClassHour() {
			line.AddOnHours += appt.Duration * wp.ClassHourPercent / 100
		}
	}

	report := &ReportResponse{Period: PeriodWeekly, Workplaces: make([]*WorkplaceReport, 0, len(lines))}
	for _, line := range lines {
		line.TotalHours = line.BaseHours + line.AddOnHours
		line.TotalValue = line.TotalHours * line.HourlyRate
		report.TotalHours += line.TotalHours
		report.TotalValue += line.TotalValue
		report.Workplaces = append(report.Workplaces, line)
	}

	sort.Slice(report.Workplaces, func(i, j int) bool {
		a, b := report.Workplaces[i], report.Workplaces[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.WorkplaceID < b.WorkplaceID
	})
	return report
}

func (r *ReportResponse) scale(period ReportPeriod, factor float64) *ReportResponse {
	scaled := &ReportResponse{
		Period:     period,
		Workplaces: make([]*WorkplaceReport, len(r.Workplaces)),
		TotalHours: r.TotalHours * factor,
		TotalValue: r.TotalValue * factor,
	}
	for i, line := range r.Workplaces {
		scaled.Workplaces[i] = &WorkplaceReport{
			WorkplaceID: line.WorkplaceID,
			Name:        line.Name,
			Color:       line.Color,
			HourlyRate:  line.HourlyRate,
			BaseHours:   line.BaseHours * factor,
			AddOnHours:  line.AddOnHours * factor,
			TotalHours:  line.TotalHours * factor,
			TotalValue:  line.TotalValue * factor,
		}
	}
	return scaled
}
