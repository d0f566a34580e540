package service

import (
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	defaultDayStart = "07:00"
	defaultDayEnd   = "23:00"
)

// Monday through Saturday.
var defaultWeekdays = []int{0, 1, 2, 3, 4, 5}

type AgendaRepository interface {
	FindByID(id int) (*entity.Agenda, error)
	FindByShareToken(token string) (*entity.Agenda, error)
	FindByUserID(userID int) ([]*entity.Agenda, error)
	Save(agenda *entity.Agenda) error
	Delete(agenda *entity.Agenda) error
	FindRates(agendaID int) ([]*entity.AgendaRate, error)
	SaveRate(rate *entity.AgendaRate) error
}

type AgendaRequest struct {
	Name         string  `json:"name" validate:"required,max=80"`
	StartsOn     string  `json:"starts_on" validate:"required,isodate"`
	EndsOn       string  `json:"ends_on" validate:"required,isodate"`
	DefaultStart *string `json:"default_start" validate:"omitempty,clocktime"`
	DefaultEnd   *string `json:"default_end" validate:"omitempty,clocktime"`
	Weekdays     []int   `json:"weekdays" validate:"omitempty,unique,dive,min=0,max=6"`
}

type RateRequest struct {
	HourlyRate *float64 `json:"hourly_rate" validate:"required,gte=0"`
}

type AgendaResponse struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	StartsOn     string  `json:"starts_on"`
	EndsOn       string  `json:"ends_on"`
	DefaultStart string  `json:"default_start"`
	DefaultEnd   string  `json:"default_end"`
	Weekdays     []int   `json:"weekdays"`
	ShareToken   *string `json:"share_token,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type RateResponse struct {
	WorkplaceID int     `json:"workplace_id"`
	HourlyRate  float64 `json:"hourly_rate"`
	Overridden  bool    `json:"overridden"`
}

type PublicWorkplace struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PublicAgendaResponse is the read-only view served through a share link.
// Rates and owner data are left out.
type PublicAgendaResponse struct {
	Name         string                 `json:"name"`
	StartsOn     string                 `json:"starts_on"`
	EndsOn       string                 `json:"ends_on"`
	DefaultStart string                 `json:"default_start"`
	DefaultEnd   string                 `json:"default_end"`
	Weekdays     []int                  `json:"weekdays"`
	Workplaces   []*PublicWorkplace     `json:"workplaces"`
	Appointments []*AppointmentResponse `json:"appointments"`
}

type DefaultAgendaService struct {
	AgendaRepo      AgendaRepository
	WorkplaceRepo   WorkplaceRepository
	AppointmentRepo AppointmentRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
}

func NewAgendaService(agendaRepo AgendaRepository, wpRepo WorkplaceRepository, apptRepo AppointmentRepository, userRepo UserRepository, validate *validator.Validate) *DefaultAgendaService {
	return &DefaultAgendaService{
		AgendaRepo:      agendaRepo,
		WorkplaceRepo:   wpRepo,
		AppointmentRepo: apptRepo,
		UserRepo:        userRepo,
		Validate:        validate,
	}
}

func (a *DefaultAgendaService) GetAgendas(sub string) ([]*AgendaResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agendas, err := a.AgendaRepo.FindByUserID(caller.ID)
	if err != nil {
		log.Errorf("failed to find agendas for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*AgendaResponse, len(agendas))
	for i, agenda := range agendas {
		resp[i] = toAgendaResponse(agenda)
	}
	return resp, nil
}

func (a *DefaultAgendaService) GetAgenda(id int, sub string) (*AgendaResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, id, caller.ID)
	if apierr != nil {
		return nil, apierr
	}
	return toAgendaResponse(agenda), nil
}

func (a *DefaultAgendaService) CreateAgenda(req *AgendaRequest, sub string) (*AgendaResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := a.validateAgenda(req); apierr != nil {
		return nil, apierr
	}

	agenda := &entity.Agenda{UserID: caller.ID}
	applyAgendaRequest(agenda, req)

	if err := a.AgendaRepo.Save(agenda); err != nil {
		log.Errorf("failed to save agenda for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAgendaResponse(agenda), nil
}

func (a *DefaultAgendaService) UpdateAgenda(id int, req *AgendaRequest, sub string) (*AgendaResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, id, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := a.validateAgenda(req); apierr != nil {
		return nil, apierr
	}

	applyAgendaRequest(agenda, req)
	if err := a.AgendaRepo.Save(agenda); err != nil {
		log.Errorf("failed to update agenda %d: %v", agenda.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAgendaResponse(agenda), nil
}

// DeleteAgenda drops the agenda together with its appointments and rates.
func (a *DefaultAgendaService) DeleteAgenda(id int, sub string) apierror.ErrorResponse {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, id, caller.ID)
	if apierr != nil {
		return apierr
	}

	if err := a.AgendaRepo.Delete(agenda); err != nil {
		log.Errorf("failed to delete agenda %d: %v", agenda.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// GetRates lists the effective hourly rate of every workplace of the caller
// inside the agenda.
func (a *DefaultAgendaService) GetRates(id int, sub string) ([]*RateResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, id, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	wps, err := a.WorkplaceRepo.FindByUserID(caller.ID)
	if err != nil {
		log.Errorf("failed to find workplaces for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	overrides, apierr := a.rateOverrides(agenda.ID)
	if apierr != nil {
		return nil, apierr
	}

	resp := make([]*RateResponse, len(wps))
	for i, wp := range wps {
		rate, overridden := overrides[wp.ID]
		if !overridden {
			rate = wp.HourlyRate
		}
		resp[i] = &RateResponse{WorkplaceID: wp.ID, HourlyRate: rate, Overridden: overridden}
	}
	return resp, nil
}

func (a *DefaultAgendaService) SetRate(id, workplaceID int, req *RateRequest, sub string) (*RateResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, id, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	wp, err := a.WorkplaceRepo.FindByID(workplaceID)
	if err != nil {
		log.Errorf("failed to fetch workplace %d: %v", workplaceID, err)
		return nil, apierror.InternalServerError
	}

	if wp == nil || wp.UserID != caller.ID {
		return nil, apierror.NotFoundError
	}

	rate := &entity.AgendaRate{AgendaID: agenda.ID, WorkplaceID: wp.ID, HourlyRate: *req.HourlyRate}
	if err := a.AgendaRepo.SaveRate(rate); err != nil {
		log.Errorf("failed to save rate of workplace %d in agenda %d: %v", wp.ID, agenda.ID, err)
		return nil, apierror.InternalServerError
	}
	return &RateResponse{WorkplaceID: wp.ID, HourlyRate: rate.HourlyRate, Overridden: true}, nil
}

// ShareAgenda hands out the public token of the agenda, minting one on first use.
func (a *DefaultAgendaService) ShareAgenda(id int, sub string) (*AgendaResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, id, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	if agenda.ShareToken != nil {
		return toAgendaResponse(agenda), nil
	}

	token := uuid.NewString()
	agenda.ShareToken = &token
	if err := a.AgendaRepo.Save(agenda); err != nil {
		log.Errorf("failed to share agenda %d: %v", agenda.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAgendaResponse(agenda), nil
}

func (a *DefaultAgendaService) UnshareAgenda(id int, sub string) apierror.ErrorResponse {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, id, caller.ID)
	if apierr != nil {
		return apierr
	}

	if agenda.ShareToken == nil {
		return nil
	}

	agenda.ShareToken = nil
	if err := a.AgendaRepo.Save(agenda); err != nil {
		log.Errorf("failed to unshare agenda %d: %v", agenda.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (a *DefaultAgendaService) GetPublicAgenda(token string) (*PublicAgendaResponse, apierror.ErrorResponse) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, apierror.NotFoundError
	}

	agenda, err := a.AgendaRepo.FindByShareToken(token)
	if err != nil {
		log.Errorf("failed to fetch shared agenda: %v", err)
		return nil, apierror.InternalServerError
	}

	if agenda == nil {
		return nil, apierror.NotFoundError
	}

	appts, err := a.AppointmentRepo.FindByAgendaID(agenda.ID)
	if err != nil {
		log.Errorf("failed to find appointments of agenda %d: %v", agenda.ID, err)
		return nil, apierror.InternalServerError
	}

	wps, err := a.WorkplaceRepo.FindByUserID(agenda.UserID)
	if err != nil {
		log.Errorf("failed to find workplaces for user %d: %v", agenda.UserID, err)
		return nil, apierror.InternalServerError
	}

	resp := &PublicAgendaResponse{
		Name:         agenda.Name,
		StartsOn:     agenda.StartsOn,
		EndsOn:       agenda.EndsOn,
		DefaultStart: agenda.DefaultStart,
		DefaultEnd:   agenda.DefaultEnd,
		Weekdays:     agenda.VisibleWeekdays(),
		Workplaces:   make([]*PublicWorkplace, len(wps)),
		Appointments: make([]*AppointmentResponse, len(appts)),
	}
	for i, wp := range wps {
		resp.Workplaces[i] = &PublicWorkplace{ID: wp.ID, Name: wp.Name, Color: wp.Color}
	}
	for i, appt := range appts {
		resp.Appointments[i] = toAppointmentResponse(appt)
	}
	return resp, nil
}

func (a *DefaultAgendaService) rateOverrides(agendaID int) (map[int]float64, apierror.ErrorResponse) {
	rates, err := a.AgendaRepo.FindRates(agendaID)
	if err != nil {
		log.Errorf("failed to find rates of agenda %d: %v", agendaID, err)
		return nil, apierror.InternalServerError
	}

	overrides := make(map[int]float64, len(rates))
	for _, r := range rates {
		overrides[r.WorkplaceID] = r.HourlyRate
	}
	return overrides, nil
}

func (a *DefaultAgendaService) validateAgenda(req *AgendaRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	// ISO dates order lexicographically.
	if req.EndsOn <= req.StartsOn {
		return apierror.NewInvalidFieldError("ends_on", "must be after starts_on")
	}

	start, end := defaultDayStart, defaultDayEnd
	if req.DefaultStart != nil {
		start = *req.DefaultStart
	}
	if req.DefaultEnd != nil {
		end = *req.DefaultEnd
	}
	if utils.ToMinutes(end) <= utils.ToMinutes(start) {
		return apierror.NewInvalidFieldError("default_end", "must be after default_start")
	}
	return nil
}

// ownedAgenda fetches the agenda, hiding the ones of other users.
func ownedAgenda(repo AgendaRepository, id, userID int) (*entity.Agenda, apierror.ErrorResponse) {
	agenda, err := repo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch agenda %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if agenda == nil || agenda.UserID != userID {
		return nil, apierror.NotFoundError
	}
	return agenda, nil
}

func applyAgendaRequest(agenda *entity.Agenda, req *AgendaRequest) {
	agenda.Name = req.Name
	agenda.StartsOn = req.StartsOn
	agenda.EndsOn = req.EndsOn

	agenda.DefaultStart = defaultDayStart
	if req.DefaultStart != nil {
		agenda.DefaultStart, _ = utils.NormalizeClock(*req.DefaultStart)
	}
	agenda.DefaultEnd = defaultDayEnd
	if req.DefaultEnd != nil {
		agenda.DefaultEnd, _ = utils.NormalizeClock(*req.DefaultEnd)
	}

	weekdays := req.Weekdays
	if len(weekdays) == 0 {
		weekdays = defaultWeekdays
	}
	agenda.SetVisibleWeekdays(weekdays)
}

func toAgendaResponse(agenda *entity.Agenda) *AgendaResponse {
	return &AgendaResponse{
		ID:           agenda.ID,
		Name:         agenda.Name,
		StartsOn:     agenda.StartsOn,
		EndsOn:       agenda.EndsOn,
		DefaultStart: agenda.DefaultStart,
		DefaultEnd:   agenda.DefaultEnd,
		Weekdays:     agenda.VisibleWeekdays(),
		ShareToken:   agenda.ShareToken,
		CreatedAt:    utils.FormatEpoch(agenda.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(agenda.UpdatedAt),
	}
}
