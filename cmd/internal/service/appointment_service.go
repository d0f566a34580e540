package service

import (
	"errors"
	"sync"
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/schedule"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	FindByID(id int) (*entity.Appointment, error)
	FindByAgendaID(agendaID int) ([]*entity.Appointment, error)
	FindByAgendaAndWeekday(agendaID, weekday int, excludeID *int) ([]*entity.Appointment, error)
	CountByWorkplaceID(workplaceID int) (int64, error)
	Save(appointment *entity.Appointment) error
	Delete(appointment *entity.Appointment) error
}

// ScheduleValidator accepts or rejects a candidate appointment, see
// schedule.Engine.
type ScheduleValidator interface {
	Validate(agendaID int, candidate *schedule.Candidate, userID int, excludeID *int) error
}

type AppointmentRequest struct {
	WorkplaceID *int     `json:"workplace_id" validate:"required,gt=0"`
	Weekday     *int     `json:"weekday" validate:"required,min=0,max=6"`
	StartTime   *string  `json:"start_time" validate:"required,clocktime"`
	EndTime     *string  `json:"end_time" validate:"required,clocktime"`
	Duration    *float64 `json:"duration" validate:"required,gt=0"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	HourType    *string  `json:"hour_type" validate:"omitempty,hourtype"`
}

// AppointmentPatch carries the fields of an edit; absent fields keep their
// stored value.
type AppointmentPatch struct {
	WorkplaceID *int     `json:"workplace_id" validate:"omitempty,gt=0"`
	Weekday     *int     `json:"weekday" validate:"omitempty,min=0,max=6"`
	StartTime   *string  `json:"start_time" validate:"omitempty,clocktime"`
	EndTime     *string  `json:"end_time" validate:"omitempty,clocktime"`
	Duration    *float64 `json:"duration" validate:"omitempty,gt=0"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	HourType    *string  `json:"hour_type" validate:"omitempty,hourtype"`
}

type AppointmentResponse struct {
	ID          int     `json:"id"`
	AgendaID    int     `json:"agenda_id"`
	WorkplaceID int     `json:"workplace_id"`
	Weekday     int     `json:"weekday"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
	HourType    string  `json:"hour_type"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CheckResponse struct {
	Accepted bool `json:"accepted"`
}

type DefaultAppointmentService struct {
	// writeMu serializes validate-then-save so two requests cannot both
	// pass the rules against the same snapshot.
	writeMu sync.Mutex

	AppointmentRepo AppointmentRepository
	AgendaRepo      AgendaRepository
	WorkplaceRepo   WorkplaceRepository
	UserRepo        UserRepository
	Schedule        ScheduleValidator
	Validate        *validator.Validate
}

func NewAppointmentService(apptRepo AppointmentRepository, agendaRepo AgendaRepository, wpRepo WorkplaceRepository, userRepo UserRepository, sched ScheduleValidator, validate *validator.Validate) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		AgendaRepo:      agendaRepo,
		WorkplaceRepo:   wpRepo,
		UserRepo:        userRepo,
		Schedule:        sched,
		Validate:        validate,
	}
}

func (a *DefaultAppointmentService) GetAppointments(agendaID int, sub string) ([]*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, agendaID, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	appts, err := a.AppointmentRepo.FindByAgendaID(agenda.ID)
	if err != nil {
		log.Errorf("failed to find appointments of agenda %d: %v", agenda.ID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) CreateAppointment(agendaID int, req *AppointmentRequest, sub string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, agendaID, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	appt := &entity.Appointment{AgendaID: agenda.ID, HourType: entity.HourTypeOrdinary}
	applyPatch(appt, req.patch())

	if apierr := a.checkWorkplace(appt.WorkplaceID, caller.ID); apierr != nil {
		return nil, apierr
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	if apierr := a.runSchedule(agenda.ID, appt, caller.ID, nil); apierr != nil {
		return nil, apierr
	}

	if err := normalizeTimes(appt); err != nil {
		return nil, apierror.InvalidDataError
	}

	if err := a.AppointmentRepo.Save(appt); err != nil {
		log.Errorf("failed to save appointment in agenda %d: %v", agenda.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// UpdateAppointment merges patch over the stored appointment and validates
// the result as a whole, ignoring the stored copy of itself.
func (a *DefaultAppointmentService) UpdateAppointment(id int, patch *AppointmentPatch, sub string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	appt, apierr := a.ownedAppointment(id, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(patch)
	if err := a.Validate.Struct(patch); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	applyPatch(appt, patch)

	if patch.WorkplaceID != nil {
		if apierr := a.checkWorkplace(appt.WorkplaceID, caller.ID); apierr != nil {
			return nil, apierr
		}
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	if apierr := a.runSchedule(appt.AgendaID, appt, caller.ID, &appt.ID); apierr != nil {
		return nil, apierr
	}

	if err := normalizeTimes(appt); err != nil {
		return nil, apierror.InvalidDataError
	}

	if err := a.AppointmentRepo.Save(appt); err != nil {
		log.Errorf("failed to update appointment %d: %v", appt.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) DeleteAppointment(id int, sub string) apierror.ErrorResponse {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return apierr
	}

	appt, apierr := a.ownedAppointment(id, caller.ID)
	if apierr != nil {
		return apierr
	}

	if err := a.AppointmentRepo.Delete(appt); err != nil {
		log.Errorf("failed to delete appointment by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// CheckAppointment runs the schedule rules without storing anything.
// excludeID lets the caller dry-run an edit of an existing appointment.
func (a *DefaultAppointmentService) CheckAppointment(agendaID int, req *AppointmentRequest, excludeID *int, sub string) (*CheckResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(a.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	agenda, apierr := ownedAgenda(a.AgendaRepo, agendaID, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	appt := &entity.Appointment{AgendaID: agenda.ID, HourType: entity.HourTypeOrdinary}
	applyPatch(appt, req.patch())

	if apierr := a.runSchedule(agenda.ID, appt, caller.ID, excludeID); apierr != nil {
		return nil, apierr
	}
	return &CheckResponse{Accepted: true}, nil
}

func (a *DefaultAppointmentService) ownedAppointment(id, userID int) (*entity.Appointment, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if appt == nil {
		return nil, apierror.NotFoundError
	}

	if _, apierr := ownedAgenda(a.AgendaRepo, appt.AgendaID, userID); apierr != nil {
		return nil, apierr
	}
	return appt, nil
}

func (a *DefaultAppointmentService) checkWorkplace(workplaceID, userID int) apierror.ErrorResponse {
	wp, err := a.WorkplaceRepo.FindByID(workplaceID)
	if err != nil {
		log.Errorf("failed to fetch workplace %d: %v", workplaceID, err)
		return apierror.InternalServerError
	}

	if wp == nil || wp.UserID != userID {
		return apierror.NewInvalidFieldError("workplace_id", "workplace not found")
	}
	return nil
}

// runSchedule maps rule violations to their 400 response and anything else
// to an internal error.
func (a *DefaultAppointmentService) runSchedule(agendaID int, appt *entity.Appointment, userID int, excludeID *int) apierror.ErrorResponse {
	err := a.Schedule.Validate(agendaID, schedule.FromAppointment(appt), userID, excludeID)
	if err == nil {
		return nil
	}

	var violation *schedule.Violation
	if errors.As(err, &violation) {
		log.Debugf("appointment rejected in agenda %d: %s", agendaID, violation.Rule)
		return violation
	}

	log.Errorf("failed to validate appointment in agenda %d: %v", agendaID, err)
	return apierror.InternalServerError
}

func (r *AppointmentRequest) patch() *AppointmentPatch {
	return &AppointmentPatch{
		WorkplaceID: r.WorkplaceID,
		Weekday:     r.Weekday,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Duration:    r.Duration,
		Description: r.Description,
		HourType:    r.HourType,
	}
}

func applyPatch(appt *entity.Appointment, patch *AppointmentPatch) {
	if patch.WorkplaceID != nil {
		appt.WorkplaceID = *patch.WorkplaceID
	}
	if patch.Weekday != nil {
		appt.Weekday = *patch.Weekday
	}
	if patch.StartTime != nil {
		appt.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		appt.EndTime = *patch.EndTime
	}
	if patch.Duration != nil {
		appt.Duration = *patch.Duration
	}
	if patch.Description != nil {
		appt.Description = *patch.Description
	}
	if patch.HourType != nil {
		appt.HourType = *patch.HourType
	}
}

func normalizeTimes(appt *entity.Appointment) error {
	start, err := utils.NormalizeClock(appt.StartTime)
	if err != nil {
		return err
	}
	end, err := utils.NormalizeClock(appt.EndTime)
	if err != nil {
		return err
	}
	appt.StartTime, appt.EndTime = start, end
	return nil
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          appt.ID,
		AgendaID:    appt.AgendaID,
		WorkplaceID: appt.WorkplaceID,
		Weekday:     appt.Weekday,
		StartTime:   appt.StartTime,
		EndTime:     appt.EndTime,
		Duration:    appt.Duration,
		Description: appt.Description,
		HourType:    appt.HourType,
		CreatedAt:   utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(appt.UpdatedAt),
	}
}
