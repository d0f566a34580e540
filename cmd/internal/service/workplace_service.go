package service

import (
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type WorkplaceRepository interface {
	FindByID(id int) (*entity.Workplace, error)
	FindByUserID(userID int) ([]*entity.Workplace, error)
	FindByOwnerRelatedTo(ownerID, relatedID int) ([]*entity.Workplace, error)
	Save(wp *entity.Workplace) error
	Delete(wp *entity.Workplace) error
}

type WorkplaceRequest struct {
	Name               string   `json:"name" validate:"required,max=80"`
	Color              string   `json:"color" validate:"required,hexcolor"`
	HourlyRate         *float64 `json:"hourly_rate" validate:"required,gte=0"`
	ClassHourPercent   *float64 `json:"class_hour_percent" validate:"omitempty,gte=0,lte=100"`
	GracePeriodMinutes *int     `json:"grace_period_minutes" validate:"omitempty,gte=0,lte=1440"`
	RelatedTo          *int     `json:"related_to" validate:"omitempty,gt=0"`
}

type WorkplaceResponse struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Color              string  `json:"color"`
	HourlyRate         float64 `json:"hourly_rate"`
	ClassHourPercent   float64 `json:"class_hour_percent"`
	GracePeriodMinutes int     `json:"grace_period_minutes"`
	RelatedTo          *int    `json:"related_to"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type DefaultWorkplaceService struct {
	WorkplaceRepo   WorkplaceRepository
	AppointmentRepo AppointmentRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
}

func NewWorkplaceService(wpRepo WorkplaceRepository, apptRepo AppointmentRepository, userRepo UserRepository, validate *validator.Validate) *DefaultWorkplaceService {
	return &DefaultWorkplaceService{WorkplaceRepo: wpRepo, AppointmentRepo: apptRepo, UserRepo: userRepo, Validate: validate}
}

func (w *DefaultWorkplaceService) GetWorkplaces(sub string) ([]*WorkplaceResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(w.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	wps, err := w.WorkplaceRepo.FindByUserID(caller.ID)
	if err != nil {
		log.Errorf("failed to find workplaces for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*WorkplaceResponse, len(wps))
	for i, wp := range wps {
		resp[i] = toWorkplaceResponse(wp)
	}
	return resp, nil
}

func (w *DefaultWorkplaceService) CreateWorkplace(req *WorkplaceRequest, sub string) (*WorkplaceResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(w.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := w.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if apierr := w.checkRelation(caller.ID, 0, req.RelatedTo); apierr != nil {
		return nil, apierr
	}

	wp := &entity.Workplace{UserID: caller.ID}
	applyWorkplaceRequest(wp, req)

	if err := w.WorkplaceRepo.Save(wp); err != nil {
		log.Errorf("failed to save workplace for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}
	return toWorkplaceResponse(wp), nil
}

// UpdateWorkplace replaces every field of the workplace, related_to included.
func (w *DefaultWorkplaceService) UpdateWorkplace(id int, req *WorkplaceRequest, sub string) (*WorkplaceResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(w.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	wp, apierr := w.ownedWorkplace(id, caller.ID)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := w.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if apierr := w.checkRelation(caller.ID, wp.ID, req.RelatedTo); apierr != nil {
		return nil, apierr
	}

	applyWorkplaceRequest(wp, req)
	wp.UpdatedAt = utils.NowUTC()

	if err := w.WorkplaceRepo.Save(wp); err != nil {
		log.Errorf("failed to update workplace %d: %v", wp.ID, err)
		return nil, apierror.InternalServerError
	}
	return toWorkplaceResponse(wp), nil
}

func (w *DefaultWorkplaceService) DeleteWorkplace(id int, sub string) apierror.ErrorResponse {
	caller, apierr := findCaller(w.UserRepo, sub)
	if apierr != nil {
		return apierr
	}

	wp, apierr := w.ownedWorkplace(id, caller.ID)
	if apierr != nil {
		return apierr
	}

	count, err := w.AppointmentRepo.CountByWorkplaceID(wp.ID)
	if err != nil {
		log.Errorf("failed to count appointments of workplace %d: %v", wp.ID, err)
		return apierror.InternalServerError
	}

	if count > 0 {
		return apierror.WorkplaceInUseError
	}

	if err := w.WorkplaceRepo.Delete(wp); err != nil {
		log.Errorf("failed to delete workplace %d: %v", wp.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (w *DefaultWorkplaceService) ownedWorkplace(id, userID int) (*entity.Workplace, apierror.ErrorResponse) {
	wp, err := w.WorkplaceRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch workplace %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if wp == nil || wp.UserID != userID {
		return nil, apierror.NotFoundError
	}
	return wp, nil
}

// checkRelation keeps linked groups one level deep: the target must be a
// primary of the same user, and a primary with secondaries cannot itself
// become a secondary.
func (w *DefaultWorkplaceService) checkRelation(userID, selfID int, relatedTo *int) apierror.ErrorResponse {
	if relatedTo == nil {
		return nil
	}

	if *relatedTo == selfID {
		return apierror.NewInvalidFieldError("related_to", "cannot relate a workplace to itself")
	}

	parent, err := w.WorkplaceRepo.FindByID(*relatedTo)
	if err != nil {
		log.Errorf("failed to fetch related workplace %d: %v", *relatedTo, err)
		return apierror.InternalServerError
	}

	if parent == nil || parent.UserID != userID {
		return apierror.NewInvalidFieldError("related_to", "related workplace not found")
	}

	if parent.IsSecondary() {
		return apierror.NewInvalidFieldError("related_to", "related workplace is already linked to another one")
	}

	if selfID == 0 {
		return nil
	}

	children, err := w.WorkplaceRepo.FindByOwnerRelatedTo(userID, selfID)
	if err != nil {
		log.Errorf("failed to fetch secondaries of workplace %d: %v", selfID, err)
		return apierror.InternalServerError
	}

	if len(children) > 0 {
		return apierror.NewInvalidFieldError("related_to", "a workplace with linked workplaces cannot be linked")
	}
	return nil
}

func applyWorkplaceRequest(wp *entity.Workplace, req *WorkplaceRequest) {
	wp.Name = req.Name
	wp.Color = req.Color
	wp.HourlyRate = *req.HourlyRate
	wp.ClassHourPercent = 0
	if req.ClassHourPercent != nil {
		wp.ClassHourPercent = *req.ClassHourPercent
	}
	wp.GracePeriodMinutes = entity.DefaultGracePeriod
	if req.GracePeriodMinutes != nil {
		wp.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	wp.RelatedTo = req.RelatedTo
}

func toWorkplaceResponse(wp *entity.Workplace) *WorkplaceResponse {
	return &WorkplaceResponse{
		ID:                 wp.ID,
		Name:               wp.Name,
		Color:              wp.Color,
		HourlyRate:         wp.HourlyRate,
		ClassHourPercent:   wp.ClassHourPercent,
		GracePeriodMinutes: wp.GracePeriodMinutes,
		RelatedTo:          wp.RelatedTo,
		CreatedAt:          utils.FormatEpoch(wp.CreatedAt),
		UpdatedAt:          utils.FormatEpoch(wp.UpdatedAt),
	}
}
