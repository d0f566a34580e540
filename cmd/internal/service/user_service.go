package service

import (
	"strconv"
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	ExistsBySub(sub string) (bool, error)
	Save(user *entity.User) error
}

type CreateUserRequest struct {
	Name  string  `json:"name" validate:"required,min=2,max=80"`
	Email string  `json:"email" validate:"required,email"`
	CPF   *string `json:"cpf" validate:"omitempty,len=11,numeric"`
}

type UserResponse struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	CPF       *string `json:"cpf,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate}
}

// CreateUser registers the profile of the identity provider subject sub.
// Sign-up itself happens at the provider.
func (u *DefaultUserService) CreateUser(req *CreateUserRequest, sub string) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsBySub(sub)
	if err != nil {
		log.Errorf("failed to check if user %s already exists: %v", sub, err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:   sub,
		Name:      req.Name,
		Email:     req.Email,
		CPF:       req.CPF,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.UserRepo.Save(user)
	if err != nil {
		log.Errorf("failed to create user %s: %v", sub, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

// GetUser resolves "@me" or a numeric id. Users only ever see themselves.
func (u *DefaultUserService) GetUser(rawId, sub string) (*UserResponse, apierror.ErrorResponse) {
	caller, apierr := findCaller(u.UserRepo, sub)
	if apierr != nil {
		return nil, apierr
	}

	if rawId == "@me" {
		return toUserResponse(caller), nil
	}

	userId, err := strconv.Atoi(rawId)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("id", "int32")
	}

	if userId != caller.ID {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(caller), nil
}

// findCaller maps the token subject to the registered user.
func findCaller(repo UserRepository, sub string) (*entity.User, apierror.ErrorResponse) {
	caller, err := repo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", sub, err)
		return nil, apierror.InternalServerError
	}

	if caller == nil {
		return nil, apierror.UserNotRegisteredError
	}
	return caller, nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CPF:       user.CPF,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
