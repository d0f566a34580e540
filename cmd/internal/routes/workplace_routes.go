package routes

import (
	"net/http"
	"workagenda/cmd/internal/service"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type WorkplaceService interface {
	GetWorkplaces(sub string) ([]*service.WorkplaceResponse, apierror.ErrorResponse)
	CreateWorkplace(req *service.WorkplaceRequest, sub string) (*service.WorkplaceResponse, apierror.ErrorResponse)
	UpdateWorkplace(id int, req *service.WorkplaceRequest, sub string) (*service.WorkplaceResponse, apierror.ErrorResponse)
	DeleteWorkplace(id int, sub string) apierror.ErrorResponse
}

type DefaultWorkplaceRoute struct {
	WorkplaceService WorkplaceService
}

func NewWorkplaceDefault(wpService WorkplaceService) *DefaultWorkplaceRoute {
	return &DefaultWorkplaceRoute{WorkplaceService: wpService}
}

func (w *DefaultWorkplaceRoute) GetWorkplaces(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	wps, apierr := w.WorkplaceService.GetWorkplaces(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"workplaces": wps}
	return c.JSON(http.StatusOK, &resp)
}

func (w *DefaultWorkplaceRoute) CreateWorkplace(c echo.Context) error {
	var req service.WorkplaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	wp, apierr := w.WorkplaceService.CreateWorkplace(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, wp)
}

func (w *DefaultWorkplaceRoute) UpdateWorkplace(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.WorkplaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	wp, apierr := w.WorkplaceService.UpdateWorkplace(id, &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, wp)
}

func (w *DefaultWorkplaceRoute) DeleteWorkplace(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := w.WorkplaceService.DeleteWorkplace(id, data.Sub); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
