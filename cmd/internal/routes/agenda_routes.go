package routes

import (
	"net/http"
	"workagenda/cmd/internal/service"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AgendaService interface {
	GetAgendas(sub string) ([]*service.AgendaResponse, apierror.ErrorResponse)
	GetAgenda(id int, sub string) (*service.AgendaResponse, apierror.ErrorResponse)
	CreateAgenda(req *service.AgendaRequest, sub string) (*service.AgendaResponse, apierror.ErrorResponse)
	UpdateAgenda(id int, req *service.AgendaRequest, sub string) (*service.AgendaResponse, apierror.ErrorResponse)
	DeleteAgenda(id int, sub string) apierror.ErrorResponse
	GetRates(id int, sub string) ([]*service.RateResponse, apierror.ErrorResponse)
	SetRate(id, workplaceID int, req *service.RateRequest, sub string) (*service.RateResponse, apierror.ErrorResponse)
	ShareAgenda(id int, sub string) (*service.AgendaResponse, apierror.ErrorResponse)
	UnshareAgenda(id int, sub string) apierror.ErrorResponse
	GetPublicAgenda(token string) (*service.PublicAgendaResponse, apierror.ErrorResponse)
}

type DefaultAgendaRoute struct {
	AgendaService AgendaService
}

func NewAgendaDefault(agendaService AgendaService) *DefaultAgendaRoute {
	return &DefaultAgendaRoute{AgendaService: agendaService}
}

func (a *DefaultAgendaRoute) GetAgendas(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	agendas, apierr := a.AgendaService.GetAgendas(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"agendas": agendas}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAgendaRoute) GetAgenda(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	agenda, apierr := a.AgendaService.GetAgenda(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, agenda)
}

func (a *DefaultAgendaRoute) CreateAgenda(c echo.Context) error {
	var req service.AgendaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	agenda, apierr := a.AgendaService.CreateAgenda(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, agenda)
}

func (a *DefaultAgendaRoute) UpdateAgenda(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.AgendaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	agenda, apierr := a.AgendaService.UpdateAgenda(id, &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, agenda)
}

func (a *DefaultAgendaRoute) DeleteAgenda(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := a.AgendaService.DeleteAgenda(id, data.Sub); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (a *DefaultAgendaRoute) GetRates(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	rates, apierr := a.AgendaService.GetRates(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"rates": rates}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAgendaRoute) SetRate(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	wpID, apierr := idParam(c, "workplaceId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.RateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	rate, apierr := a.AgendaService.SetRate(id, wpID, &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, rate)
}

func (a *DefaultAgendaRoute) ShareAgenda(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	agenda, apierr := a.AgendaService.ShareAgenda(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, agenda)
}

func (a *DefaultAgendaRoute) UnshareAgenda(c echo.Context) error {
	id, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	if apierr := a.AgendaService.UnshareAgenda(id, data.Sub); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

// GetPublicAgenda is served without authentication.
func (a *DefaultAgendaRoute) GetPublicAgenda(c echo.Context) error {
	agenda, apierr := a.AgendaService.GetPublicAgenda(c.Param("token"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, agenda)
}
