package routes

import (
	"net/http"
	"strconv"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Users        *DefaultUserRoute
	Workplaces   *DefaultWorkplaceRoute
	Agendas      *DefaultAgendaRoute
	Appointments *DefaultAppointmentRoute
	Reports      *DefaultReportRoute
}

// Register mounts every endpoint on e. Everything under /api except the
// public agenda view goes through auth.
func Register(e *echo.Echo, h *Handlers, auth echo.MiddlewareFunc) {
	e.GET("/api/public/agendas/:token", h.Agendas.GetPublicAgenda)

	api := e.Group("/api", auth)

	// Users
	api.GET("/users/:id", h.Users.GetUser)
	api.POST("/users", h.Users.CreateUser)

	// Workplaces
	api.GET("/workplaces", h.Workplaces.GetWorkplaces)
	api.POST("/workplaces", h.Workplaces.CreateWorkplace)
	api.PUT("/workplaces/:id", h.Workplaces.UpdateWorkplace)
	api.DELETE("/workplaces/:id", h.Workplaces.DeleteWorkplace)

	// Agendas
	api.GET("/agendas", h.Agendas.GetAgendas)
	api.POST("/agendas", h.Agendas.CreateAgenda)
	api.GET("/agendas/:id", h.Agendas.GetAgenda)
	api.PUT("/agendas/:id", h.Agendas.UpdateAgenda)
	api.DELETE("/agendas/:id", h.Agendas.DeleteAgenda)
	api.GET("/agendas/:id/rates", h.Agendas.GetRates)
	api.PUT("/agendas/:id/rates/:workplaceId", h.Agendas.SetRate)
	api.POST("/agendas/:id/share", h.Agendas.ShareAgenda)
	api.DELETE("/agendas/:id/share", h.Agendas.UnshareAgenda)

	// Appointments
	api.GET("/agendas/:id/appointments", h.Appointments.GetAppointments)
	api.POST("/agendas/:id/appointments", h.Appointments.CreateAppointment)
	api.POST("/agendas/:id/appointments/check", h.Appointments.CheckAppointment)
	api.PUT("/appointments/:id", h.Appointments.UpdateAppointment)
	api.DELETE("/appointments/:id", h.Appointments.DeleteAppointment)

	// Reports
	api.GET("/agendas/:id/reports/weekly", h.Reports.GetWeeklyReport)
	api.GET("/agendas/:id/reports/monthly", h.Reports.GetMonthlyReport)
}

func idParam(c echo.Context, name string) (int, apierror.ErrorResponse) {
	raw := c.Param(name)
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewSimple(http.StatusBadRequest, "ID is not a number")
	}
	return id, nil
}
