package routes

import (
	"net/http"
	"workagenda/cmd/internal/service"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ReportService interface {
	GetReport(agendaID int, period service.ReportPeriod, sub string) (*service.ReportResponse, apierror.ErrorResponse)
}

type DefaultReportRoute struct {
	ReportService ReportService
}

func NewReportDefault(reportService ReportService) *DefaultReportRoute {
	return &DefaultReportRoute{ReportService: reportService}
}

func (r *DefaultReportRoute) GetWeeklyReport(c echo.Context) error {
	return r.getReport(c, service.PeriodWeekly)
}

func (r *DefaultReportRoute) GetMonthlyReport(c echo.Context) error {
	return r.getReport(c, service.PeriodMonthly)
}

func (r *DefaultReportRoute) getReport(c echo.Context, period service.ReportPeriod) error {
	agendaID, apierr := idParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	report, apierr := r.ReportService.GetReport(agendaID, period, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, report)
}
