package main

import (
	"net/http"
	"workagenda/cmd/internal/config"
	"workagenda/cmd/internal/domain/sqlite"
	"workagenda/cmd/internal/domain/sqlite/repository"
	"workagenda/cmd/internal/routes"
	"workagenda/cmd/internal/schedule"
	"workagenda/cmd/internal/service"
	"workagenda/cmd/internal/utils"
	"workagenda/cmd/internal/utils/validators"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	log.SetLevel(cfg.LogLevel)

	validate := validators.New()

	// Init SQLite
	db, err := sqlite.Init(cfg.SQLitePath)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	wpRepo := repository.NewWorkplaceRepository(db)
	agendaRepo := repository.NewAgendaRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)

	engine := schedule.NewEngine(wpRepo, apptRepo, validate)

	// Getting services
	userService := service.NewUserService(userRepo, validate)
	wpService := service.NewWorkplaceService(wpRepo, apptRepo, userRepo, validate)
	agendaService := service.NewAgendaService(agendaRepo, wpRepo, apptRepo, userRepo, validate)
	apptService := service.NewAppointmentService(apptRepo, agendaRepo, wpRepo, userRepo, engine, validate)
	reportService := service.NewReportService(agendaRepo, apptRepo, wpRepo, userRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				log.Errorf("%s %s %d %s [%s]: %v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Infof("%s %s %d %s [%s]", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	routes.Register(e, &routes.Handlers{
		Users:        routes.NewUserDefault(userService),
		Workplaces:   routes.NewWorkplaceDefault(wpService),
		Agendas:      routes.NewAgendaDefault(agendaService),
		Appointments: routes.NewAppointmentDefault(apptService),
		Reports:      routes.NewReportDefault(reportService),
	}, utils.JWTMiddleware([]byte(cfg.JWTSecret)))

	log.Infof("listening on %s", cfg.HTTPAddr)
	err = e.Start(cfg.HTTPAddr)
	if err != nil && err != http.ErrServerClosed {
		e.Logger.Fatal(err)
	}
}
