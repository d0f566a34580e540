package main

import (
	"workagenda/cmd/internal/config"
	"workagenda/cmd/internal/domain/sqlite"
	"workagenda/cmd/internal/domain/sqlite/repository"
	"workagenda/cmd/internal/schedule"
	"workagenda/cmd/internal/service"
	"workagenda/cmd/internal/utils/validators"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type rootOptions struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "agendactl",
		Short: "Operator tool for the work agenda database",
		Long: `agendactl works directly on the agenda database: it migrates the schema,
dry-runs the schedule rules for an appointment and prints hour reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFiles(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("db") {
				opts.dbPath = config.SQLitePath()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (default $AGENDA_SQLITE_PATH or ./database.db)")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	return cmd
}

// services bundles what the subcommands need from the database.
type services struct {
	db           *gorm.DB
	appointments *service.DefaultAppointmentService
	reports      *service.DefaultReportService
}

func openServices(dbPath string) (*services, error) {
	db, err := sqlite.Init(dbPath)
	if err != nil {
		return nil, err
	}

	validate := validators.New()
	userRepo := repository.NewUserRepository(db)
	wpRepo := repository.NewWorkplaceRepository(db)
	agendaRepo := repository.NewAgendaRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	engine := schedule.NewEngine(wpRepo, apptRepo, validate)

	return &services{
		db:           db,
		appointments: service.NewAppointmentService(apptRepo, agendaRepo, wpRepo, userRepo, engine, validate),
		reports:      service.NewReportService(agendaRepo, apptRepo, wpRepo, userRepo),
	}, nil
}

func (s *services) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
