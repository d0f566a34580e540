package main

import (
	"errors"
	"fmt"
	"workagenda/cmd/internal/schedule"
	"workagenda/cmd/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errRejected = errors.New("appointment rejected")

type checkOptions struct {
	userSub     string
	agendaID    int
	workplaceID int
	weekday     int
	start       string
	end         string
	duration    float64
	description string
	hourType    string
	exclude     int
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Dry-run the schedule rules for an appointment",
		Long: `check tells whether an appointment fits the agenda without storing it.
Pass --exclude with an appointment id to check an edit of that appointment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices(root.dbPath)
			if err != nil {
				return err
			}
			defer svc.Close()

			req := &service.AppointmentRequest{
				WorkplaceID: &opts.workplaceID,
				Weekday:     &opts.weekday,
				StartTime:   &opts.start,
				EndTime:     &opts.end,
				Duration:    &opts.duration,
				HourType:    &opts.hourType,
			}
			if opts.description != "" {
				req.Description = &opts.description
			}

			var excludeID *int
			if cmd.Flags().Changed("exclude") {
				excludeID = &opts.exclude
			}

			_, apierr := svc.appointments.CheckAppointment(opts.agendaID, req, excludeID, opts.userSub)
			out := cmd.OutOrStdout()
			if apierr == nil {
				_, _ = color.New(color.FgGreen).Fprintln(out, "✓ accepted")
				return nil
			}

			var violation *schedule.Violation
			if errors.As(apierr, &violation) {
				_, _ = color.New(color.FgRed).Fprintf(out, "✗ rejected [%s] %s\n", violation.Rule, violation.Reason)
				return errRejected
			}
			return fmt.Errorf("check failed: %w", apierr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.userSub, "user-sub", "", "identity provider subject of the agenda owner")
	f.IntVar(&opts.agendaID, "agenda", 0, "agenda id")
	f.IntVar(&opts.workplaceID, "workplace", 0, "workplace id")
	f.IntVar(&opts.weekday, "weekday", 0, "weekday, 0 = Monday ... 6 = Sunday")
	f.StringVar(&opts.start, "start", "", "start time HH:MM")
	f.StringVar(&opts.end, "end", "", "end time HH:MM")
	f.Float64Var(&opts.duration, "duration", 0, "duration in hours")
	f.StringVar(&opts.description, "description", "", "description")
	f.StringVar(&opts.hourType, "hour-type", "HN", "HN ordinary or HA class hours")
	f.IntVar(&opts.exclude, "exclude", 0, "appointment id being edited")
	for _, name := range []string{"user-sub", "agenda", "workplace", "weekday", "start", "end", "duration"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
