package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"workagenda/cmd/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	userSub  string
	agendaID int
	monthly  bool
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the hours and value per workplace of an agenda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices(root.dbPath)
			if err != nil {
				return err
			}
			defer svc.Close()

			period := service.PeriodWeekly
			if opts.monthly {
				period = service.PeriodMonthly
			}

			report, apierr := svc.reports.GetReport(opts.agendaID, period, opts.userSub)
			if apierr != nil {
				return fmt.Errorf("report failed: %w", apierr)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.userSub, "user-sub", "", "identity provider subject of the agenda owner")
	f.IntVar(&opts.agendaID, "agenda", 0, "agenda id")
	f.BoolVar(&opts.monthly, "monthly", false, "project the week over a month (x4)")
	_ = cmd.MarkFlagRequired("user-sub")
	_ = cmd.MarkFlagRequired("agenda")
	return cmd
}

func printReport(out io.Writer, report *service.ReportResponse) error {
	_, _ = color.New(color.FgCyan, color.Bold).Fprintf(out, "▸ %s report\n\n", report.Period)

	if len(report.Workplaces) == 0 {
		_, err := fmt.Fprintln(out, "  no appointments")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  WORKPLACE\tBASE H\tADD-ON H\tTOTAL H\tRATE\tVALUE")
	for _, line := range report.Workplaces {
		fmt.Fprintf(tw, "  %s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			line.Name, line.BaseHours, line.AddOnHours, line.TotalHours, line.HourlyRate, line.TotalValue)
	}
	fmt.Fprintf(tw, "  TOTAL\t\t\t%.2f\t\t%.2f\n", report.TotalHours, report.TotalValue)
	return tw.Flush()
}
