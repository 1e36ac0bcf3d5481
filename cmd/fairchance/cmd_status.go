package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/fair-chance/internal/flow"
	"github.com/kingrea/fair-chance/internal/record"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how far the stored case has progressed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			rec := s.forms.Load(cmd.Context())
			if rec == nil {
				fmt.Fprintf(out, "No stored data for case %q\n", s.forms.CaseID())
				fmt.Fprintf(out, "Run 'fairchance' to start the individual assessment.\n")
				return nil
			}
			state := flow.State{Record: *rec, Defaults: s.cfg.FlowDefaults()}
			printStatus(out, s.forms.CaseID(), state, time.Now())
			return nil
		},
	}
}

func printStatus(out io.Writer, caseID string, state flow.State, now time.Time) {
	rec := state.Record
	fmt.Fprintf(out, "Case:       %s\n", caseID)
	fmt.Fprintf(out, "Applicant:  %s\n", orDash(rec.ApplicantName))
	fmt.Fprintf(out, "Position:   %s\n", orDash(rec.PositionApplied))
	fmt.Fprintf(out, "Employer:   %s\n", orDash(rec.EmployerName))
	fmt.Fprintf(out, "Next step:  %s\n", nextStep(rec).FriendlyName())

	if rec.Decision != "" {
		fmt.Fprintf(out, "Assessment: %s (%s)\n", rec.Decision, orDash(rec.DateAssessment))
	}
	if sent := rec.PreliminaryNotice.SentAt; sent != "" {
		fmt.Fprintf(out, "Preliminary notice sent %s (receipt %s)\n", sent, orDash(rec.PreliminaryNotice.ReceiptID))
		if countdown, ok := state.Countdown(now); ok {
			if countdown.Expired {
				fmt.Fprintf(out, "  Response period ended %s\n", countdown.Deadline.Format("Mon Jan 2, 2006"))
			} else {
				fmt.Fprintf(out, "  %d business day(s) remaining (deadline %s)\n",
					countdown.BusinessDays, countdown.Deadline.Format("Mon Jan 2, 2006"))
			}
		}
	}
	if rec.Reassessment.Decision != "" {
		fmt.Fprintf(out, "Reassessment: %s (%s)\n", rec.Reassessment.Decision, orDash(rec.DateReassessment))
	}
	if sent := rec.FinalNotice.SentAt; sent != "" {
		fmt.Fprintf(out, "Final notice sent %s (receipt %s)\n", sent, orDash(rec.FinalNotice.ReceiptID))
	}
}

// nextStep is the stage the employer should open next.
func nextStep(rec record.CaseRecord) flow.Stage {
	switch {
	case rec.FinalNotice.SentAt != "":
		return flow.StageFinalNotice
	case rec.Reassessment.Decision == record.DecisionRescind:
		return flow.StageFinalNotice
	case rec.PreliminaryNotice.SentAt != "":
		return flow.StageReassessment
	case rec.Decision == record.DecisionRescind:
		return flow.StagePreliminaryNotice
	default:
		return flow.StageAssessment
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
