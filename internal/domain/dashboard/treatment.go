package dashboard

import (
	"sort"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

// AggregateTreatmentSuccess joins procedures to appointments by id and
// treats any appointment with two or more procedures as a treatment plan.
// A plan is completed only when every one of its procedures is completed.
func AggregateTreatmentSuccess(appointments []pms.Appointment, procedures []pms.Procedure, period PeriodBounds) *TreatmentSuccessReport {
	report := &TreatmentSuccessReport{Period: period}

	known := map[string]bool{}
	for _, a := range appointments {
		known[a.ID] = true
	}

	type tally struct{ total, completed int }
	byAppt := map[string]*tally{}
	for _, pr := range procedures {
		if pr.AppointmentID == "" || !known[pr.AppointmentID] {
			continue
		}
		t := byAppt[pr.AppointmentID]
		if t == nil {
			t = &tally{}
			byAppt[pr.AppointmentID] = t
		}
		t.total++
		if pr.Status == pms.ApptCompleted {
			t.completed++
		}
	}

	for apptID, t := range byAppt {
		if t.total < 2 {
			continue
		}
		plan := TreatmentPlan{
			AppointmentID:  apptID,
			ProcedureCount: t.total,
			CompletedCount: t.completed,
			CompletionRate: float64(t.completed) / float64(t.total) * 100,
		}
		switch {
		case t.completed == t.total:
			plan.Status = PlanCompleted
		case t.completed > 0:
			plan.Status = PlanInProgress
		default:
			plan.Status = PlanNotStarted
		}
		report.Plans = append(report.Plans, plan)
	}
	sort.Slice(report.Plans, func(i, j int) bool {
		return report.Plans[i].AppointmentID < report.Plans[j].AppointmentID
	})

	report.TotalPlans = len(report.Plans)
	for _, plan := range report.Plans {
		switch plan.Status {
		case PlanCompleted:
			report.Completed++
		case PlanInProgress:
			report.InProgress++
		default:
			report.NotStarted++
		}
	}

	return report
}
