package dashboard

import (
	"testing"
	"time"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

func TestAggregateTreatmentSuccess_PlanStatuses(t *testing.T) {
	appointments := []pms.Appointment{
		{ID: "done"}, {ID: "partial"}, {ID: "fresh"}, {ID: "single"},
	}
	procedures := []pms.Procedure{
		{ID: "1", AppointmentID: "done", Status: pms.ApptCompleted},
		{ID: "2", AppointmentID: "done", Status: pms.ApptCompleted},
		{ID: "3", AppointmentID: "partial", Status: pms.ApptCompleted},
		{ID: "4", AppointmentID: "partial", Status: "planned"},
		{ID: "5", AppointmentID: "partial", Status: "planned"},
		{ID: "6", AppointmentID: "fresh", Status: "planned"},
		{ID: "7", AppointmentID: "fresh", Status: "planned"},
		{ID: "8", AppointmentID: "single", Status: pms.ApptCompleted}, // one procedure: not a plan
		{ID: "9", AppointmentID: "unknown-appt", Status: pms.ApptCompleted},
	}

	period := PeriodBounds{From: time.Now().AddDate(0, 0, -30), To: time.Now()}
	report := AggregateTreatmentSuccess(appointments, procedures, period)

	if report.TotalPlans != 3 {
		t.Fatalf("totalPlans = %d, want 3", report.TotalPlans)
	}
	if report.Completed != 1 || report.InProgress != 1 || report.NotStarted != 1 {
		t.Errorf("status totals = %d/%d/%d, want 1/1/1",
			report.Completed, report.InProgress, report.NotStarted)
	}

	for _, plan := range report.Plans {
		if plan.CompletionRate < 0 || plan.CompletionRate > 100 {
			t.Errorf("plan %s completionRate %v out of [0,100]", plan.AppointmentID, plan.CompletionRate)
		}
		if (plan.Status == PlanCompleted) != (plan.CompletionRate == 100) {
			t.Errorf("plan %s: status %q inconsistent with completionRate %v",
				plan.AppointmentID, plan.Status, plan.CompletionRate)
		}
	}
}

func TestAggregateTreatmentSuccess_Empty(t *testing.T) {
	period := PeriodBounds{From: time.Now().AddDate(0, 0, -30), To: time.Now()}
	report := AggregateTreatmentSuccess(nil, nil, period)
	if report.TotalPlans != 0 || len(report.Plans) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}
