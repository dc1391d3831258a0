package dashboard

import (
	"sort"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

// confirmedLike are the statuses counted toward a provider's confirmation
// rate: the patient either confirmed or actually showed up.
var confirmedLike = map[string]bool{
	pms.ApptConfirmed: true,
	pms.ApptCheckedIn: true,
	pms.ApptCompleted: true,
}

// AggregateDailyHuddle builds the morning-huddle view for one day: the
// status partition, per-provider confirmation rates, the hour-of-day
// histogram, and expected production from procedures attached to the day's
// appointments.
func AggregateDailyHuddle(appointments []pms.Appointment, procedures []pms.Procedure, providers []pms.Provider, day PeriodBounds) *DailyHuddleReport {
	report := &DailyHuddleReport{
		Date:              day.From.Format("2006-01-02"),
		TotalAppointments: len(appointments),
	}

	names := map[string]string{}
	for _, p := range providers {
		names[p.ID] = p.DisplayName()
	}

	byStatus := map[string]int{}
	byHour := map[int]int{}
	type provTally struct{ total, confirmed int }
	byProvider := map[string]*provTally{}

	for _, a := range appointments {
		byStatus[a.Status]++
		byHour[a.StartTime.Hour()]++

		t := byProvider[a.ProviderID]
		if t == nil {
			t = &provTally{}
			byProvider[a.ProviderID] = t
		}
		t.total++
		if confirmedLike[a.Status] {
			t.confirmed++
		}
	}

	for status, count := range byStatus {
		report.ByStatus = append(report.ByStatus, StatusCount{Status: status, Count: count})
	}
	sort.Slice(report.ByStatus, func(i, j int) bool {
		return report.ByStatus[i].Status < report.ByStatus[j].Status
	})

	for hour, count := range byHour {
		report.ByHour = append(report.ByHour, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(report.ByHour, func(i, j int) bool {
		return report.ByHour[i].Hour < report.ByHour[j].Hour
	})

	for id, t := range byProvider {
		ph := ProviderHuddle{
			ProviderID: id,
			Name:       names[id],
			Total:      t.total,
			Confirmed:  t.confirmed,
		}
		if t.total > 0 {
			ph.ConfirmationRate = float64(t.confirmed) / float64(t.total) * 100
		}
		report.ByProvider = append(report.ByProvider, ph)
	}
	sort.Slice(report.ByProvider, func(i, j int) bool {
		return report.ByProvider[i].ProviderID < report.ByProvider[j].ProviderID
	})

	// Join procedures to the day's appointments by id for expected
	// production and the procedure-type summary.
	todays := map[string]bool{}
	for _, a := range appointments {
		todays[a.ID] = true
	}

	types := map[string]*ProcedureTypeSummary{}
	for _, pr := range procedures {
		if pr.AppointmentID == "" || !todays[pr.AppointmentID] {
			continue
		}
		report.ExpectedRevenue += pr.Fee

		ts := types[pr.Name]
		if ts == nil {
			ts = &ProcedureTypeSummary{Name: pr.Name}
			types[pr.Name] = ts
		}
		ts.Count++
		ts.Fees += pr.Fee
	}
	for _, ts := range types {
		report.ProcedureTypes = append(report.ProcedureTypes, *ts)
	}
	sort.Slice(report.ProcedureTypes, func(i, j int) bool {
		return report.ProcedureTypes[i].Name < report.ProcedureTypes[j].Name
	})

	return report
}
