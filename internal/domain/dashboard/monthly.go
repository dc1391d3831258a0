package dashboard

import (
	"sort"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

// AggregateMonthly computes the month-in-review report: revenue total and
// by day-of-month, appointment completion and no-show rates, and procedure
// counts by code.
func AggregateMonthly(payments []pms.Payment, appointments []pms.Appointment, procedures []pms.Procedure, year, month int) *MonthlyReport {
	report := &MonthlyReport{Year: year, Month: month}

	byDay := map[int]float64{}
	for _, p := range payments {
		report.Revenue.Total += p.Amount
		byDay[p.CreatedAt.Day()] += p.Amount
	}
	for day, amount := range byDay {
		report.Revenue.ByDay = append(report.Revenue.ByDay, DayAmount{Day: day, Amount: amount})
	}
	sort.Slice(report.Revenue.ByDay, func(i, j int) bool {
		return report.Revenue.ByDay[i].Day < report.Revenue.ByDay[j].Day
	})

	report.Appointments.Total = len(appointments)
	noShows := 0
	for _, a := range appointments {
		switch a.Status {
		case pms.ApptCompleted:
			report.Appointments.Completed++
		case pms.ApptNoShow:
			noShows++
		}
	}
	if report.Appointments.Total > 0 {
		total := float64(report.Appointments.Total)
		report.Appointments.CompletionRate = float64(report.Appointments.Completed) / total * 100
		report.Appointments.NoShowRate = float64(noShows) / total * 100
	}

	byCode := map[string]int{}
	for _, pr := range procedures {
		byCode[pr.Code]++
	}
	for code, count := range byCode {
		report.Procedures = append(report.Procedures, CodeCount{Code: code, Count: count})
	}
	sort.Slice(report.Procedures, func(i, j int) bool {
		if report.Procedures[i].Count != report.Procedures[j].Count {
			return report.Procedures[i].Count > report.Procedures[j].Count
		}
		return report.Procedures[i].Code < report.Procedures[j].Code
	})

	return report
}
