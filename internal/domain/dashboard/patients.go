package dashboard

import (
	"sort"
	"time"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

const topProviders = 10

var ageBands = []string{"Under 18", "18-30", "31-45", "46-60", "Over 60"}

// ageBand classifies an age. The lower boundary of each band is inclusive:
// a patient turning exactly 18 today lands in 18-30, not Under 18.
func ageBand(age int) string {
	switch {
	case age < 18:
		return ageBands[0]
	case age <= 30:
		return ageBands[1]
	case age <= 45:
		return ageBands[2]
	case age <= 60:
		return ageBands[3]
	default:
		return ageBands[4]
	}
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// AggregateActivePatients classifies patients created within the period as
// new and appointment patients outside that set as returning, then buckets
// the new patients by age band and appointments by provider (top 10).
func AggregateActivePatients(patients []pms.Patient, appointments []pms.Appointment, period PeriodBounds, now time.Time) *ActivePatientsReport {
	report := &ActivePatientsReport{Period: period}

	newSet := map[string]bool{}
	bands := map[string]int{}
	for _, p := range patients {
		created := p.CreatedAt.Time
		if created.Before(period.From) || created.After(period.To) {
			continue
		}
		newSet[p.ID] = true
		if !p.BirthDate.IsZero() {
			bands[ageBand(ageAt(p.BirthDate.Time, now))]++
		}
	}
	report.NewPatients = len(newSet)

	returning := map[string]bool{}
	byProvider := map[string]int{}
	for _, a := range appointments {
		if a.PatientID != "" && !newSet[a.PatientID] {
			returning[a.PatientID] = true
		}
		if a.ProviderID != "" {
			byProvider[a.ProviderID]++
		}
	}
	report.ReturningPatients = len(returning)

	for _, band := range ageBands {
		if count := bands[band]; count > 0 {
			report.AgeBands = append(report.AgeBands, BandCount{Band: band, Count: count})
		}
	}

	for id, count := range byProvider {
		report.ByProvider = append(report.ByProvider, ProviderCount{ProviderID: id, Count: count})
	}
	sort.Slice(report.ByProvider, func(i, j int) bool {
		if report.ByProvider[i].Count != report.ByProvider[j].Count {
			return report.ByProvider[i].Count > report.ByProvider[j].Count
		}
		return report.ByProvider[i].ProviderID < report.ByProvider[j].ProviderID
	})
	if len(report.ByProvider) > topProviders {
		report.ByProvider = report.ByProvider[:topProviders]
	}

	return report
}
