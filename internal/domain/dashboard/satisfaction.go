package dashboard

import (
	"sort"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

// AggregatePatientSatisfaction simulates a 1-5 satisfaction score per survey
// document because the provider has no real survey data. A document counts
// as a survey when its filename contains "survey" or "feedback". Each score
// is seeded from the patient's most recent appointment status: completed
// visits skew high, no-shows and cancellations skew low. The NPS-like score
// is %fives minus %(three or below). The report is always Synthetic.
func AggregatePatientSatisfaction(documents []pms.Document, appointments []pms.Appointment, period PeriodBounds, faker *gofakeit.Faker) *PatientSatisfactionReport {
	report := &PatientSatisfactionReport{Period: period, Synthetic: true}

	latest := map[string]pms.Appointment{}
	for _, a := range appointments {
		if prev, ok := latest[a.PatientID]; !ok || a.StartTime.After(prev.StartTime.Time) {
			latest[a.PatientID] = a
		}
	}

	dist := map[int]int{}
	var total int
	for _, doc := range documents {
		name := strings.ToLower(doc.Filename)
		if !strings.Contains(name, "survey") && !strings.Contains(name, "feedback") {
			continue
		}

		score := simulateScore(latest[doc.PatientID].Status, faker)
		dist[score]++
		total += score
		report.Responses++
	}

	if report.Responses == 0 {
		return report
	}

	report.AverageScore = float64(total) / float64(report.Responses)

	for score := 1; score <= 5; score++ {
		if count := dist[score]; count > 0 {
			report.Distribution = append(report.Distribution, ScoreCount{Score: score, Count: count})
		}
	}
	sort.Slice(report.Distribution, func(i, j int) bool {
		return report.Distribution[i].Score < report.Distribution[j].Score
	})

	responses := float64(report.Responses)
	low := dist[1] + dist[2] + dist[3]
	report.NPSLike = float64(dist[5])/responses*100 - float64(low)/responses*100

	return report
}

func simulateScore(lastStatus string, faker *gofakeit.Faker) int {
	switch lastStatus {
	case pms.ApptCompleted, pms.ApptCheckedIn:
		return faker.Number(4, 5)
	case pms.ApptConfirmed, pms.ApptUnconfirmed:
		return faker.Number(3, 5)
	case pms.ApptCancelled:
		return faker.Number(2, 4)
	case pms.ApptNoShow:
		return faker.Number(1, 3)
	default:
		return faker.Number(1, 5)
	}
}
