package dashboard

import (
	"math"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

func ts(year int, month time.Month, day int) pms.Timestamp {
	return pms.Timestamp{Time: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

func TestAggregateRevenue_Identities(t *testing.T) {
	payments := []pms.Payment{
		{ID: "p1", Amount: 1200, CreatedAt: ts(2024, time.January, 10)},
		{ID: "p2", Amount: 800, CreatedAt: ts(2024, time.March, 2)},
	}
	procedures := []pms.Procedure{
		{ID: "pr1", Fee: 2500, Status: pms.ApptCompleted},
		{ID: "pr2", Fee: 500, Status: "planned"},
	}

	report := AggregateRevenue(payments, procedures, YearBounds(2024), TimeframeMonthly, 60000, gofakeit.New(1))

	if report.TotalRevenue != 2000 {
		t.Errorf("totalRevenue = %v, want 2000", report.TotalRevenue)
	}
	if report.TotalCharges != 3000 {
		t.Errorf("totalCharges = %v, want 3000", report.TotalCharges)
	}

	wantCollection := report.TotalRevenue / report.TotalCharges * 100
	if math.Abs(report.CollectionRate-wantCollection) > 1e-9 {
		t.Errorf("collectionRate = %v, want %v", report.CollectionRate, wantCollection)
	}

	wantPerf := report.TotalRevenue / report.Goal * 100
	if math.Abs(report.Performance-wantPerf) > 1e-9 {
		t.Errorf("performance = %v, want %v", report.Performance, wantPerf)
	}

	if report.Synthetic {
		t.Error("report with real payments must not be synthetic")
	}
}

func TestAggregateRevenue_MonthlyBucketOrder(t *testing.T) {
	payments := []pms.Payment{
		{ID: "p1", Amount: 100, CreatedAt: ts(2024, time.December, 1)},
		{ID: "p2", Amount: 200, CreatedAt: ts(2024, time.February, 1)},
		{ID: "p3", Amount: 300, CreatedAt: ts(2024, time.February, 15)},
		{ID: "p4", Amount: 400, CreatedAt: ts(2024, time.July, 4)},
	}

	report := AggregateRevenue(payments, nil, YearBounds(2024), TimeframeMonthly, 60000, gofakeit.New(1))

	labels := make([]string, len(report.Buckets))
	for i, b := range report.Buckets {
		labels[i] = b.Label
	}
	want := []string{"February", "July", "December"}
	if len(labels) != len(want) {
		t.Fatalf("buckets = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("bucket %d = %s, want %s", i, labels[i], want[i])
		}
	}
	if report.Buckets[0].Amount != 500 {
		t.Errorf("February amount = %v, want 500", report.Buckets[0].Amount)
	}
}

func TestAggregateRevenue_QuarterlyBuckets(t *testing.T) {
	payments := []pms.Payment{
		{ID: "p1", Amount: 100, CreatedAt: ts(2024, time.January, 5)},
		{ID: "p2", Amount: 200, CreatedAt: ts(2024, time.March, 30)},
		{ID: "p3", Amount: 300, CreatedAt: ts(2024, time.October, 1)},
	}

	report := AggregateRevenue(payments, nil, YearBounds(2024), TimeframeQuarterly, 60000, gofakeit.New(1))

	if len(report.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(report.Buckets))
	}
	if report.Buckets[0].Label != "Q1" || report.Buckets[0].Amount != 300 {
		t.Errorf("first bucket = %+v, want Q1/300", report.Buckets[0])
	}
	if report.Buckets[1].Label != "Q4" || report.Buckets[1].Amount != 300 {
		t.Errorf("second bucket = %+v, want Q4/300", report.Buckets[1])
	}
}

func TestAggregateRevenue_EmptyFallsBackToSynthetic(t *testing.T) {
	report := AggregateRevenue(nil, nil, YearBounds(2024), TimeframeMonthly, 60000, gofakeit.New(1))

	if !report.Synthetic {
		t.Fatal("empty payments must produce a synthetic report")
	}
	if len(report.Buckets) != 12 {
		t.Errorf("expected 12 sample month buckets, got %d", len(report.Buckets))
	}
	for _, b := range report.Buckets {
		if b.Amount <= 0 {
			t.Errorf("sample bucket %s has non-positive amount %v", b.Label, b.Amount)
		}
	}
	// Totals still reflect reality: nothing was collected.
	if report.TotalRevenue != 0 {
		t.Errorf("synthetic report must not fabricate totals, got %v", report.TotalRevenue)
	}
}
