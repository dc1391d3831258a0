package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

// mockSource returns canned collections, or a fixed error when set.
type mockSource struct {
	appointments []pms.Appointment
	patients     []pms.Patient
	procedures   []pms.Procedure
	payments     []pms.Payment
	providers    []pms.Provider
	documents    []pms.Document
	err          error
}

func (m *mockSource) Appointments(_ context.Context, _, _ time.Time) ([]pms.Appointment, error) {
	return m.appointments, m.err
}
func (m *mockSource) Patients(_ context.Context, _, _ time.Time) ([]pms.Patient, error) {
	return m.patients, m.err
}
func (m *mockSource) Procedures(_ context.Context, _, _ time.Time) ([]pms.Procedure, error) {
	return m.procedures, m.err
}
func (m *mockSource) Payments(_ context.Context, _, _ time.Time) ([]pms.Payment, error) {
	return m.payments, m.err
}
func (m *mockSource) Providers(_ context.Context) ([]pms.Provider, error) {
	return m.providers, m.err
}
func (m *mockSource) Documents(_ context.Context, _, _ time.Time) ([]pms.Document, error) {
	return m.documents, m.err
}

func doRequest(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	api := e.Group("/api/v1")
	h.RegisterRoutes(api)
	e.ServeHTTP(rec, req)
	return rec
}

func TestMonthlyReportEndpoint_Scenario(t *testing.T) {
	source := &mockSource{
		payments: []pms.Payment{
			{ID: "p1", Amount: 100, CreatedAt: ts(2024, time.February, 5)},
			{ID: "p2", Amount: 50, CreatedAt: ts(2024, time.February, 5)},
		},
	}
	h := NewHandler(NewService(source, 50000))

	rec := doRequest(t, h, "/api/v1/dashboard/monthly-report?year=2024&month=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report MonthlyReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Revenue.Total != 150 {
		t.Errorf("revenue.total = %v, want 150", report.Revenue.Total)
	}
	if len(report.Revenue.ByDay) != 1 || report.Revenue.ByDay[0].Day != 5 || report.Revenue.ByDay[0].Amount != 150 {
		t.Errorf("revenue.byDay = %+v, want [{5 150}]", report.Revenue.ByDay)
	}
	if report.Appointments.Total != 0 || report.Appointments.CompletionRate != 0 {
		t.Errorf("appointments = %+v, want zeroes", report.Appointments)
	}
}

func TestMonthlyReportEndpoint_Validation(t *testing.T) {
	h := NewHandler(NewService(&mockSource{}, 50000))

	for _, path := range []string{
		"/api/v1/dashboard/monthly-report",
		"/api/v1/dashboard/monthly-report?year=2024&month=13",
		"/api/v1/dashboard/monthly-report?year=abc&month=2",
	} {
		if rec := doRequest(t, h, path); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestRevenueEndpoint_InvalidTimeframe(t *testing.T) {
	h := NewHandler(NewService(&mockSource{}, 50000))
	rec := doRequest(t, h, "/api/v1/dashboard/revenue?timeframe=weekly")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDashboard_UpstreamStatusForwarded(t *testing.T) {
	source := &mockSource{err: &pms.UpstreamError{StatusCode: http.StatusServiceUnavailable, Body: "provider down"}}
	h := NewHandler(NewService(source, 50000))

	rec := doRequest(t, h, "/api/v1/dashboard/treatment-success")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want upstream 503 forwarded", rec.Code)
	}
}

func TestDashboard_InvalidPeriod(t *testing.T) {
	h := NewHandler(NewService(&mockSource{}, 50000))
	rec := doRequest(t, h, "/api/v1/dashboard/active-patients?period=2days")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRevenueEndpoint_SyntheticFlagged(t *testing.T) {
	h := NewHandler(NewService(&mockSource{}, 50000))

	rec := doRequest(t, h, "/api/v1/dashboard/revenue?timeframe=monthly&year=2024")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report RevenueReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Synthetic {
		t.Error("empty provider data must yield synthetic-flagged revenue report")
	}
}
