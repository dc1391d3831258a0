package dashboard

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/sync/errgroup"

	"github.com/dentalops/practice-api/internal/platform/pms"
)

// ClinicalSource is the slice of the provider client the dashboard needs.
type ClinicalSource interface {
	Appointments(ctx context.Context, from, to time.Time) ([]pms.Appointment, error)
	Patients(ctx context.Context, from, to time.Time) ([]pms.Patient, error)
	Procedures(ctx context.Context, from, to time.Time) ([]pms.Procedure, error)
	Payments(ctx context.Context, from, to time.Time) ([]pms.Payment, error)
	Providers(ctx context.Context) ([]pms.Provider, error)
	Documents(ctx context.Context, from, to time.Time) ([]pms.Document, error)
}

// Service fetches provider collections and reduces them into reports. Fetches
// for independent resources run concurrently; aggregation starts only after
// every input has resolved, and any fetch error fails the whole report.
type Service struct {
	source      ClinicalSource
	monthlyGoal float64
	faker       *gofakeit.Faker
	now         func() time.Time
}

func NewService(source ClinicalSource, monthlyGoal float64) *Service {
	return &Service{
		source:      source,
		monthlyGoal: monthlyGoal,
		faker:       gofakeit.New(0),
		now:         time.Now,
	}
}

func (s *Service) Revenue(ctx context.Context, timeframe string, year int) (*RevenueReport, error) {
	period := YearBounds(year)

	var payments []pms.Payment
	var procedures []pms.Procedure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = s.source.Payments(gctx, period.From, period.To)
		return err
	})
	g.Go(func() (err error) {
		procedures, err = s.source.Procedures(gctx, period.From, period.To)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregateRevenue(payments, procedures, period, timeframe, s.monthlyGoal*12, s.faker), nil
}

func (s *Service) DailyHuddle(ctx context.Context, date time.Time) (*DailyHuddleReport, error) {
	day := DayBounds(date)

	var appointments []pms.Appointment
	var procedures []pms.Procedure
	var providers []pms.Provider
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		appointments, err = s.source.Appointments(gctx, day.From, day.To)
		return err
	})
	g.Go(func() (err error) {
		procedures, err = s.source.Procedures(gctx, day.From, day.To)
		return err
	})
	g.Go(func() (err error) {
		providers, err = s.source.Providers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregateDailyHuddle(appointments, procedures, providers, day), nil
}

func (s *Service) Monthly(ctx context.Context, year, month int) (*MonthlyReport, error) {
	period := MonthBounds(year, month)

	var payments []pms.Payment
	var appointments []pms.Appointment
	var procedures []pms.Procedure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = s.source.Payments(gctx, period.From, period.To)
		return err
	})
	g.Go(func() (err error) {
		appointments, err = s.source.Appointments(gctx, period.From, period.To)
		return err
	})
	g.Go(func() (err error) {
		procedures, err = s.source.Procedures(gctx, period.From, period.To)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregateMonthly(payments, appointments, procedures, year, month), nil
}

func (s *Service) ActivePatients(ctx context.Context, period PeriodBounds) (*ActivePatientsReport, error) {
	var patients []pms.Patient
	var appointments []pms.Appointment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		patients, err = s.source.Patients(gctx, period.From, period.To)
		return err
	})
	g.Go(func() (err error) {
		appointments, err = s.source.Appointments(gctx, period.From, period.To)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregateActivePatients(patients, appointments, period, s.now()), nil
}

func (s *Service) TreatmentSuccess(ctx context.Context, period PeriodBounds) (*TreatmentSuccessReport, error) {
	var appointments []pms.Appointment
	var procedures []pms.Procedure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		appointments, err = s.source.Appointments(gctx, period.From, period.To)
		return err
	})
	g.Go(func() (err error) {
		procedures, err = s.source.Procedures(gctx, period.From, period.To)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregateTreatmentSuccess(appointments, procedures, period), nil
}

func (s *Service) PatientSatisfaction(ctx context.Context, period PeriodBounds) (*PatientSatisfactionReport, error) {
	var documents []pms.Document
	var appointments []pms.Appointment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		documents, err = s.source.Documents(gctx, period.From, period.To)
		return err
	})
	g.Go(func() (err error) {
		appointments, err = s.source.Appointments(gctx, period.From, period.To)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregatePatientSatisfaction(documents, appointments, period, s.faker), nil
}
