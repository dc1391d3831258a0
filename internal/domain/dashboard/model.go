// Package dashboard computes practice dashboard reports from clinical
// records provider data. Every aggregator is a pure function of its fetched
// inputs and the requested period; nothing here reads or writes durable
// state. Report JSON uses camelCase keys, matching the dashboard frontend
// contract.
package dashboard

import "time"

// PeriodBounds are the inclusive bounds a report was computed over.
type PeriodBounds struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// -- Revenue --

// RevenueBucket is one calendar-unit grouping of payments.
type RevenueBucket struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// RevenueReport is the revenue dashboard payload. Synthetic is set when the
// buckets were generated as sample data because the period had no payments;
// consumers must not present synthetic figures as measured revenue.
type RevenueReport struct {
	Period         PeriodBounds    `json:"period"`
	Timeframe      string          `json:"timeframe"`
	TotalRevenue   float64         `json:"totalRevenue"`
	TotalCharges   float64         `json:"totalCharges"`
	CollectionRate float64         `json:"collectionRate"`
	Goal           float64         `json:"goal"`
	Performance    float64         `json:"performance"`
	Buckets        []RevenueBucket `json:"buckets"`
	Synthetic      bool            `json:"synthetic"`
}

// -- Daily huddle --

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type ProviderHuddle struct {
	ProviderID       string  `json:"providerId"`
	Name             string  `json:"name,omitempty"`
	Total            int     `json:"total"`
	Confirmed        int     `json:"confirmed"`
	ConfirmationRate float64 `json:"confirmationRate"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type ProcedureTypeSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Fees  float64 `json:"fees"`
}

type DailyHuddleReport struct {
	Date              string                 `json:"date"`
	TotalAppointments int                    `json:"totalAppointments"`
	ByStatus          []StatusCount          `json:"byStatus"`
	ByProvider        []ProviderHuddle       `json:"byProvider"`
	ByHour            []HourCount            `json:"byHour"`
	ExpectedRevenue   float64                `json:"expectedRevenue"`
	ProcedureTypes    []ProcedureTypeSummary `json:"procedureTypes"`
}

// -- Monthly report --

type DayAmount struct {
	Day    int     `json:"day"`
	Amount float64 `json:"amount"`
}

type CodeCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type MonthlyRevenue struct {
	Total float64     `json:"total"`
	ByDay []DayAmount `json:"byDay"`
}

type MonthlyAppointments struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
	NoShowRate     float64 `json:"noShowRate"`
}

type MonthlyReport struct {
	Year         int                 `json:"year"`
	Month        int                 `json:"month"`
	Revenue      MonthlyRevenue      `json:"revenue"`
	Appointments MonthlyAppointments `json:"appointments"`
	Procedures   []CodeCount         `json:"procedures"`
}

// -- Active patients --

type BandCount struct {
	Band  string `json:"band"`
	Count int    `json:"count"`
}

type ProviderCount struct {
	ProviderID string `json:"providerId"`
	Count      int    `json:"count"`
}

type ActivePatientsReport struct {
	Period            PeriodBounds    `json:"period"`
	NewPatients       int             `json:"newPatients"`
	ReturningPatients int             `json:"returningPatients"`
	AgeBands          []BandCount     `json:"ageBands"`
	ByProvider        []ProviderCount `json:"byProvider"`
}

// -- Treatment success --

// Treatment plan statuses. A plan is an appointment with two or more
// associated procedures.
const (
	PlanCompleted  = "completed"
	PlanInProgress = "in-progress"
	PlanNotStarted = "not-started"
)

type TreatmentPlan struct {
	AppointmentID  string  `json:"appointmentId"`
	ProcedureCount int     `json:"procedureCount"`
	CompletedCount int     `json:"completedCount"`
	CompletionRate float64 `json:"completionRate"`
	Status         string  `json:"status"`
}

type TreatmentSuccessReport struct {
	Period     PeriodBounds    `json:"period"`
	TotalPlans int             `json:"totalPlans"`
	Completed  int             `json:"completed"`
	InProgress int             `json:"inProgress"`
	NotStarted int             `json:"notStarted"`
	Plans      []TreatmentPlan `json:"plans"`
}

// -- Patient satisfaction --

type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// PatientSatisfactionReport is always synthetic: no real survey data exists
// upstream, so scores are simulated from appointment outcomes. The Synthetic
// flag is hardwired so downstream consumers cannot mistake it for measured
// sentiment.
type PatientSatisfactionReport struct {
	Period       PeriodBounds `json:"period"`
	Responses    int          `json:"responses"`
	AverageScore float64      `json:"averageScore"`
	Distribution []ScoreCount `json:"distribution"`
	NPSLike      float64      `json:"npsLike"`
	Synthetic    bool         `json:"synthetic"`
}
