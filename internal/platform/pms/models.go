package pms

import (
	"fmt"
	"strings"
	"time"
)

// Appointment statuses used by the provider. Anything else is reported
// verbatim in status breakdowns.
const (
	ApptConfirmed   = "confirmed"
	ApptUnconfirmed = "unconfirmed"
	ApptCheckedIn   = "checked_in"
	ApptCompleted   = "completed"
	ApptCancelled   = "cancelled"
	ApptNoShow      = "no_show"
)

// Timestamp decodes both RFC 3339 timestamps and bare dates, which the
// provider mixes freely across resources.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339) + `"`), nil
}

// Appointment is a provider appointment record.
type Appointment struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patient_id"`
	ProviderID string    `json:"provider_id"`
	StartTime  Timestamp `json:"start_time"`
	EndTime    Timestamp `json:"end_time"`
	Status     string    `json:"status"`
	Operatory  string    `json:"operatory,omitempty"`
	Type       string    `json:"type,omitempty"`
}

// Procedure is a provider procedure record. AppointmentID is empty for
// procedures not yet attached to a visit.
type Procedure struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointment_id,omitempty"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Fee           float64   `json:"fee"`
	Status        string    `json:"status"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at"`
}

// Payment is a provider payment record.
type Payment struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	CreatedAt Timestamp `json:"created_at"`
}

// Provider is a clinician record.
type Provider struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns "First Last", tolerating missing parts.
func (p Provider) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Patient is a provider patient record.
type Patient struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate Timestamp `json:"birth_date"`
	CreatedAt Timestamp `json:"created_at"`
}

// Document is a patient document reference. Reports use the filename to
// heuristically classify survey responses.
type Document struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Filename  string    `json:"filename"`
	CreatedAt Timestamp `json:"created_at"`
}
