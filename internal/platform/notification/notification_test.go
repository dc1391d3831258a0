package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestManager() (*Manager, *MockEmailSender, *MockSMSSender) {
	email := &MockEmailSender{}
	sms := &MockSMSSender{}
	return NewManager(email, sms, NewTemplateEngine()), email, sms
}

func TestRender_Substitution(t *testing.T) {
	engine := NewTemplateEngine()

	subject, body, err := engine.Render("appointment-reminder", map[string]string{
		"patient_name": "Maria Lopez",
		"date":         "2026-03-04",
		"time":         "10:30",
		"provider":     "Dr. Chen",
	})
	if err != nil {
		t.Fatal(err)
	}
	if subject != "Appointment Reminder for Maria Lopez" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "2026-03-04") || !strings.Contains(body, "Dr. Chen") {
		t.Errorf("body missing substitutions: %q", body)
	}
}

func TestRender_MissingKeysLeftIntact(t *testing.T) {
	engine := NewTemplateEngine()

	_, body, err := engine.Render("recall-due", map[string]string{"patient_name": "Sam"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body, "{{months}}") {
		t.Errorf("unresolved placeholder should remain, body = %q", body)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	engine := NewTemplateEngine()
	if _, _, err := engine.Render("does-not-exist", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestSend_Email(t *testing.T) {
	mgr, email, _ := newTestManager()

	n := &Notification{Type: TypeEmail, Recipient: "pt@example.com", Subject: "hi", Body: "hello"}
	if err := mgr.Send(context.Background(), n); err != nil {
		t.Fatal(err)
	}

	if n.Status != "sent" || n.SentAt == nil {
		t.Errorf("notification = %+v, want sent with timestamp", n)
	}
	calls := email.Calls()
	if len(calls) != 1 || calls[0].To != "pt@example.com" {
		t.Errorf("email calls = %+v", calls)
	}
}

func TestSend_FailureRecorded(t *testing.T) {
	mgr, email, _ := newTestManager()
	email.ShouldFail = true
	email.FailError = "smtp unreachable"

	n := &Notification{Type: TypeEmail, Recipient: "pt@example.com", Body: "hello"}
	if err := mgr.Send(context.Background(), n); err == nil {
		t.Fatal("expected send error")
	}
	if n.Status != "failed" || n.Error != "smtp unreachable" {
		t.Errorf("notification = %+v, want failed with error", n)
	}

	stored, err := mgr.Get(context.Background(), n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != "failed" {
		t.Errorf("stored status = %q, want failed", stored.Status)
	}
}

func TestRetry_OnlyFailed(t *testing.T) {
	mgr, email, _ := newTestManager()

	email.ShouldFail = true
	email.FailError = "down"
	n := &Notification{Type: TypeEmail, Recipient: "pt@example.com", Body: "hello"}
	_ = mgr.Send(context.Background(), n)

	email.ShouldFail = false
	if err := mgr.Retry(context.Background(), n.ID); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if n.Status != "sent" || n.Error != "" {
		t.Errorf("after retry: %+v", n)
	}

	// A sent notification must not be retried again.
	if err := mgr.Retry(context.Background(), n.ID); err == nil {
		t.Error("expected error retrying a sent notification")
	}
}

func TestSendFromTemplate_SMS(t *testing.T) {
	mgr, _, sms := newTestManager()

	n, err := mgr.SendFromTemplate(context.Background(), "appointment-reminder-sms",
		map[string]string{"patient_name": "Sam", "date": "Tue", "time": "9:00", "provider": "Dr. Ito"},
		"+15550100")
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != TypeSMS {
		t.Errorf("type = %q, want sms", n.Type)
	}
	calls := sms.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0].Body, "Dr. Ito") {
		t.Errorf("sms calls = %+v", calls)
	}
}

func TestStats(t *testing.T) {
	mgr, email, _ := newTestManager()

	_ = mgr.Send(context.Background(), &Notification{Type: TypeEmail, Recipient: "a@x.com", Body: "1"})
	email.ShouldFail = true
	email.FailError = "x"
	_ = mgr.Send(context.Background(), &Notification{Type: TypeEmail, Recipient: "b@x.com", Body: "2"})

	stats := mgr.Stats(context.Background())
	if stats["sent"] != 1 || stats["failed"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func notifyRequest(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.RegisterRoutes(e.Group("/api/v1"))
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandleSend_Endpoint(t *testing.T) {
	mgr, _, _ := newTestManager()
	h := NewHandler(mgr)

	rec := notifyRequest(h, http.MethodPost, "/api/v1/notifications",
		`{"type":"email","recipient":"pt@example.com","subject":"hi","body":"hello"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var n Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatal(err)
	}
	if n.ID == "" || n.Status != "sent" {
		t.Errorf("response = %+v", n)
	}
}

func TestHandleSend_MissingRecipient(t *testing.T) {
	mgr, _, _ := newTestManager()
	h := NewHandler(mgr)

	rec := notifyRequest(h, http.MethodPost, "/api/v1/notifications", `{"type":"email","body":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSend_RejectsUnknownType(t *testing.T) {
	mgr, email, sms := newTestManager()
	h := NewHandler(mgr)

	rec := notifyRequest(h, http.MethodPost, "/api/v1/notifications",
		`{"type":"fax","recipient":"pt@example.com","body":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", rec.Code)
	}

	rec = notifyRequest(h, http.MethodPost, "/api/v1/notifications",
		`{"recipient":"pt@example.com","body":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty type status = %d, want 400", rec.Code)
	}

	if len(email.Calls()) != 0 || len(sms.Calls()) != 0 {
		t.Error("no dispatch should happen for rejected requests")
	}
}

func TestHandleTemplates_Endpoint(t *testing.T) {
	mgr, _, _ := newTestManager()
	h := NewHandler(mgr)

	rec := notifyRequest(h, http.MethodGet, "/api/v1/notifications/templates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var templates []Template
	if err := json.Unmarshal(rec.Body.Bytes(), &templates); err != nil {
		t.Fatal(err)
	}
	if len(templates) == 0 {
		t.Fatal("no built-in templates returned")
	}
	found := false
	for _, tpl := range templates {
		if tpl.ID == "appointment-reminder" {
			found = true
		}
	}
	if !found {
		t.Error("appointment-reminder template missing")
	}
}

func TestHandleList_RequiresRecipient(t *testing.T) {
	mgr, _, _ := newTestManager()
	h := NewHandler(mgr)

	rec := notifyRequest(h, http.MethodGet, "/api/v1/notifications", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
