package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *mockProspectRepo, *mockTagRepo) {
	prospects := newMockProspectRepo()
	tags := newMockTagRepo()
	svc := NewService(prospects, newMockCampaignRepo(), tags, nil, nil, newMockProspectTagRepo())
	return NewHandler(svc), prospects, tags
}

func doCRMRequest(h *Handler, method, path, body string) *httptest.ResponseRecorder {
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

func TestCreateProspect_Endpoint(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doCRMRequest(h, http.MethodPost, "/api/v1/crm/prospects",
		`{"first_name":"Ada","last_name":"Ng","email":"ada@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var p Prospect
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID == uuid.Nil {
		t.Error("response missing generated id")
	}
	if p.Status != ProspectNew {
		t.Errorf("status = %q, want %q", p.Status, ProspectNew)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}
}

func TestProspect_CreateThenGetRoundTrip(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doCRMRequest(h, http.MethodPost, "/api/v1/crm/prospects",
		`{"first_name":"Ada","last_name":"Ng","email":"ada@example.com","phone":"555-0100","source":"referral"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created Prospect
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	rec = doCRMRequest(h, http.MethodGet, "/api/v1/crm/prospects/"+created.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Prospect
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	if got.FirstName != "Ada" || got.LastName != "Ng" {
		t.Errorf("name = %s %s, want Ada Ng", got.FirstName, got.LastName)
	}
	if got.Email == nil || *got.Email != "ada@example.com" {
		t.Errorf("email = %v, want ada@example.com", got.Email)
	}
	if got.Phone == nil || *got.Phone != "555-0100" {
		t.Errorf("phone = %v, want 555-0100", got.Phone)
	}
	if got.Source == nil || *got.Source != "referral" {
		t.Errorf("source = %v, want referral", got.Source)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("updated_at %v precedes created_at %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestCreateProspect_StorageFailureIs500(t *testing.T) {
	h, prospects, _ := newTestHandler()
	prospects.createErr = errors.New("connection refused")

	rec := doCRMRequest(h, http.MethodPost, "/api/v1/crm/prospects",
		`{"first_name":"Ada","last_name":"Ng"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for a storage failure", rec.Code)
	}
}

func TestCreateProspect_MalformedJSON(t *testing.T) {
	h, _, _ := newTestHandler()
	rec := doCRMRequest(h, http.MethodPost, "/api/v1/crm/prospects", `{"first_name": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateProspect_MissingField(t *testing.T) {
	h, _, _ := newTestHandler()
	rec := doCRMRequest(h, http.MethodPost, "/api/v1/crm/prospects", `{"first_name":"Ada"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "last_name") {
		t.Errorf("error should name the missing field, got %s", rec.Body.String())
	}
}

func TestGetProspect_NotFound(t *testing.T) {
	h, _, _ := newTestHandler()
	rec := doCRMRequest(h, http.MethodGet, "/api/v1/crm/prospects/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetProspect_InvalidID(t *testing.T) {
	h, _, _ := newTestHandler()
	rec := doCRMRequest(h, http.MethodGet, "/api/v1/crm/prospects/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteProspect(t *testing.T) {
	h, prospects, _ := newTestHandler()

	p := &Prospect{FirstName: "Ada", LastName: "Ng", Status: ProspectNew}
	if err := prospects.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	rec := doCRMRequest(h, http.MethodDelete, "/api/v1/crm/prospects/"+p.ID.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doCRMRequest(h, http.MethodDelete, "/api/v1/crm/prospects/"+p.ID.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateTag_ConflictEndpoint(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doCRMRequest(h, http.MethodPost, "/api/v1/crm/tags", `{"name":"vip"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}

	rec = doCRMRequest(h, http.MethodPost, "/api/v1/crm/tags", `{"name":"vip"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vip") {
		t.Errorf("conflict message should carry the tag name, got %s", rec.Body.String())
	}
}

func TestListProspects_PaginationEnvelope(t *testing.T) {
	h, prospects, _ := newTestHandler()
	for _, name := range []string{"Ada", "Ben", "Cleo"} {
		if err := prospects.Create(context.Background(), &Prospect{FirstName: name, LastName: "X", Status: ProspectNew}); err != nil {
			t.Fatal(err)
		}
	}

	rec := doCRMRequest(h, http.MethodGet, "/api/v1/crm/prospects?page=1&per_page=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data       []Prospect `json:"data"`
		Pagination struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			PerPage    int `json:"per_page"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Pagination.Total)
	}
	if resp.Pagination.Page != 1 || resp.Pagination.PerPage != 2 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
}

func TestUpdateCampaign_InvalidChannel(t *testing.T) {
	h, _, _ := newTestHandler()
	rec := doCRMRequest(h, http.MethodPost, "/api/v1/crm/campaigns",
		`{"name":"spring recall","channel":"pigeon"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
