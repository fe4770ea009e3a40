package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"

	auditdomain "github.com/ArthurHiago/CRM/internal/audit/domain"
)

func TestListAuditLogsParsesDayBounds(t *testing.T) {
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: &fakeCustomerService{}, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodGet, "/audit-logs?start_at=2026-02-01&end_at=2026-02-03&action=customer.create", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if auditSvc.listCalls != 1 {
		t.Fatalf("expected one list call, got %d", auditSvc.listCalls)
	}

	query := auditSvc.lastList
	if query.Action != "customer.create" {
		t.Fatalf("expected action filter, got %q", query.Action)
	}

	wantStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if query.StartAt == nil || !query.StartAt.Equal(wantStart) {
		t.Fatalf("expected start of day %v, got %v", wantStart, query.StartAt)
	}

	wantEnd := time.Date(2026, 2, 3, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if query.EndAt == nil || !query.EndAt.Equal(wantEnd) {
		t.Fatalf("expected end of day %v, got %v", wantEnd, query.EndAt)
	}
}

func TestListAuditLogsAcceptsRFC3339(t *testing.T) {
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: &fakeCustomerService{}, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodGet, "/audit-logs?start_at=2026-02-01T05:30:00Z", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	want := time.Date(2026, 2, 1, 5, 30, 0, 0, time.UTC)
	if auditSvc.lastList.StartAt == nil || !auditSvc.lastList.StartAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, auditSvc.lastList.StartAt)
	}
}

func TestListAuditLogsRejectsMalformedStart(t *testing.T) {
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: &fakeCustomerService{}, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodGet, "/audit-logs?start_at=notadate", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Field != "start_at" || body.Error.Errors[0].Code != "invalid_start_at" {
		t.Fatalf("unexpected error detail %+v", body.Error.Errors)
	}
	if auditSvc.listCalls != 0 {
		t.Fatalf("expected service untouched, got %d calls", auditSvc.listCalls)
	}
}

func TestListAuditLogsRejectsMalformedEnd(t *testing.T) {
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: &fakeCustomerService{}, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodGet, "/audit-logs?end_at=2026-13-99", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Field != "end_at" || body.Error.Errors[0].Code != "invalid_end_at" {
		t.Fatalf("unexpected error detail %+v", body.Error.Errors)
	}
}

func TestListAuditLogsReturnsDataEnvelope(t *testing.T) {
	auditSvc := &fakeAuditService{
		listResp: []auditdomain.AuditLog{
			{
				ID:         snowflake.ID(123),
				Action:     "customer.create",
				TargetType: "customer",
				CreatedAt:  time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	router := newTestRouter(&Server{customerSvc: &fakeCustomerService{}, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodGet, "/audit-logs?target_type=customer&target_id=7", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if auditSvc.lastList.TargetType != "customer" || auditSvc.lastList.TargetID != "7" {
		t.Fatalf("expected target filters, got %+v", auditSvc.lastList)
	}

	var body struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0]["action"] != "customer.create" {
		t.Fatalf("unexpected data envelope %v", body.Data)
	}
}
