package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	auditdomain "github.com/ArthurHiago/CRM/internal/audit/domain"
	customerdomain "github.com/ArthurHiago/CRM/internal/customer/domain"
)

type fakeCustomerService struct {
	createCalls int
	lastCreate  customerdomain.CreateCustomerRequest
	createResp  customerdomain.Customer
	createErr   error

	listCalls int
	lastList  customerdomain.ListCustomerRequest
	listResp  []customerdomain.Customer
	listErr   error

	getCalls int
	lastGet  customerdomain.GetCustomerRequest
	getResp  customerdomain.Customer
	getErr   error

	updateCalls int
	lastUpdate  customerdomain.UpdateCustomerRequest
	updateResp  customerdomain.Customer
	updateErr   error

	deleteCalls int
	lastDelete  customerdomain.DeleteCustomerRequest
	deleteResp  customerdomain.DeleteCustomerResponse
	deleteErr   error
}

func (f *fakeCustomerService) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	f.createCalls++
	f.lastCreate = req
	_ = ctx
	return f.createResp, f.createErr
}

func (f *fakeCustomerService) List(ctx context.Context, req customerdomain.ListCustomerRequest) ([]customerdomain.Customer, error) {
	f.listCalls++
	f.lastList = req
	_ = ctx
	return f.listResp, f.listErr
}

func (f *fakeCustomerService) GetByID(ctx context.Context, req customerdomain.GetCustomerRequest) (customerdomain.Customer, error) {
	f.getCalls++
	f.lastGet = req
	_ = ctx
	return f.getResp, f.getErr
}

func (f *fakeCustomerService) Update(ctx context.Context, req customerdomain.UpdateCustomerRequest) (customerdomain.Customer, error) {
	f.updateCalls++
	f.lastUpdate = req
	_ = ctx
	return f.updateResp, f.updateErr
}

func (f *fakeCustomerService) Delete(ctx context.Context, req customerdomain.DeleteCustomerRequest) (customerdomain.DeleteCustomerResponse, error) {
	f.deleteCalls++
	f.lastDelete = req
	_ = ctx
	return f.deleteResp, f.deleteErr
}

type fakeAuditService struct {
	logCalls       int
	lastAction     string
	lastTargetType string
	lastTargetID   *string
	lastMetadata   map[string]any
	logErr         error

	listCalls int
	lastList  auditdomain.ListAuditLogRequest
	listResp  []auditdomain.AuditLog
	listErr   error
}

func (f *fakeAuditService) AuditLog(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) error {
	f.logCalls++
	f.lastAction = action
	f.lastTargetType = targetType
	f.lastTargetID = targetID
	f.lastMetadata = metadata
	_ = ctx
	return f.logErr
}

func (f *fakeAuditService) List(ctx context.Context, req auditdomain.ListAuditLogRequest) ([]auditdomain.AuditLog, error) {
	f.listCalls++
	f.lastList = req
	_ = ctx
	return f.listResp, f.listErr
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func newTestRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/customers", srv.ListCustomers)
	router.POST("/customers", srv.CreateCustomer)
	router.GET("/customers/:id", srv.GetCustomerByID)
	router.PATCH("/customers/:id", srv.UpdateCustomer)
	router.DELETE("/customers/:id", srv.DeleteCustomer)
	router.GET("/audit-logs", srv.ListAuditLogs)
	return router
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func testStrptr(value string) *string {
	return &value
}

func TestCreateCustomerReturnsDataEnvelope(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	customerSvc := &fakeCustomerService{
		createResp: customerdomain.Customer{
			ID:        7,
			Name:      "Ada",
			Email:     "ada@example.com",
			Phone:     testStrptr("555-0100"),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString(`{"name":" Ada ","email":" ada@example.com ","phone":"555-0100"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if customerSvc.lastCreate.Name != "Ada" || customerSvc.lastCreate.Email != "ada@example.com" {
		t.Fatalf("expected trimmed input, got %q <%s>", customerSvc.lastCreate.Name, customerSvc.lastCreate.Email)
	}

	var body struct {
		Data customerdomain.Customer `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.ID != 7 || body.Data.Email != "ada@example.com" {
		t.Fatalf("unexpected data envelope %+v", body.Data)
	}

	if auditSvc.logCalls != 1 || auditSvc.lastAction != "customer.create" {
		t.Fatalf("expected create audit entry, got %d calls action %q", auditSvc.logCalls, auditSvc.lastAction)
	}
	if auditSvc.lastTargetType != "customer" {
		t.Fatalf("expected customer target type, got %q", auditSvc.lastTargetType)
	}
	if auditSvc.lastTargetID == nil || *auditSvc.lastTargetID != "7" {
		t.Fatalf("expected target id 7, got %v", auditSvc.lastTargetID)
	}
	if auditSvc.lastMetadata["customer_id"] != "7" || auditSvc.lastMetadata["email"] != "ada@example.com" {
		t.Fatalf("unexpected audit metadata %v", auditSvc.lastMetadata)
	}
}

func TestCreateCustomerRejectsMalformedJSON(t *testing.T) {
	customerSvc := &fakeCustomerService{}
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Type)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Code != "invalid_request" || body.Error.Errors[0].Field != "request" {
		t.Fatalf("unexpected error detail %+v", body.Error.Errors)
	}
	if customerSvc.createCalls != 0 {
		t.Fatalf("expected service untouched, got %d calls", customerSvc.createCalls)
	}
	if auditSvc.logCalls != 0 {
		t.Fatalf("expected no audit entry, got %d calls", auditSvc.logCalls)
	}
}

func TestCreateCustomerDuplicateEmailEnvelope(t *testing.T) {
	customerSvc := &fakeCustomerService{createErr: customerdomain.ErrDuplicateEmail}
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Error.Type != "validation_error" || body.Error.Message != "validation error" {
		t.Fatalf("unexpected error header %+v", body.Error)
	}
	if len(body.Error.Errors) != 1 {
		t.Fatalf("expected single error entry, got %d", len(body.Error.Errors))
	}
	detail := body.Error.Errors[0]
	if detail.Field != "email" || detail.Code != "duplicate_email" || detail.Message != "email already registered" {
		t.Fatalf("unexpected duplicate email detail %+v", detail)
	}
	if auditSvc.logCalls != 0 {
		t.Fatalf("expected no audit entry on failure, got %d", auditSvc.logCalls)
	}
}

func TestCreateCustomerValidationFieldMapping(t *testing.T) {
	customerSvc := &fakeCustomerService{createErr: customerdomain.ErrInvalidEmail}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: &fakeAuditService{}})

	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString(`{"name":"Ada","email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if len(body.Error.Errors) != 1 {
		t.Fatalf("expected single error entry, got %d", len(body.Error.Errors))
	}
	detail := body.Error.Errors[0]
	if detail.Field != "email" || detail.Code != "invalid_email" || detail.Message != "invalid value" {
		t.Fatalf("unexpected validation detail %+v", detail)
	}
}

func TestCreateCustomerAuditFailureDoesNotFailRequest(t *testing.T) {
	customerSvc := &fakeCustomerService{
		createResp: customerdomain.Customer{ID: 7, Name: "Ada", Email: "ada@example.com"},
	}
	auditSvc := &fakeAuditService{logErr: errors.New("audit store unavailable")}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 despite audit failure, got %d", resp.Code)
	}
	if auditSvc.logCalls != 1 {
		t.Fatalf("expected audit attempt, got %d calls", auditSvc.logCalls)
	}
}

func TestListCustomersBindsWindow(t *testing.T) {
	customerSvc := &fakeCustomerService{
		listResp: []customerdomain.Customer{{ID: 6, Name: "A", Email: "a@example.com"}, {ID: 7, Name: "B", Email: "b@example.com"}},
	}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: &fakeAuditService{}})

	req := httptest.NewRequest(http.MethodGet, "/customers?offset=5&limit=2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if customerSvc.lastList.Page.Offset != 5 {
		t.Fatalf("expected offset 5, got %d", customerSvc.lastList.Page.Offset)
	}
	if customerSvc.lastList.Page.Limit == nil || *customerSvc.lastList.Page.Limit != 2 {
		t.Fatalf("expected limit 2, got %v", customerSvc.lastList.Page.Limit)
	}

	var body struct {
		Data []customerdomain.Customer `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(body.Data))
	}

	req = httptest.NewRequest(http.MethodGet, "/customers", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if customerSvc.lastList.Page.Offset != 0 || customerSvc.lastList.Page.Limit != nil {
		t.Fatalf("expected empty window to stay unset, got %+v", customerSvc.lastList.Page)
	}
}

func TestGetCustomerNotFoundEnvelope(t *testing.T) {
	customerSvc := &fakeCustomerService{getErr: customerdomain.ErrNotFound}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: &fakeAuditService{}})

	req := httptest.NewRequest(http.MethodGet, "/customers/999999", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Error.Type != "not_found" || body.Error.Message != "not found" {
		t.Fatalf("unexpected not found envelope %+v", body.Error)
	}
	if len(body.Error.Errors) != 0 {
		t.Fatalf("expected no error details, got %+v", body.Error.Errors)
	}
}

func TestGetCustomerInvalidIDEnvelope(t *testing.T) {
	customerSvc := &fakeCustomerService{getErr: customerdomain.ErrInvalidID}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: &fakeAuditService{}})

	req := httptest.NewRequest(http.MethodGet, "/customers/abc", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if customerSvc.lastGet.ID != "abc" {
		t.Fatalf("expected raw id to reach the service, got %q", customerSvc.lastGet.ID)
	}
	body := decodeError(t, resp)
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Code != "invalid_id" || body.Error.Errors[0].Field != "id" {
		t.Fatalf("unexpected invalid id detail %+v", body.Error.Errors)
	}
}

func TestUpdateCustomerAuditsSubmittedFields(t *testing.T) {
	customerSvc := &fakeCustomerService{
		updateResp: customerdomain.Customer{ID: 7, Name: "Grace", Email: "ada@example.com", Phone: testStrptr("")},
	}
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodPatch, "/customers/7", bytes.NewBufferString(`{"name":"Grace","phone":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if customerSvc.lastUpdate.ID != "7" {
		t.Fatalf("expected id 7, got %q", customerSvc.lastUpdate.ID)
	}
	if customerSvc.lastUpdate.Name == nil || *customerSvc.lastUpdate.Name != "Grace" {
		t.Fatalf("expected name pointer, got %v", customerSvc.lastUpdate.Name)
	}
	if customerSvc.lastUpdate.Phone == nil || *customerSvc.lastUpdate.Phone != "" {
		t.Fatalf("expected empty phone pointer, got %v", customerSvc.lastUpdate.Phone)
	}
	if customerSvc.lastUpdate.Email != nil || customerSvc.lastUpdate.Company != nil {
		t.Fatalf("expected omitted fields to stay nil")
	}

	if auditSvc.lastAction != "customer.update" {
		t.Fatalf("expected update audit entry, got %q", auditSvc.lastAction)
	}
	if _, ok := auditSvc.lastMetadata["name"]; !ok {
		t.Fatalf("expected name in audit metadata, got %v", auditSvc.lastMetadata)
	}
	if _, ok := auditSvc.lastMetadata["phone"]; !ok {
		t.Fatalf("expected phone in audit metadata, got %v", auditSvc.lastMetadata)
	}
	if _, ok := auditSvc.lastMetadata["email"]; ok {
		t.Fatalf("expected omitted email absent from audit metadata, got %v", auditSvc.lastMetadata)
	}
}

func TestDeleteCustomerEnvelope(t *testing.T) {
	customerSvc := &fakeCustomerService{
		deleteResp: customerdomain.DeleteCustomerResponse{Message: "customer deleted"},
	}
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodDelete, "/customers/7", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body struct {
		Data customerdomain.DeleteCustomerResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.Message != "customer deleted" {
		t.Fatalf("unexpected delete message %q", body.Data.Message)
	}

	if auditSvc.lastAction != "customer.delete" {
		t.Fatalf("expected delete audit entry, got %q", auditSvc.lastAction)
	}
	if auditSvc.lastTargetID == nil || *auditSvc.lastTargetID != "7" {
		t.Fatalf("expected target id 7, got %v", auditSvc.lastTargetID)
	}
}

func TestDeleteCustomerNotFoundSkipsAudit(t *testing.T) {
	customerSvc := &fakeCustomerService{deleteErr: customerdomain.ErrNotFound}
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: auditSvc})

	req := httptest.NewRequest(http.MethodDelete, "/customers/999999", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if auditSvc.logCalls != 0 {
		t.Fatalf("expected no audit entry, got %d calls", auditSvc.logCalls)
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	customerSvc := &fakeCustomerService{getErr: errors.New("pq: connection refused")}
	router := newTestRouter(&Server{customerSvc: customerSvc, auditSvc: &fakeAuditService{}})

	req := httptest.NewRequest(http.MethodGet, "/customers/7", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	body := decodeError(t, resp)
	if body.Error.Type != "internal_error" || body.Error.Message != "internal server error" {
		t.Fatalf("unexpected internal error envelope %+v", body.Error)
	}
	if strings.Contains(resp.Body.String(), "connection refused") {
		t.Fatalf("expected driver error hidden from response, got %s", resp.Body.String())
	}
}
