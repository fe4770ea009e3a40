package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	customerdomain "github.com/ArthurHiago/CRM/internal/customer/domain"
	"github.com/ArthurHiago/CRM/pkg/db/pagination"
)

type createCustomerRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

type updateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   req.Phone,
		Company: req.Company,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditCustomerChange(c, "customer.create", resp.ID, map[string]any{
		"name":  resp.Name,
		"email": resp.Email,
	})
	s.obsMetrics.RecordCustomerWrite(c.Request.Context(), "create")

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Page: query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	meta := map[string]any{}
	if req.Name != nil {
		meta["name"] = *req.Name
	}
	if req.Email != nil {
		meta["email"] = *req.Email
	}
	if req.Phone != nil {
		meta["phone"] = *req.Phone
	}
	if req.Company != nil {
		meta["company"] = *req.Company
	}
	s.auditCustomerChange(c, "customer.update", resp.ID, meta)
	s.obsMetrics.RecordCustomerWrite(c.Request.Context(), "update")

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	parsed, parseErr := customerdomain.ParseID(id)

	resp, err := s.customerSvc.Delete(c.Request.Context(), customerdomain.DeleteCustomerRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if parseErr == nil {
		s.auditCustomerChange(c, "customer.delete", parsed, nil)
	}
	s.obsMetrics.RecordCustomerWrite(c.Request.Context(), "delete")

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// auditCustomerChange records the mutation on the audit trail. Failures are
// logged by the audit service and never fail the request.
func (s *Server) auditCustomerChange(c *gin.Context, action string, customerID int64, meta map[string]any) {
	if s.auditSvc == nil {
		return
	}

	targetID := strconv.FormatInt(customerID, 10)
	payload := map[string]any{"customer_id": targetID}
	for key, value := range meta {
		payload[key] = value
	}

	if err := s.auditSvc.AuditLog(c.Request.Context(), action, "customer", &targetID, payload); err == nil {
		s.obsMetrics.RecordAuditEntry(c.Request.Context(), action)
	}
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrDuplicateEmail):
		return true
	default:
		return false
	}
}
