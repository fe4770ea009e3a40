package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ArthurHiago/CRM/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

type ListCustomerRequest struct {
	Page pagination.Pagination
}

type GetCustomerRequest struct {
	ID string
}

// UpdateCustomerRequest carries a partial update. Only non-nil fields are
// applied; name and email may not be cleared, phone and company may.
type UpdateCustomerRequest struct {
	ID      string
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

type DeleteCustomerRequest struct {
	ID string
}

type DeleteCustomerResponse struct {
	Message string `json:"message"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) ([]Customer, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(context.Context, DeleteCustomerRequest) (DeleteCustomerResponse, error)
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidID      = errors.New("invalid_id")
	ErrDuplicateEmail = errors.New("duplicate_email")
	ErrNotFound       = errors.New("not_found")
)

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
