package service

import (
	"context"
	"strings"
	"time"

	"github.com/ArthurHiago/CRM/internal/config"
	"github.com/ArthurHiago/CRM/internal/customer/domain"
	"github.com/ArthurHiago/CRM/pkg/db"
	"github.com/ArthurHiago/CRM/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Settings *config.APISettingsHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	settings *config.APISettingsHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("customer.service"),
		repo:     p.Repo,
		settings: p.Settings,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		Name:      name,
		Email:     email,
		Phone:     copyPointer(req.Phone),
		Company:   copyPointer(req.Company),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateEmail
		}
		return s.repo.Insert(ctx, tx, &customer)
	})
	if err != nil {
		// Two concurrent creates can both pass the existence check; the
		// loser then trips the unique index instead of the precheck.
		if db.IsDuplicateKeyErr(err) {
			s.log.Warn("create lost a duplicate-email race",
				zap.String("email", email),
				zap.Error(err),
			)
		}
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) ([]domain.Customer, error) {
	listing := s.settings.Get().Listing
	page, err := req.Page.Resolve(pagination.Limits{
		Default: listing.DefaultLimit,
		Max:     listing.MaxLimit,
	})
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}
	return customers, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := domain.ParseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	id, err := domain.ParseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	var updated domain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return domain.ErrInvalidName
			}
			item.Name = name
		}

		if req.Email != nil {
			email := strings.TrimSpace(*req.Email)
			if email == "" || !strings.Contains(email, "@") {
				return domain.ErrInvalidEmail
			}
			item.Email = email
		}

		if req.Phone != nil {
			item.Phone = copyPointer(req.Phone)
		}

		if req.Company != nil {
			item.Company = copyPointer(req.Company)
		}

		item.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, tx, item); err != nil {
			return err
		}

		updated = *item
		return nil
	})
	if err != nil {
		return domain.Customer{}, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteCustomerRequest) (domain.DeleteCustomerResponse, error) {
	id, err := domain.ParseID(req.ID)
	if err != nil {
		return domain.DeleteCustomerResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return domain.DeleteCustomerResponse{}, err
	}

	return domain.DeleteCustomerResponse{Message: "customer deleted"}, nil
}

func copyPointer(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
