package migration

import (
	"errors"

	auditdomain "github.com/ArthurHiago/CRM/internal/audit/domain"
	customerdomain "github.com/ArthurHiago/CRM/internal/customer/domain"
	"gorm.io/gorm"
)

// EnsureSchema creates or updates the tables the service needs. It is
// model-driven so the same call works on sqlite, postgres and mysql, and
// it is safe to run on every startup.
func EnsureSchema(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	return conn.AutoMigrate(
		&customerdomain.Customer{},
		&auditdomain.AuditLog{},
	)
}
