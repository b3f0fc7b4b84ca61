package mapping

import (
	"github.com/acctsys/voucherledger/internal/core/domain"
	"github.com/acctsys/voucherledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Code:        d.Code,
		Description: d.Description,
		Type:        models.AccountType(d.Type),
		Prefix:      d.Prefix,
		Status:      models.AccountStatus(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Code:        m.Code,
		Description: m.Description,
		Type:        domain.AccountType(m.Type),
		Prefix:      m.Prefix,
		Status:      domain.AccountStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
