package services

import (
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/platform/config"
)

// NewServiceContainer wires the repositories into the service facades.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, audit portssvc.AuditRecorder, defaults config.DefaultAccounts) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.Account, audit)
	voucherSvc := NewVoucherService(repos.Voucher, accountSvc, audit, defaults)
	reportingSvc := NewReportingService(repos.Reporting, repos.Account)

	return &portssvc.ServiceContainer{
		Account:   accountSvc,
		Voucher:   voucherSvc,
		Reporting: reportingSvc,
	}
}
