package services

// ServiceContainer groups the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Voucher   VoucherSvcFacade
	Reporting ReportingSvcFacade
}
