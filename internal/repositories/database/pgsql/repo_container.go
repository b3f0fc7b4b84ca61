package pgsql

import (
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgsql repositories over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Account:   newPgxAccountRepository(pool),
		Voucher:   newPgxVoucherRepository(pool),
		Reporting: newPgxReportingRepository(pool),
	}
}
