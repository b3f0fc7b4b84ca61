package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/core/services"
)

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetAccountEntryLines(ctx context.Context, accountCode string, start, end *time.Time) ([]domain.EntryLine, error) {
	args := m.Called(ctx, accountCode, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryLine), args.Error(1)
}

func (m *MockReportingRepository) GetTrialBalanceRows(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReporting *MockReportingRepository
	mockAccounts  *MockAccountRepository
	service       portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReporting = new(MockReportingRepository)
	suite.mockAccounts = new(MockAccountRepository)
	suite.service = services.NewReportingService(suite.mockReporting, suite.mockAccounts)
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestAccountLedger_RunningBalance() {
	ctx := context.Background()
	account := &domain.Account{Code: "2000", Description: "Accounts Payable", Type: domain.Company, Status: domain.AccountStatusActive}
	lines := []domain.EntryLine{
		{Number: "1-001-2025", Amount: dec("1500.00"), Side: domain.Credit},
		{Number: "1-002-2025", Amount: dec("500.00"), Side: domain.Credit},
		{Number: "1-001-2025", Amount: dec("1500.00"), Side: domain.Debit},
	}

	suite.mockAccounts.On("FindAccountByCode", ctx, "2000").Return(account, nil).Once()
	suite.mockReporting.On("GetAccountEntryLines", ctx, "2000", (*time.Time)(nil), (*time.Time)(nil)).Return(lines, nil).Once()

	ledger, err := suite.service.AccountLedger(ctx, "2000", nil, nil)

	suite.Require().NoError(err)
	suite.Require().Len(ledger.Rows, 3)
	// Debit-positive convention: credits subtract.
	suite.True(dec("-1500.00").Equal(ledger.Rows[0].RunningBalance))
	suite.True(dec("-2000.00").Equal(ledger.Rows[1].RunningBalance))
	suite.True(dec("-500.00").Equal(ledger.Rows[2].RunningBalance))
	suite.True(dec("1500.00").Equal(ledger.TotalDebits))
	suite.True(dec("2000.00").Equal(ledger.TotalCredits))
	suite.True(dec("-500.00").Equal(ledger.Balance))
}

func (suite *ReportingServiceTestSuite) TestAccountLedger_UnknownAccount() {
	ctx := context.Background()
	suite.mockAccounts.On("FindAccountByCode", ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AccountLedger(ctx, "9999", nil, nil)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockReporting.AssertNotCalled(suite.T(), "GetAccountEntryLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Balanced() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountCode: "1010", TotalDebits: dec("0"), TotalCredits: dec("1500.00"), Balance: dec("-1500.00")},
		{AccountCode: "2000", TotalDebits: dec("1500.00"), TotalCredits: dec("1500.00"), Balance: dec("0")},
		{AccountCode: "5000", TotalDebits: dec("1500.00"), TotalCredits: dec("0"), Balance: dec("1500.00")},
	}

	suite.mockReporting.On("GetTrialBalanceRows", ctx, (*time.Time)(nil)).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, nil)

	suite.Require().NoError(err)
	suite.True(report.Balanced)
	suite.True(dec("3000.00").Equal(report.TotalDebits))
	suite.True(dec("3000.00").Equal(report.TotalCredits))
	suite.True(report.Difference.IsZero())
	suite.Len(report.Rows, 3)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Imbalance() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountCode: "2000", TotalDebits: dec("100.00"), TotalCredits: dec("0"), Balance: dec("100.00")},
	}

	suite.mockReporting.On("GetTrialBalanceRows", ctx, (*time.Time)(nil)).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, nil)

	suite.Require().NoError(err)
	suite.False(report.Balanced)
	suite.True(dec("100.00").Equal(report.Difference))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_AsOfForwarded() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	suite.mockReporting.On("GetTrialBalanceRows", ctx, &asOf).Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := suite.service.TrialBalance(ctx, &asOf)

	suite.Require().NoError(err)
	suite.True(report.Balanced)
	suite.Equal(&asOf, report.AsOf)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
