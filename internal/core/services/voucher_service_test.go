package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portsrepo "github.com/acctsys/voucherledger/internal/core/ports/repositories"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/core/services"
	"github.com/acctsys/voucherledger/internal/dto"
	"github.com/acctsys/voucherledger/internal/platform/config"
)

// MockVoucherRepository is a mock type for the VoucherRepository interface
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, header domain.VoucherHeader, lines []domain.EntryLine, subs []domain.SubsidiaryLine, settle *portsrepo.Settlement) (string, error) {
	args := m.Called(ctx, header, lines, subs, settle)
	return args.String(0), args.Error(1)
}

func (m *MockVoucherRepository) NextNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

func (m *MockVoucherRepository) FindVoucherByNumber(ctx context.Context, number string) (*domain.VoucherHeader, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherHeader), args.Error(1)
}

func (m *MockVoucherRepository) FindEntryLinesByNumber(ctx context.Context, number string) ([]domain.EntryLine, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryLine), args.Error(1)
}

func (m *MockVoucherRepository) FindSubsidiaryLinesByNumber(ctx context.Context, number string) ([]domain.SubsidiaryLine, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubsidiaryLine), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, filter portsrepo.ListVouchersFilter) ([]domain.VoucherHeader, *string, error) {
	args := m.Called(ctx, filter)
	var headers []domain.VoucherHeader
	if args.Get(0) != nil {
		headers = args.Get(0).([]domain.VoucherHeader)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return headers, token, args.Error(2)
}

func (m *MockVoucherRepository) VoidVoucher(ctx context.Context, number string, reason string, updatedBy string, at time.Time) error {
	args := m.Called(ctx, number, reason, updatedBy, at)
	return args.Error(0)
}

func (m *MockVoucherRepository) GetEntryTotals(ctx context.Context, number string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockVoucherRepository) GetSubsidiaryTotals(ctx context.Context, number string, accountCode string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, number, accountCode)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// MockAccountFacade is a mock type for the AccountSvcFacade interface
type MockAccountFacade struct {
	mock.Mock
}

func (m *MockAccountFacade) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creator string) (*domain.Account, error) {
	args := m.Called(ctx, req, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountFacade) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountFacade) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountFacade) DeactivateAccount(ctx context.Context, code string, actor string) error {
	args := m.Called(ctx, code, actor)
	return args.Error(0)
}

// MockAuditRecorder is a mock type for the AuditRecorder interface
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testDefaults() config.DefaultAccounts {
	return config.DefaultAccounts{
		VPDebitCode:        "5000",
		VPDebitDescription: "General Expense",
		VPCreditCode:       "2000",
		VPCreditDesc:       "Accounts Payable",
		CVDebitCode:        "2000",
		CVDebitDescription: "Accounts Payable",
		CVCreditCode:       "1010",
		CVCreditDesc:       "Bank - Operating Account",
	}
}

// --- Test Suite Setup ---

type VoucherServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockVoucherRepository
	mockAccounts *MockAccountFacade
	mockAudit    *MockAuditRecorder
	service      portssvc.VoucherSvcFacade
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockVoucherRepository)
	suite.mockAccounts = new(MockAccountFacade)
	suite.mockAudit = new(MockAuditRecorder)
	suite.service = services.NewVoucherService(suite.mockRepo, suite.mockAccounts, suite.mockAudit, testDefaults())
}

func (suite *VoucherServiceTestSuite) activeVendor(code, description string) *domain.Account {
	return &domain.Account{
		Code:        code,
		Description: description,
		Type:        domain.Vendor,
		Status:      domain.AccountStatusActive,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- CreateVoucherPayable ---

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_Success() {
	ctx := context.Background()
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
		Description: "March office supplies",
		EntryLines: []dto.EntryLineInput{
			{AccountCode: "5000", AccountDescription: "General Expense", Amount: dec("800.00"), Side: "D"},
			{AccountCode: "1300", AccountDescription: "Prepaid Expense", Amount: dec("700.00"), Side: "D"},
			{AccountCode: "2000", AccountDescription: "Accounts Payable", Amount: dec("1500.00"), Side: "C"},
		},
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.VoucherHeader"), mock.AnythingOfType("[]domain.EntryLine"), mock.AnythingOfType("[]domain.SubsidiaryLine"), (*portsrepo.Settlement)(nil)).
		Return("1-001-2025", nil).Once()
	suite.mockAudit.On("Record", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	header, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.Require().NoError(err)
	suite.Require().NotNil(header)
	suite.Equal("1-001-2025", header.Number)
	suite.Equal(domain.VoucherPayable, header.Kind)
	suite.Equal(domain.StatusActive, header.Status)
	suite.Equal("Acme Supplies", header.Payee)
	suite.True(dec("1500.00").Equal(header.TotalAmount))
	suite.Equal("clerk1", header.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_SynthesizesDefaultPair() {
	ctx := context.Background()
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		PayeeCode:   "V-100",
		TotalAmount: dec("250.00"),
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()

	var savedLines []domain.EntryLine
	suite.mockRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, (*portsrepo.Settlement)(nil)).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.EntryLine)
		}).
		Return("1-002-2025", nil).Once()
	suite.mockAudit.On("Record", ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.Require().NoError(err)
	suite.Require().Len(savedLines, 2)
	suite.Equal("5000", savedLines[0].AccountCode)
	suite.Equal("General Expense", savedLines[0].AccountDescription)
	suite.Equal(domain.Debit, savedLines[0].Side)
	suite.Equal("2000", savedLines[1].AccountCode)
	suite.Equal("Accounts Payable", savedLines[1].AccountDescription)
	suite.Equal(domain.Credit, savedLines[1].Side)
	suite.True(dec("250.00").Equal(savedLines[0].Amount))
	suite.True(dec("250.00").Equal(savedLines[1].Amount))
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_UnbalancedRejected() {
	ctx := context.Background()
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
		EntryLines: []dto.EntryLineInput{
			{AccountCode: "5000", AccountDescription: "General Expense", Amount: dec("800.00"), Side: "D"},
			{AccountCode: "2000", AccountDescription: "Accounts Payable", Amount: dec("1500.00"), Side: "C"},
		},
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()

	header, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.Nil(header)
	// Nothing may be persisted when the balance invariant fails.
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_NonPositiveTotalRejected() {
	ctx := context.Background()
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("0"),
	}

	_, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccounts.AssertNotCalled(suite.T(), "GetAccountByCode", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_UnknownPayeeRejected() {
	ctx := context.Background()
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Now(),
		PayeeCode:   "V-999",
		TotalAmount: dec("100.00"),
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_DeactivatedPayeeRejected() {
	ctx := context.Background()
	deactivated := &domain.Account{
		Code:        "V-100",
		Description: "Acme Supplies",
		Type:        domain.Vendor,
		Status:      domain.AccountStatusDeactivated,
	}
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("100.00"),
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(deactivated, nil).Once()

	_, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "deactivated")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_UnregisteredLineAccountRejected() {
	ctx := context.Background()
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("100.00"),
		EntryLines: []dto.EntryLineInput{
			// No description given, so the service must resolve the account.
			{AccountCode: "9999", Amount: dec("100.00"), Side: "D"},
			{AccountCode: "2000", AccountDescription: "Accounts Payable", Amount: dec("100.00"), Side: "C"},
		},
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockAccounts.On("GetAccountByCode", ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "not registered")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucherPayable_AuditFailureDoesNotBlock() {
	ctx := context.Background()
	req := dto.CreateVoucherPayableRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("100.00"),
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, (*portsrepo.Settlement)(nil)).
		Return("1-003-2025", nil).Once()
	suite.mockAudit.On("Record", ctx, mock.Anything).Return(fmt.Errorf("audit sink unavailable")).Once()

	header, err := suite.service.CreateVoucherPayable(ctx, req, "clerk1")

	suite.Require().NoError(err)
	suite.Equal("1-003-2025", header.Number)
}

// --- CreateCheckVoucher ---

func (suite *VoucherServiceTestSuite) TestCreateCheckVoucher_SettlesVoucherPayable() {
	ctx := context.Background()
	vp := &domain.VoucherHeader{
		Kind:        domain.VoucherPayable,
		Number:      "1-001-2025",
		TotalAmount: dec("1500.00"),
		Status:      domain.StatusActive,
	}
	req := dto.CreateCheckVoucherRequest{
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
		VPNumber:    "1-001-2025",
		CheckNumber: "10001",
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-001-2025").Return(vp, nil).Once()

	var savedHeader domain.VoucherHeader
	var savedSettle *portsrepo.Settlement
	suite.mockRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedHeader = args.Get(1).(domain.VoucherHeader)
			savedSettle = args.Get(4).(*portsrepo.Settlement)
		}).
		Return("1-001-2025", nil).Once()
	suite.mockAudit.On("Record", ctx, mock.Anything).Return(nil).Once()

	header, err := suite.service.CreateCheckVoucher(ctx, req, "treasurer")

	suite.Require().NoError(err)
	suite.Equal(domain.CheckVoucher, header.Kind)
	suite.Equal("10001", savedHeader.CheckNumber)
	suite.Equal("Check payment to Acme Supplies - Check #10001 - Payment for 1-001-2025", savedHeader.Description)
	suite.Require().NotNil(savedSettle)
	suite.Equal("1-001-2025", savedSettle.VPNumber)
	suite.Equal("treasurer", savedSettle.PaidBy)
}

func (suite *VoucherServiceTestSuite) TestCreateCheckVoucher_PartialSettlementRejected() {
	ctx := context.Background()
	vp := &domain.VoucherHeader{
		Kind:        domain.VoucherPayable,
		Number:      "1-001-2025",
		TotalAmount: dec("1500.00"),
		Status:      domain.StatusActive,
	}
	req := dto.CreateCheckVoucherRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("1000.00"),
		VPNumber:    "1-001-2025",
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-001-2025").Return(vp, nil).Once()

	_, err := suite.service.CreateCheckVoucher(ctx, req, "treasurer")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "partial settlement")
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateCheckVoucher_PaidVPRejected() {
	ctx := context.Background()
	vp := &domain.VoucherHeader{
		Kind:        domain.VoucherPayable,
		Number:      "1-001-2025",
		TotalAmount: dec("1500.00"),
		Status:      domain.StatusPaid,
	}
	req := dto.CreateCheckVoucherRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
		VPNumber:    "1-001-2025",
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-001-2025").Return(vp, nil).Once()

	_, err := suite.service.CreateCheckVoucher(ctx, req, "treasurer")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already paid")
}

func (suite *VoucherServiceTestSuite) TestCreateCheckVoucher_VoidVPRejected() {
	ctx := context.Background()
	vp := &domain.VoucherHeader{
		Kind:        domain.VoucherPayable,
		Number:      "1-001-2025",
		TotalAmount: dec("1500.00"),
		Status:      domain.StatusVoid,
	}
	req := dto.CreateCheckVoucherRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
		VPNumber:    "1-001-2025",
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-001-2025").Return(vp, nil).Once()

	_, err := suite.service.CreateCheckVoucher(ctx, req, "treasurer")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "void")
}

func (suite *VoucherServiceTestSuite) TestCreateCheckVoucher_NotAVoucherPayableRejected() {
	ctx := context.Background()
	cv := &domain.VoucherHeader{
		Kind:        domain.CheckVoucher,
		Number:      "1-005-2025",
		TotalAmount: dec("1500.00"),
		Status:      domain.StatusActive,
	}
	req := dto.CreateCheckVoucherRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
		VPNumber:    "1-005-2025",
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-005-2025").Return(cv, nil).Once()

	_, err := suite.service.CreateCheckVoucher(ctx, req, "treasurer")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "not a voucher payable")
}

func (suite *VoucherServiceTestSuite) TestCreateCheckVoucher_BankAccountOverride() {
	ctx := context.Background()
	req := dto.CreateCheckVoucherRequest{
		Date:        time.Now(),
		PayeeCode:   "V-100",
		TotalAmount: dec("500.00"),
		BankAccount: "1020",
	}

	suite.mockAccounts.On("GetAccountByCode", ctx, "V-100").Return(suite.activeVendor("V-100", "Acme Supplies"), nil).Once()

	var savedLines []domain.EntryLine
	suite.mockRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, (*portsrepo.Settlement)(nil)).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.EntryLine)
		}).
		Return("1-010-2025", nil).Once()
	suite.mockAudit.On("Record", ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.CreateCheckVoucher(ctx, req, "treasurer")

	suite.Require().NoError(err)
	suite.Require().Len(savedLines, 2)
	suite.Equal("2000", savedLines[0].AccountCode)
	suite.Equal(domain.Debit, savedLines[0].Side)
	suite.Equal("1020", savedLines[1].AccountCode)
	suite.Equal(domain.Credit, savedLines[1].Side)
}

// --- GetTransaction ---

func (suite *VoucherServiceTestSuite) TestGetTransaction_Composite() {
	ctx := context.Background()
	header := &domain.VoucherHeader{
		Kind:        domain.VoucherPayable,
		Number:      "1-001-2025",
		TotalAmount: dec("1500.00"),
		Status:      domain.StatusActive,
	}
	lines := []domain.EntryLine{
		{AccountCode: "5000", Amount: dec("1500.00"), Side: domain.Debit},
		{AccountCode: "2000", Amount: dec("1500.00"), Side: domain.Credit},
	}
	subs := []domain.SubsidiaryLine{
		{AccountCode: "5000", SubsidiaryCode: "5000-01", Amount: dec("1500.00")},
	}

	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-001-2025").Return(header, nil).Once()
	suite.mockRepo.On("FindEntryLinesByNumber", ctx, "1-001-2025").Return(lines, nil).Once()
	suite.mockRepo.On("FindSubsidiaryLinesByNumber", ctx, "1-001-2025").Return(subs, nil).Once()

	detail, err := suite.service.GetTransaction(ctx, "1-001-2025")

	suite.Require().NoError(err)
	suite.Equal("1-001-2025", detail.Header.Number)
	suite.Len(detail.EntryLines, 2)
	suite.Len(detail.SubsidiaryLines, 1)
	suite.True(detail.BalanceCheck.Balanced)
}

func (suite *VoucherServiceTestSuite) TestGetTransaction_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-999-2025").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetTransaction(ctx, "1-999-2025")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- VoidTransaction ---

func (suite *VoucherServiceTestSuite) TestVoidTransaction_Success() {
	ctx := context.Background()
	suite.mockRepo.On("VoidVoucher", ctx, "1-001-2025", "duplicate entry", "clerk1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, mock.Anything).Return(nil).Once()

	err := suite.service.VoidTransaction(ctx, "1-001-2025", "duplicate entry", "clerk1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestVoidTransaction_RequiresReason() {
	ctx := context.Background()

	err := suite.service.VoidTransaction(ctx, "1-001-2025", "", "clerk1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "VoidVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestVoidTransaction_AlreadyVoid() {
	ctx := context.Background()
	suite.mockRepo.On("VoidVoucher", ctx, "1-001-2025", "again", "clerk1", mock.AnythingOfType("time.Time")).Return(apperrors.ErrAlreadyVoid).Once()

	err := suite.service.VoidTransaction(ctx, "1-001-2025", "again", "clerk1")

	suite.ErrorIs(err, apperrors.ErrAlreadyVoid)
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestVoidTransaction_PaidConflict() {
	ctx := context.Background()
	suite.mockRepo.On("VoidVoucher", ctx, "1-001-2025", "mistake", "clerk1", mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: transaction 1-001-2025 is paid and cannot be voided", apperrors.ErrConflict)).Once()

	err := suite.service.VoidTransaction(ctx, "1-001-2025", "mistake", "clerk1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- ListVouchers ---

func (suite *VoucherServiceTestSuite) TestListVouchers_DefaultsLimit() {
	ctx := context.Background()
	var captured portsrepo.ListVouchersFilter
	suite.mockRepo.On("ListVouchers", ctx, mock.AnythingOfType("repositories.ListVouchersFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(portsrepo.ListVouchersFilter)
		}).
		Return([]domain.VoucherHeader{}, nil, nil).Once()

	page, err := suite.service.ListVouchers(ctx, dto.ListVouchersParams{})

	suite.Require().NoError(err)
	suite.Equal(20, captured.Limit)
	suite.Empty(page.Vouchers)
	suite.Nil(page.NextToken)
}

func (suite *VoucherServiceTestSuite) TestListVouchers_InvalidKindRejected() {
	ctx := context.Background()
	kind := "JV"

	_, err := suite.service.ListVouchers(ctx, dto.ListVouchersParams{Kind: &kind})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListVouchers", mock.Anything, mock.Anything)
}

// --- NextNumber ---

func (suite *VoucherServiceTestSuite) TestNextNumber_Success() {
	ctx := context.Background()
	suite.mockRepo.On("NextNumber", ctx, 2025).Return("1-004-2025", nil).Once()

	number, err := suite.service.NextNumber(ctx, domain.VoucherPayable, 2025)

	suite.Require().NoError(err)
	suite.Equal("1-004-2025", number)
}

func (suite *VoucherServiceTestSuite) TestNextNumber_InvalidKind() {
	ctx := context.Background()

	_, err := suite.service.NextNumber(ctx, domain.VoucherKind("JV"), 2025)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestNextNumber_LookupFailureSurfaces() {
	ctx := context.Background()
	suite.mockRepo.On("NextNumber", ctx, 2025).
		Return("", fmt.Errorf("sequence query failed")).Once()

	_, err := suite.service.NextNumber(ctx, domain.CheckVoucher, 2025)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "sequence query failed")
}

// --- ValidateBalance / ValidateSubsidiaryTotal ---

func (suite *VoucherServiceTestSuite) TestValidateBalance_Success() {
	ctx := context.Background()
	header := &domain.VoucherHeader{Number: "1-001-2025"}
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-001-2025").Return(header, nil).Once()
	suite.mockRepo.On("GetEntryTotals", ctx, "1-001-2025").Return(dec("1500.00"), dec("1500.00"), nil).Once()

	check, err := suite.service.ValidateBalance(ctx, "1-001-2025")

	suite.Require().NoError(err)
	suite.True(check.Balanced)
	suite.True(check.Difference.IsZero())
}

func (suite *VoucherServiceTestSuite) TestValidateBalance_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-999-2025").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ValidateBalance(ctx, "1-999-2025")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetEntryTotals", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestValidateSubsidiaryTotal_Mismatch() {
	ctx := context.Background()
	header := &domain.VoucherHeader{Number: "1-001-2025"}
	suite.mockRepo.On("FindVoucherByNumber", ctx, "1-001-2025").Return(header, nil).Once()
	suite.mockRepo.On("GetSubsidiaryTotals", ctx, "1-001-2025", "5000").Return(dec("800.00"), dec("750.00"), nil).Once()

	check, err := suite.service.ValidateSubsidiaryTotal(ctx, "1-001-2025", "5000")

	suite.Require().NoError(err)
	suite.False(check.Balanced)
	suite.True(dec("50.00").Equal(check.Difference))
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}

// --- Concurrency ---

// sequencingVoucherRepo is a minimal thread-safe in-memory repository that
// mirrors the production numbering rule: one sequence per year shared by VP
// and CV, with every assigned number checked for uniqueness.
type sequencingVoucherRepo struct {
	MockVoucherRepository
	mu      sync.Mutex
	nextSeq map[int]int
	used    map[string]bool
}

func (r *sequencingVoucherRepo) SaveVoucher(ctx context.Context, header domain.VoucherHeader, lines []domain.EntryLine, subs []domain.SubsidiaryLine, settle *portsrepo.Settlement) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextSeq == nil {
		r.nextSeq = map[int]int{}
		r.used = map[string]bool{}
	}
	year := header.Date.Year()
	r.nextSeq[year]++
	number := domain.FormatVoucherNumber(r.nextSeq[year], year)
	if r.used[number] {
		return "", fmt.Errorf("%w: document number %s already assigned", apperrors.ErrConflict, number)
	}
	r.used[number] = true
	return number, nil
}

func TestCreateVoucherPayable_ConcurrentNumbersUnique(t *testing.T) {
	ctx := context.Background()
	repo := &sequencingVoucherRepo{}
	accounts := new(MockAccountFacade)
	accounts.On("GetAccountByCode", mock.Anything, "V-100").
		Return(&domain.Account{Code: "V-100", Description: "Acme Supplies", Type: domain.Vendor, Status: domain.AccountStatusActive}, nil)

	svc := services.NewVoucherService(repo, accounts, nil, testDefaults())

	const workers = 16
	numbers := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			header, err := svc.CreateVoucherPayable(ctx, dto.CreateVoucherPayableRequest{
				Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				PayeeCode:   "V-100",
				TotalAmount: dec("100.00"),
			}, "clerk1")
			if err != nil {
				t.Error(err)
				return
			}
			numbers <- header.Number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for number := range numbers {
		if seen[number] {
			t.Fatalf("document number %s assigned twice", number)
		}
		seen[number] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d distinct numbers, got %d", workers, len(seen))
	}
}

// The number format carries no kind, so the first VP and the first CV of a
// year must not both resolve to sequence 1. A per-kind sequence would hand
// the CV the number the VP already holds and every first-of-year CV create
// would be rejected.
func TestCreateTransactions_FirstVPAndFirstCVOfYearGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	repo := &sequencingVoucherRepo{}
	accounts := new(MockAccountFacade)
	accounts.On("GetAccountByCode", mock.Anything, "V-100").
		Return(&domain.Account{Code: "V-100", Description: "Acme Supplies", Type: domain.Vendor, Status: domain.AccountStatusActive}, nil)

	svc := services.NewVoucherService(repo, accounts, nil, testDefaults())

	vp, err := svc.CreateVoucherPayable(ctx, dto.CreateVoucherPayableRequest{
		Date:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
	}, "clerk1")
	require.NoError(t, err)
	assert.Equal(t, "1-001-2025", vp.Number)

	cv, err := svc.CreateCheckVoucher(ctx, dto.CreateCheckVoucherRequest{
		Date:        time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		PayeeCode:   "V-100",
		TotalAmount: dec("1500.00"),
		CheckNumber: "10001",
	}, "treasurer")
	require.NoError(t, err)
	assert.Equal(t, "1-002-2025", cv.Number)
	assert.NotEqual(t, vp.Number, cv.Number)
}
