package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	portsrepo "github.com/corefac/facility_billing_app/internal/core/ports/repositories"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
	"github.com/corefac/facility_billing_app/internal/core/services"
	"github.com/corefac/facility_billing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournalsByFacilities(ctx context.Context, facilityIDs []string, includeMulti bool, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, facilityIDs, includeMulti, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) PendingFacilityIDs(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockJournalRepository) JournalFacilityIDs(ctx context.Context, journalID string) ([]string, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockJournalRepository) CreateJournalWithRows(ctx context.Context, journal domain.Journal, rows []domain.JournalRow, recordIDs []string) error {
	args := m.Called(ctx, journal, rows, recordIDs)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalOutcome(ctx context.Context, journalID string, outcome domain.JournalOutcome, reference string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, journalID, outcome, reference, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) AttachFileObject(ctx context.Context, journalID string, object string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, journalID, object, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) FindRowsByJournalID(ctx context.Context, journalID string) ([]domain.JournalRow, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalRow), args.Error(1)
}

func (m *MockJournalRepository) CountUnreconciledRecords(ctx context.Context, journalID string) (int64, error) {
	args := m.Called(ctx, journalID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock BillableRepository ---
type MockBillableRepository struct {
	mock.Mock
}

var _ portsrepo.BillableReader = (*MockBillableRepository)(nil)

func (m *MockBillableRepository) FindBillablesByIDs(ctx context.Context, recordIDs []string) ([]domain.BillableRecord, error) {
	args := m.Called(ctx, recordIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillableRecord), args.Error(1)
}

func (m *MockBillableRepository) ListUnjournaledByFacility(ctx context.Context, facilityID string) ([]domain.BillableRecord, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillableRecord), args.Error(1)
}

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

var _ portsrepo.ProductReader = (*MockProductRepository)(nil)

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

// --- Mock FundingAccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.FundingAccountReader = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindFundingAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.FundingAccount, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.FundingAccount), args.Error(1)
}

// --- Mock FacilityRepository ---
type MockFacilityRepository struct {
	mock.Mock
}

var _ portsrepo.FacilityReader = (*MockFacilityRepository)(nil)

func (m *MockFacilityRepository) FindFacilityByID(ctx context.Context, facilityID string) (*domain.Facility, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Facility), args.Error(1)
}

// --- Mock AccountValidator ---
type MockAccountValidator struct {
	mock.Mock
}

var _ portssvc.AccountValidator = (*MockAccountValidator)(nil)

func (m *MockAccountValidator) AccountIsOpen(ctx context.Context, account domain.FundingAccount, product domain.Product) error {
	args := m.Called(ctx, account, product)
	return args.Error(0)
}

// --- Mock SpreadsheetRenderer ---
type MockRenderer struct {
	mock.Mock
}

var _ portssvc.SpreadsheetRenderer = (*MockRenderer)(nil)

func (m *MockRenderer) Render(rows []domain.JournalRow) ([]byte, error) {
	args := m.Called(rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Mock BlobStore ---
type MockBlobStore struct {
	mock.Mock
}

var _ portssvc.BlobStore = (*MockBlobStore)(nil)

func (m *MockBlobStore) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, objectName, data, contentType)
	return args.String(0), args.Error(1)
}

// --- Test Suite ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockBillableRepo *MockBillableRepository
	mockProductRepo  *MockProductRepository
	mockAccountRepo  *MockAccountRepository
	mockFacilityRepo *MockFacilityRepository
	mockValidator    *MockAccountValidator
	mockRenderer     *MockRenderer
	mockBlob         *MockBlobStore
	service          portssvc.JournalSvcFacade

	facilityID string
	facility   domain.Facility
	productA   domain.Product
	productB   domain.Product
	accountX   domain.FundingAccount
	accountY   domain.FundingAccount
	records    []domain.BillableRecord
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockBillableRepo = new(MockBillableRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockFacilityRepo = new(MockFacilityRepository)
	suite.mockValidator = new(MockAccountValidator)
	suite.mockRenderer = new(MockRenderer)
	suite.mockBlob = new(MockBlobStore)

	repos := &portsrepo.RepositoryProvider{
		JournalRepo:  suite.mockJournalRepo,
		BillableRepo: suite.mockBillableRepo,
		ProductRepo:  suite.mockProductRepo,
		AccountRepo:  suite.mockAccountRepo,
		FacilityRepo: suite.mockFacilityRepo,
	}
	suite.service = services.NewJournalService(repos, suite.mockValidator, suite.mockRenderer, suite.mockBlob)

	suite.facilityID = uuid.NewString()
	suite.facility = domain.Facility{FacilityID: suite.facilityID, Name: "Sequencing Core"}

	suite.productA = domain.Product{
		ProductID:      "prod-a",
		FacilityID:     suite.facilityID,
		Name:           "Library Prep",
		RevenueAccount: "REV-1001",
	}
	suite.productB = domain.Product{
		ProductID:      "prod-b",
		FacilityID:     suite.facilityID,
		Name:           "Sequencing Run",
		RevenueAccount: "REV-1002",
	}
	suite.accountX = domain.FundingAccount{AccountID: "acct-x", AccountNumber: "FD-100-200"}
	suite.accountY = domain.FundingAccount{AccountID: "acct-y", AccountNumber: "FD-100-300"}

	fulfilled := time.Date(2023, 10, 15, 9, 0, 0, 0, time.UTC)
	suite.records = []domain.BillableRecord{
		{
			RecordID:    "rec-1",
			ProductID:   suite.productA.ProductID,
			AccountID:   suite.accountX.AccountID,
			FacilityID:  suite.facilityID,
			Requester:   "Ada Lovelace",
			Quantity:    3,
			Total:       decimal.NewFromInt(30),
			FulfilledAt: fulfilled,
			State:       domain.BillableComplete,
		},
		{
			RecordID:    "rec-2",
			ProductID:   suite.productA.ProductID,
			AccountID:   suite.accountY.AccountID,
			FacilityID:  suite.facilityID,
			Requester:   "Grace Hopper",
			Quantity:    7,
			Total:       decimal.NewFromInt(70),
			FulfilledAt: fulfilled,
			State:       domain.BillableComplete,
		},
		{
			RecordID:    "rec-3",
			ProductID:   suite.productB.ProductID,
			AccountID:   suite.accountX.AccountID,
			FacilityID:  suite.facilityID,
			Requester:   "Ada Lovelace",
			Quantity:    1,
			Total:       decimal.NewFromInt(50),
			FulfilledAt: fulfilled,
			State:       domain.BillableComplete,
		},
	}
}

func (suite *JournalServiceTestSuite) productsMap() map[string]domain.Product {
	return map[string]domain.Product{
		suite.productA.ProductID: suite.productA,
		suite.productB.ProductID: suite.productB,
	}
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.FundingAccount {
	return map[string]domain.FundingAccount{
		suite.accountX.AccountID: suite.accountX,
		suite.accountY.AccountID: suite.accountY,
	}
}

func (suite *JournalServiceTestSuite) createRequest() dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		FacilityID: &suite.facilityID,
		RecordIDs:  []string{"rec-1", "rec-2", "rec-3"},
		CreatedBy:  "billing-admin",
	}
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockFacilityRepo.On("FindFacilityByID", ctx, suite.facilityID).Return(&suite.facility, nil).Once()
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, req.RecordIDs).Return(suite.records, nil).Once()
	suite.mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{}, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, mock.Anything).Return(suite.productsMap(), nil).Once()
	suite.mockAccountRepo.On("FindFundingAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockValidator.On("AccountIsOpen", ctx, mock.Anything, mock.Anything).Return(nil).Times(3)

	var capturedRows []domain.JournalRow
	suite.mockJournalRepo.On("CreateJournalWithRows", ctx, mock.Anything, mock.Anything, req.RecordIDs).
		Run(func(args mock.Arguments) {
			capturedRows = args.Get(2).([]domain.JournalRow)
		}).
		Return(nil).Once()

	journal, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.Equal(domain.OutcomePending, journal.Outcome)
	suite.Equal(suite.facilityID, *journal.FacilityID)
	suite.Equal("billing-admin", journal.CreatedBy)

	// 3 charge rows plus one recharge row per product.
	suite.Require().Len(capturedRows, 5)

	// Charge rows mirror the records in order.
	suite.Equal("FD-100-200", capturedRows[0].Account)
	suite.True(capturedRows[0].Amount.Equal(decimal.NewFromInt(30)))
	suite.Equal("#rec-1: Ada Lovelace: 10/15/2023: Library Prep x3", capturedRows[0].Description)
	suite.Require().NotNil(capturedRows[0].RecordID)
	suite.Equal("rec-1", *capturedRows[0].RecordID)

	suite.Equal("#rec-2: Grace Hopper: 10/15/2023: Library Prep x7", capturedRows[1].Description)
	suite.Equal("#rec-3: Ada Lovelace: 10/15/2023: Sequencing Run x1", capturedRows[2].Description)

	// Charge rows reference their record; recharge rows do not.
	suite.True(capturedRows[0].IsCharge())
	suite.True(capturedRows[1].IsCharge())
	suite.True(capturedRows[2].IsCharge())
	suite.False(capturedRows[3].IsCharge())
	suite.False(capturedRows[4].IsCharge())

	// Recharge rows aggregate per product, negative, in product ID order.
	suite.Nil(capturedRows[3].RecordID)
	suite.Equal("REV-1001", capturedRows[3].Account)
	suite.True(capturedRows[3].Amount.Equal(decimal.NewFromInt(-100)))
	suite.Equal("Library Prep", capturedRows[3].Description)

	suite.Nil(capturedRows[4].RecordID)
	suite.Equal("REV-1002", capturedRows[4].Account)
	suite.True(capturedRows[4].Amount.Equal(decimal.NewFromInt(-50)))
	suite.Equal("Sequencing Run", capturedRows[4].Description)

	// The whole journal balances to zero.
	sum := decimal.Zero
	for _, row := range capturedRows {
		sum = sum.Add(row.Amount)
	}
	suite.True(sum.IsZero(), "journal rows should balance to zero, got %s", sum)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockValidator.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournal_MissingCreatedBy() {
	req := suite.createRequest()
	req.CreatedBy = ""

	_, err := suite.service.CreateJournal(context.Background(), req, "")

	var requiredErr *apperrors.RequiredFieldError
	suite.Require().ErrorAs(err, &requiredErr)
	suite.Equal("created_by", requiredErr.Field)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateJournalWithRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_AlreadyJournaled() {
	ctx := context.Background()
	req := suite.createRequest()

	otherJournal := uuid.NewString()
	suite.records[1].JournalID = &otherJournal

	suite.mockFacilityRepo.On("FindFacilityByID", ctx, suite.facilityID).Return(&suite.facility, nil).Once()
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, req.RecordIDs).Return(suite.records, nil).Once()

	_, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	var alreadyErr *apperrors.AlreadyJournaledError
	suite.Require().ErrorAs(err, &alreadyErr)
	suite.Equal("rec-2", alreadyErr.RecordID)
	suite.Equal(otherJournal, alreadyErr.JournalID)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateJournalWithRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_FacilityHasPendingJournal() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockFacilityRepo.On("FindFacilityByID", ctx, suite.facilityID).Return(&suite.facility, nil).Once()
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, req.RecordIDs).Return(suite.records, nil).Once()
	suite.mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{suite.facilityID: {}}, nil).Once()

	_, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	var pendingErr *apperrors.FacilityHasPendingJournalError
	suite.Require().ErrorAs(err, &pendingErr)
	suite.Equal(suite.facilityID, pendingErr.FacilityID)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateJournalWithRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_MultiFacilityBlockedByPending() {
	ctx := context.Background()
	req := suite.createRequest()
	req.FacilityID = nil

	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, req.RecordIDs).Return(suite.records, nil).Once()
	suite.mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{suite.facilityID: {}}, nil).Once()

	_, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	var pendingErr *apperrors.FacilityHasPendingJournalError
	suite.Require().ErrorAs(err, &pendingErr)
	suite.Equal(suite.facilityID, pendingErr.FacilityID)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_FacilityMismatch() {
	ctx := context.Background()
	req := suite.createRequest()
	suite.records[2].FacilityID = uuid.NewString()

	suite.mockFacilityRepo.On("FindFacilityByID", ctx, suite.facilityID).Return(&suite.facility, nil).Once()
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, req.RecordIDs).Return(suite.records, nil).Once()

	_, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_InvalidAccount() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockFacilityRepo.On("FindFacilityByID", ctx, suite.facilityID).Return(&suite.facility, nil).Once()
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, req.RecordIDs).Return(suite.records, nil).Once()
	suite.mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{}, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, mock.Anything).Return(suite.productsMap(), nil).Once()
	suite.mockAccountRepo.On("FindFundingAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockValidator.On("AccountIsOpen", ctx, mock.Anything, mock.Anything).Return(errors.New("account expired on 06/30/2023")).Once()

	_, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	var invalidErr *apperrors.InvalidAccountError
	suite.Require().ErrorAs(err, &invalidErr)
	suite.Equal("rec-1", invalidErr.RecordID)
	suite.Equal("FD-100-200", invalidErr.AccountNumber)
	suite.Equal("account expired on 06/30/2023", invalidErr.Reason)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateJournalWithRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_EmptySelection() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{FacilityID: &suite.facilityID, RecordIDs: nil, CreatedBy: "billing-admin"}

	suite.mockFacilityRepo.On("FindFacilityByID", ctx, suite.facilityID).Return(&suite.facility, nil).Once()
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, []string{}).Return([]domain.BillableRecord{}, nil).Once()
	suite.mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{}, nil).Once()
	suite.mockJournalRepo.On("CreateJournalWithRows", ctx, mock.Anything, mock.Anything, []string{}).Return(nil).Once()

	journal, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	suite.Require().NoError(err)
	suite.Empty(journal.Rows)
	suite.Equal(domain.OutcomePending, journal.Outcome)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_RepoConflictPassesThrough() {
	ctx := context.Background()
	req := suite.createRequest()

	repoErr := &apperrors.FacilityHasPendingJournalError{FacilityID: suite.facilityID}

	suite.mockFacilityRepo.On("FindFacilityByID", ctx, suite.facilityID).Return(&suite.facility, nil).Once()
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, req.RecordIDs).Return(suite.records, nil).Once()
	suite.mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{}, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, mock.Anything).Return(suite.productsMap(), nil).Once()
	suite.mockAccountRepo.On("FindFundingAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockValidator.On("AccountIsOpen", ctx, mock.Anything, mock.Anything).Return(nil).Times(3)
	suite.mockJournalRepo.On("CreateJournalWithRows", ctx, mock.Anything, mock.Anything, req.RecordIDs).Return(repoErr).Once()

	_, err := suite.service.CreateJournal(ctx, req, req.CreatedBy)

	var pendingErr *apperrors.FacilityHasPendingJournalError
	suite.Require().ErrorAs(err, &pendingErr)
}

func (suite *JournalServiceTestSuite) journalWithOutcome(outcome domain.JournalOutcome) *domain.Journal {
	return &domain.Journal{
		JournalID:  "jrnl-1",
		FacilityID: &suite.facilityID,
		Outcome:    outcome,
	}
}

func (suite *JournalServiceTestSuite) TestStatus_Pending() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomePending), nil).Once()

	status, err := suite.service.Status(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, status)
}

func (suite *JournalServiceTestSuite) TestStatus_Failed() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomeFailed), nil).Once()

	status, err := suite.service.Status(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusFailed, status)
}

func (suite *JournalServiceTestSuite) TestStatus_SucceededUnreconciled() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomeSucceeded), nil).Once()
	suite.mockJournalRepo.On("CountUnreconciledRecords", ctx, "jrnl-1").Return(int64(2), nil).Once()

	status, err := suite.service.Status(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSuccessfulUnreconciled, status)
}

func (suite *JournalServiceTestSuite) TestStatus_SucceededReconciled() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomeSucceeded), nil).Once()
	suite.mockJournalRepo.On("CountUnreconciledRecords", ctx, "jrnl-1").Return(int64(0), nil).Once()

	status, err := suite.service.Status(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSuccessfulReconciled, status)
}

func (suite *JournalServiceTestSuite) TestIsReconciled_FailedIsTriviallyReconciled() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomeFailed), nil).Once()

	reconciled, err := suite.service.IsReconciled(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.True(reconciled)
}

func (suite *JournalServiceTestSuite) TestIsReconciled_PendingIsNot() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomePending), nil).Once()

	reconciled, err := suite.service.IsReconciled(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.False(reconciled)
}

func (suite *JournalServiceTestSuite) TestAmount_SumsPositiveRowsOnly() {
	ctx := context.Background()
	rows := []domain.JournalRow{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(-100)},
		{Amount: decimal.NewFromInt(50)},
	}
	suite.mockJournalRepo.On("FindRowsByJournalID", ctx, "jrnl-1").Return(rows, nil).Once()

	amount, err := suite.service.Amount(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.True(amount.Equal(decimal.NewFromInt(150)), "expected 150, got %s", amount)
}

func (suite *JournalServiceTestSuite) TestCloseJournal_RequiresReference() {
	_, err := suite.service.CloseJournal(context.Background(), "jrnl-1", true, "", "billing-admin")

	var requiredErr *apperrors.RequiredFieldError
	suite.Require().ErrorAs(err, &requiredErr)
	suite.Equal("reference", requiredErr.Field)
}

func (suite *JournalServiceTestSuite) TestCloseJournal_RequiresUpdatedBy() {
	_, err := suite.service.CloseJournal(context.Background(), "jrnl-1", false, "GL-2023-441", "")

	var requiredErr *apperrors.RequiredFieldError
	suite.Require().ErrorAs(err, &requiredErr)
	suite.Equal("updated_by", requiredErr.Field)
}

func (suite *JournalServiceTestSuite) TestCloseJournal_Success() {
	ctx := context.Background()
	closed := suite.journalWithOutcome(domain.OutcomeSucceeded)
	closed.Reference = "GL-2023-441"

	suite.mockJournalRepo.On("UpdateJournalOutcome", ctx, "jrnl-1", domain.OutcomeSucceeded, "GL-2023-441", "billing-admin", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(closed, nil).Once()

	journal, err := suite.service.CloseJournal(ctx, "jrnl-1", true, "GL-2023-441", "billing-admin")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeSucceeded, journal.Outcome)
	suite.Equal("GL-2023-441", journal.Reference)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCloseJournal_FailedOutcome() {
	ctx := context.Background()
	closed := suite.journalWithOutcome(domain.OutcomeFailed)

	suite.mockJournalRepo.On("UpdateJournalOutcome", ctx, "jrnl-1", domain.OutcomeFailed, "import rejected", "billing-admin", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(closed, nil).Once()

	journal, err := suite.service.CloseJournal(ctx, "jrnl-1", false, "import rejected", "billing-admin")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeFailed, journal.Outcome)
}

func (suite *JournalServiceTestSuite) TestExportSpreadsheet_NoRows() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomePending), nil).Once()
	suite.mockJournalRepo.On("FindRowsByJournalID", ctx, "jrnl-1").Return([]domain.JournalRow{}, nil).Once()

	exported, err := suite.service.ExportSpreadsheet(ctx, "jrnl-1", "billing-admin")

	suite.Require().NoError(err)
	suite.False(exported)
	suite.mockRenderer.AssertNotCalled(suite.T(), "Render", mock.Anything)
	suite.mockBlob.AssertNotCalled(suite.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestExportSpreadsheet_Success() {
	ctx := context.Background()
	rows := []domain.JournalRow{{Account: "FD-100-200", Amount: decimal.NewFromInt(30)}}
	fileBytes := []byte("xlsx-bytes")
	objectName := "journals/" + suite.facilityID + "/jrnl-1.xlsx"

	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(suite.journalWithOutcome(domain.OutcomePending), nil).Once()
	suite.mockJournalRepo.On("FindRowsByJournalID", ctx, "jrnl-1").Return(rows, nil).Once()
	suite.mockRenderer.On("Render", rows).Return(fileBytes, nil).Once()
	suite.mockBlob.On("Upload", ctx, objectName, fileBytes, mock.Anything).Return(objectName, nil).Once()
	suite.mockJournalRepo.On("AttachFileObject", ctx, "jrnl-1", objectName, "billing-admin", mock.Anything).Return(nil).Once()

	exported, err := suite.service.ExportSpreadsheet(ctx, "jrnl-1", "billing-admin")

	suite.Require().NoError(err)
	suite.True(exported)
	suite.mockBlob.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestExportSpreadsheet_MultiFacilityObjectPath() {
	ctx := context.Background()
	journal := suite.journalWithOutcome(domain.OutcomePending)
	journal.FacilityID = nil
	rows := []domain.JournalRow{{Account: "FD-100-200", Amount: decimal.NewFromInt(30)}}

	suite.mockJournalRepo.On("FindJournalByID", ctx, "jrnl-1").Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindRowsByJournalID", ctx, "jrnl-1").Return(rows, nil).Once()
	suite.mockRenderer.On("Render", rows).Return([]byte("xlsx"), nil).Once()
	suite.mockBlob.On("Upload", ctx, "journals/multi/jrnl-1.xlsx", mock.Anything, mock.Anything).Return("journals/multi/jrnl-1.xlsx", nil).Once()
	suite.mockJournalRepo.On("AttachFileObject", ctx, "jrnl-1", "journals/multi/jrnl-1.xlsx", "billing-admin", mock.Anything).Return(nil).Once()

	exported, err := suite.service.ExportSpreadsheet(ctx, "jrnl-1", "billing-admin")

	suite.Require().NoError(err)
	suite.True(exported)
}

func (suite *JournalServiceTestSuite) TestExportSpreadsheet_StorageUnconfigured() {
	repos := &portsrepo.RepositoryProvider{
		JournalRepo:  suite.mockJournalRepo,
		BillableRepo: suite.mockBillableRepo,
		ProductRepo:  suite.mockProductRepo,
		AccountRepo:  suite.mockAccountRepo,
		FacilityRepo: suite.mockFacilityRepo,
	}
	svc := services.NewJournalService(repos, suite.mockValidator, suite.mockRenderer, nil)

	exported, err := svc.ExportSpreadsheet(context.Background(), "jrnl-1", "billing-admin")

	suite.Require().ErrorIs(err, apperrors.ErrInternal)
	suite.False(exported)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindJournalByID", mock.Anything, mock.Anything)
	suite.mockRenderer.AssertNotCalled(suite.T(), "Render", mock.Anything)
}

func (suite *JournalServiceTestSuite) TestFacilityIDs_Delegates() {
	ctx := context.Background()
	suite.mockJournalRepo.On("JournalFacilityIDs", ctx, "jrnl-1").Return([]string{"fac-a", "fac-b"}, nil).Once()

	ids, err := suite.service.FacilityIDs(ctx, "jrnl-1")

	suite.Require().NoError(err)
	suite.Equal([]string{"fac-a", "fac-b"}, ids)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestSpansFiscalYears_Delegates() {
	ctx := context.Background()
	records := []domain.BillableRecord{
		{RecordID: "rec-1", FulfilledAt: time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)},
		{RecordID: "rec-2", FulfilledAt: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
	suite.mockBillableRepo.On("FindBillablesByIDs", ctx, []string{"rec-1", "rec-2"}).Return(records, nil).Once()

	spans, err := suite.service.SpansFiscalYears(ctx, []string{"rec-1", "rec-2"})

	suite.Require().NoError(err)
	suite.True(spans)
}

func (suite *JournalServiceTestSuite) TestPendingFacilityIDs_Sorted() {
	ctx := context.Background()
	suite.mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{"fac-c": {}, "fac-a": {}, "fac-b": {}}, nil).Once()

	ids, err := suite.service.PendingFacilityIDs(ctx)

	suite.Require().NoError(err)
	suite.Equal([]string{"fac-a", "fac-b", "fac-c"}, ids)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func TestDedupePreservesOrderViaCreate(t *testing.T) {
	// Duplicate record IDs in the selection collapse to a single fetch.
	mockJournalRepo := new(MockJournalRepository)
	mockBillableRepo := new(MockBillableRepository)
	mockFacilityRepo := new(MockFacilityRepository)
	repos := &portsrepo.RepositoryProvider{
		JournalRepo:  mockJournalRepo,
		BillableRepo: mockBillableRepo,
		ProductRepo:  new(MockProductRepository),
		AccountRepo:  new(MockAccountRepository),
		FacilityRepo: mockFacilityRepo,
	}
	svc := services.NewJournalService(repos, new(MockAccountValidator), new(MockRenderer), new(MockBlobStore))

	ctx := context.Background()
	facilityID := "fac-1"
	mockFacilityRepo.On("FindFacilityByID", ctx, facilityID).Return(&domain.Facility{FacilityID: facilityID}, nil).Once()
	mockBillableRepo.On("FindBillablesByIDs", ctx, []string{"rec-1", "rec-2"}).Return([]domain.BillableRecord{}, nil).Once()
	mockJournalRepo.On("PendingFacilityIDs", ctx).Return(map[string]struct{}{}, nil).Once()
	mockJournalRepo.On("CreateJournalWithRows", ctx, mock.Anything, mock.Anything, []string{"rec-1", "rec-2"}).Return(nil).Once()

	req := dto.CreateJournalRequest{
		FacilityID: &facilityID,
		RecordIDs:  []string{"rec-1", "rec-2", "rec-1"},
		CreatedBy:  "billing-admin",
	}
	_, err := svc.CreateJournal(ctx, req, req.CreatedBy)
	assert.NoError(t, err)
	mockBillableRepo.AssertExpectations(t)
}
