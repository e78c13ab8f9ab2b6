package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/core/services"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockPeriodRepo  *MockPeriodReader
	mockAccountSvc  *MockAccountService
	service         portssvc.JournalSvcFacade

	userID         string
	period         domain.AccountingPeriod
	cashAccount    domain.Account
	capitalAccount domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockPeriodRepo = new(MockPeriodReader)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockPeriodRepo, suite.mockAccountSvc)

	suite.userID = uuid.NewString()
	suite.period = domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Name:      "دی ۱۴۰۳",
		StartDate: time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC),
		Version:   1,
	}
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1101",
		Name:        "صندوق",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.capitalAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "3101",
		Name:        "سرمایه",
		AccountType: domain.Equity,
		IsActive:    true,
	}
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (suite *JournalServiceTestSuite) accounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.capitalAccount.AccountID: suite.capitalAccount,
	}
}

func (suite *JournalServiceTestSuite) createRequest(debit, credit string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Date:        dto.NewDate(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		Description: "افتتاح حساب",
		PeriodID:    suite.period.PeriodID,
		Items: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: dto.Amount(debit), Credit: "0"},
			{AccountID: suite.capitalAccount.AccountID, Debit: "0", Credit: dto.Amount(credit)},
		},
	}
}

func (suite *JournalServiceTestSuite) draftEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		Number:      "JE-000007",
		EntryDate:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		PeriodID:    suite.period.PeriodID,
		Status:      domain.Draft,
		TotalDebit:  decimal.NewFromInt(500),
		TotalCredit: decimal.NewFromInt(500),
		Version:     3,
	}
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntry_Success() {
	ctx := context.Background()
	req := suite.createRequest("35000000", "35000000")

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockAccountSvc.On("ResolveAccounts", ctx, []string{suite.cashAccount.AccountID, suite.capitalAccount.AccountID}).Return(suite.accounts(), nil).Once()
	suite.mockJournalRepo.On("NextJournalNumber", ctx).Return("JE-000001", nil).Once()
	suite.mockJournalRepo.On("SaveJournalEntry", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.Draft && e.Version == 1 && len(e.Lines) == 2 && e.Lines[0].EntryID == e.EntryID
	})).Return(nil).Once()

	entry, err := suite.service.CreateJournalEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal("JE-000001", entry.Number)
	suite.Equal(domain.Draft, entry.Status)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(35000000)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(35000000)))
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.Equal("1101", entry.Lines[0].AccountCode)

	suite.mockPeriodRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntry_Imbalanced() {
	ctx := context.Background()
	req := suite.createRequest("100", "90")

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockAccountSvc.On("ResolveAccounts", ctx, mock.Anything).Return(suite.accounts(), nil).Once()

	_, err := suite.service.CreateJournalEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImbalancedEntry)
	var le *apperrors.LedgerError
	suite.Require().ErrorAs(err, &le)
	suite.EqualValues("10", le.Details["difference"])
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournalEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntry_PeriodClosed() {
	ctx := context.Background()
	closed := suite.period
	closed.IsClosed = true

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&closed, nil).Once()

	_, err := suite.service.CreateJournalEntry(ctx, suite.createRequest("10", "10"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "ResolveAccounts", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntry_DateOutsidePeriod() {
	ctx := context.Background()
	req := suite.createRequest("10", "10")
	req.Date = dto.NewDate(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()

	_, err := suite.service.CreateJournalEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "outside accounting period")
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntry_UnknownPeriod() {
	ctx := context.Background()

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateJournalEntry(ctx, suite.createRequest("10", "10"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntry_DuplicateNumber() {
	ctx := context.Background()
	req := suite.createRequest("10", "10")
	req.Number = "JE-000001"

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockAccountSvc.On("ResolveAccounts", ctx, mock.Anything).Return(suite.accounts(), nil).Once()
	suite.mockJournalRepo.On("SaveJournalEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateJournalEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Equal(apperrors.KindDuplicate, apperrors.KindOf(err))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "NextJournalNumber", mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournalEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockJournalRepo.On("PostJournalEntry", ctx, entry.EntryID, int64(3), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.PostJournalEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(suite.userID, posted.PostedBy)
	suite.NotNil(posted.PostedAt)
	suite.Equal(int64(4), posted.Version)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournalEntry_NotDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostJournalEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostJournalEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournalEntry_NotFound() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostJournalEntry(ctx, "missing", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestPostJournalEntry_LostRace() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockJournalRepo.On("PostJournalEntry", ctx, entry.EntryID, int64(3), suite.userID, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.PostJournalEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.Equal(apperrors.KindConflict, apperrors.KindOf(err))
}

func (suite *JournalServiceTestSuite) TestUpdateJournalEntry_VersionMismatch() {
	ctx := context.Background()
	entry := suite.draftEntry()
	stale := int64(2)

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.UpdateJournalEntry(ctx, entry.EntryID, dto.UpdateJournalEntryRequest{Version: &stale}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateJournalEntry_RevalidatesItems() {
	ctx := context.Background()
	entry := suite.draftEntry()
	req := dto.UpdateJournalEntryRequest{
		Items: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: "700"},
			{AccountID: suite.capitalAccount.AccountID, Credit: "700"},
		},
	}

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockAccountSvc.On("ResolveAccounts", ctx, mock.Anything).Return(suite.accounts(), nil).Once()
	suite.mockJournalRepo.On("UpdateDraftJournalEntry", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Version == 4 && e.TotalDebit.Equal(decimal.NewFromInt(700))
	}), int64(3)).Return(nil).Once()

	updated, err := suite.service.UpdateJournalEntry(ctx, entry.EntryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.TotalCredit.Equal(decimal.NewFromInt(700)))
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteJournalEntry_Posted() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteJournalEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCancelJournalEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindJournalEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("CancelJournalEntry", ctx, entry.EntryID, int64(3), suite.userID, mock.Anything).Return(nil).Once()

	cancelled, err := suite.service.CancelJournalEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Cancelled, cancelled.Status)
	suite.Equal(suite.userID, cancelled.CancelledBy)
}

func (suite *JournalServiceTestSuite) TestListJournalEntries_InvalidToken() {
	ctx := context.Background()
	params := dto.ListJournalEntriesParams{NextToken: "garbage"}
	token := "garbage"

	suite.mockJournalRepo.On("ListJournalEntries", ctx, domain.JournalEntryFilter{}, 20, &token).Return(nil, nil, apperrors.ErrValidation).Once()

	_, err := suite.service.ListJournalEntries(ctx, params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "nextToken")
}
