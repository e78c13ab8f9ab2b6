package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	"github.com/SscSPs/hesabdari_ledger/internal/core/services"
	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/handlers"
	"github.com/SscSPs/hesabdari_ledger/internal/platform/config"
	"github.com/SscSPs/hesabdari_ledger/internal/repositories/memory"
	"github.com/SscSPs/hesabdari_ledger/internal/utils"
)

// --- Test Suite ---
type LedgerAPITestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config
	store  *memory.Store
	token  string
}

func (suite *LedgerAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "hesabdari-test",
		AuthCookieName:    "hesabdari_token",
		RateLimit:         "1000-M",
		LoginRateLimit:    "1000-M",
		BalanceTolerance:  decimal.New(1, -2),
	}
	suite.store = memory.NewStore()
	suite.Require().NoError(suite.store.SeedDefaultAccounts(context.Background(), "system", time.Now().UTC()))

	container := services.NewServiceContainer(suite.cfg, memory.NewRepositoryProvider(suite.store))
	_, err := container.Auth.EnsureAdminUser(context.Background(), "admin", "admin-password")
	suite.Require().NoError(err)

	suite.router = gin.New()
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, suite.cfg, container))

	suite.token, _, err = utils.GenerateJWT("user-1", suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
}

func (suite *LedgerAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerAPITestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (suite *LedgerAPITestSuite) createPeriod(name, start, end string) dto.PeriodResponse {
	w := suite.do(http.MethodPost, "/api/v1/accounting-periods", gin.H{"name": name, "startDate": start, "endDate": end})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var p dto.PeriodResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func (suite *LedgerAPITestSuite) createEntry(periodID, date string, debitCode, creditCode string, debit, credit any) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/v1/journal-entries", gin.H{
		"date":        date,
		"periodID":    periodID,
		"description": "سند آزمایشی",
		"items": []gin.H{
			{"accountID": domain.DefaultAccountID(debitCode), "debit": debit},
			{"accountID": domain.DefaultAccountID(creditCode), "credit": credit},
		},
	})
}

// --- Test Cases ---

func (suite *LedgerAPITestSuite) TestHealthAndAuthRequired() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Unauthorized", suite.decodeError(w).Kind)
}

func (suite *LedgerAPITestSuite) TestLoginSetsCookie() {
	body, _ := json.Marshal(gin.H{"username": "admin", "password": "admin-password"})
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == suite.cfg.AuthCookieName {
			cookie = c
		}
	}
	suite.Require().NotNil(cookie)
	suite.True(cookie.HttpOnly)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)
	var accounts []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &accounts))
	suite.Len(accounts, len(domain.DefaultChartOfAccounts()))
	suite.Equal("1101", accounts[0].Code)

	body, _ = json.Marshal(gin.H{"username": "admin", "password": "wrong"})
	req, _ = http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LedgerAPITestSuite) TestJournalEntryLifecycle() {
	period := suite.createPeriod("دی ۱۴۰۳", "2024-12-21", "2025-01-19")

	w := suite.createEntry(period.PeriodID, "2025-01-02", "1101", "3101", "۳۵٬۰۰۰٬۰۰۰", 35000000)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var entry dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entry))
	suite.Equal(domain.Draft, entry.Status)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(35000000)))
	suite.Equal("1101", entry.Items[0].AccountCode)

	w = suite.do(http.MethodPost, "/api/v1/journal-entries/"+entry.EntryID, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/journal-entries/"+entry.EntryID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("InvalidStateTransition", suite.decodeError(w).Kind)

	w = suite.do(http.MethodDelete, "/api/v1/journal-entries/"+entry.EntryID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries?status=POSTED&periodID="+period.PeriodID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListJournalEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page.Entries, 1)
	suite.Nil(page.NextToken)
}

func (suite *LedgerAPITestSuite) TestDeleteDraftEntry() {
	period := suite.createPeriod("بهمن", "2025-01-20", "2025-02-18")
	w := suite.createEntry(period.PeriodID, "2025-01-25", "5103", "1102", "1200", "1200")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var entry dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entry))

	w = suite.do(http.MethodDelete, "/api/v1/journal-entries/"+entry.EntryID, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries/"+entry.EntryID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NotFound", suite.decodeError(w).Kind)
}

func (suite *LedgerAPITestSuite) TestImbalancedEntryCarriesDetails() {
	period := suite.createPeriod("Q1", "2025-03-21", "2025-06-21")

	w := suite.createEntry(period.PeriodID, "2025-04-01", "1101", "4101", "100", "90")
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := suite.decodeError(w)
	suite.Equal("ImbalancedEntry", body.Kind)
	suite.Equal("10", fmt.Sprint(body.Details["difference"]))
}

func (suite *LedgerAPITestSuite) TestMalformedAmountIsValidationError() {
	period := suite.createPeriod("Q2", "2025-06-22", "2025-09-22")

	w := suite.createEntry(period.PeriodID, "2025-07-01", "1101", "4101", "12abc", "12")
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := suite.decodeError(w)
	suite.Equal("ValidationError", body.Kind)
	suite.Contains(body.Details, "fields")
}

func (suite *LedgerAPITestSuite) TestOverlappingPeriodRejected() {
	suite.createPeriod("دی", "2024-12-21", "2025-01-19")

	w := suite.do(http.MethodPost, "/api/v1/accounting-periods", gin.H{"name": "x", "startDate": "2025-01-19", "endDate": "2025-02-10"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("OverlappingPeriod", suite.decodeError(w).Kind)

	w = suite.do(http.MethodPost, "/api/v1/accounting-periods", gin.H{"name": "x", "startDate": "2025-03-01", "endDate": "2025-02-01"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("InvalidDateRange", suite.decodeError(w).Kind)
}

func (suite *LedgerAPITestSuite) TestClosePeriodFlow() {
	period := suite.createPeriod("اسفند", "2025-02-19", "2025-03-20")

	w := suite.createEntry(period.PeriodID, "2025-03-01", "1102", "4101", "50000000", "50000000")
	suite.Require().Equal(http.StatusCreated, w.Code)
	var sale dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &sale))

	w = suite.createEntry(period.PeriodID, "2025-03-05", "5103", "1102", "8000000", "8000000")
	suite.Require().Equal(http.StatusCreated, w.Code)
	var rent dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rent))

	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, "/api/v1/journal-entries/"+sale.EntryID, nil).Code)

	// The rent entry is still a draft.
	w = suite.do(http.MethodPost, "/api/v1/accounting-periods/"+period.PeriodID, gin.H{"description": "بستن اسفند"})
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	body := suite.decodeError(w)
	suite.Equal("ClosingChecksFailed", body.Kind)
	failed, ok := body.Details["failedChecks"].([]any)
	suite.Require().True(ok)
	suite.Len(failed, 1)

	w = suite.do(http.MethodPost, "/api/v1/closing-checks", gin.H{"periodID": period.PeriodID, "checkIDs": []string{"draft-entries"}})
	suite.Require().Equal(http.StatusOK, w.Code)
	var run dto.ClosingChecksRunResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &run))
	suite.Equal(1, run.Summary.Failed)
	suite.False(run.Summary.CanClose)

	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, "/api/v1/journal-entries/"+rent.EntryID, nil).Code)

	w = suite.do(http.MethodPost, "/api/v1/accounting-periods/"+period.PeriodID, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var closed dto.ClosePeriodResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &closed))
	suite.True(closed.Period.IsClosed)
	suite.True(closed.Period.TotalRevenue.Equal(decimal.NewFromInt(50000000)))
	suite.True(closed.Period.TotalExpenses.Equal(decimal.NewFromInt(8000000)))
	suite.True(closed.Period.NetIncome.Equal(decimal.NewFromInt(42000000)))
	suite.Equal("2025-03-20", closed.Period.ClosingDate.Format(dto.DateLayout))
	suite.Equal(100, closed.Checks.Summary.SuccessRate)

	w = suite.do(http.MethodPost, "/api/v1/accounting-periods/"+period.PeriodID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("AlreadyClosed", suite.decodeError(w).Kind)

	w = suite.createEntry(period.PeriodID, "2025-03-10", "1101", "4101", "1", "1")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("PeriodClosed", suite.decodeError(w).Kind)

	w = suite.do(http.MethodGet, "/api/v1/accounting-periods/"+period.PeriodID+"/trial-balance", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var tb dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tb))
	suite.True(tb.TotalDebit.Equal(tb.TotalCredit))
	suite.Len(tb.Rows, 3)
}

func (suite *LedgerAPITestSuite) TestDeletePeriodWithEntriesConflicts() {
	period := suite.createPeriod("فروردین", "2025-03-21", "2025-04-20")
	suite.Require().Equal(http.StatusCreated, suite.createEntry(period.PeriodID, "2025-03-25", "1101", "3101", "10", "10").Code)

	w := suite.do(http.MethodDelete, "/api/v1/accounting-periods/"+period.PeriodID, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("Conflict", suite.decodeError(w).Kind)

	empty := suite.createPeriod("اردیبهشت", "2025-04-21", "2025-05-21")
	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/accounting-periods/"+empty.PeriodID, nil).Code)
}

func (suite *LedgerAPITestSuite) TestClosingCheckCatalog() {
	w := suite.do(http.MethodGet, "/api/v1/closing-checks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var defs []domain.ClosingCheckDefinition
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &defs))
	suite.NotEmpty(defs)

	w = suite.do(http.MethodPost, "/api/v1/closing-checks", gin.H{"periodID": "missing"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerAPITestSuite) TestBankReconciliationGatesClose() {
	period := suite.createPeriod("خرداد", "2025-05-22", "2025-06-21")

	w := suite.do(http.MethodPost, "/api/v1/bank-reconciliations", gin.H{
		"periodID":      period.PeriodID,
		"bankAccountID": domain.DefaultAccountID("1102"),
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var rec domain.BankReconciliation
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &rec))
	suite.Equal(domain.ReconciliationPending, rec.Status)

	w = suite.do(http.MethodPost, "/api/v1/accounting-periods/"+period.PeriodID, nil)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Equal("ClosingChecksFailed", suite.decodeError(w).Kind)

	w = suite.do(http.MethodPut, "/api/v1/bank-reconciliations/"+rec.ReconciliationID, gin.H{"status": "DONE"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPut, "/api/v1/bank-reconciliations/"+rec.ReconciliationID, gin.H{"status": "RECONCILED"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/accounting-periods/"+period.PeriodID, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPut, "/api/v1/bank-reconciliations/"+rec.ReconciliationID, gin.H{"status": "PENDING"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("PeriodClosed", suite.decodeError(w).Kind)
}

func (suite *LedgerAPITestSuite) TestClosingDataRegistration() {
	period := suite.createPeriod("تیر", "2025-06-22", "2025-07-22")

	w := suite.do(http.MethodPost, "/api/v1/inventory-valuations", gin.H{
		"periodID":  period.PeriodID,
		"accountID": domain.DefaultAccountID("1104"),
		"amount":    "۲۵۰۰",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var v domain.InventoryValuation
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &v))
	suite.Equal("2500", v.Amount)

	w = suite.do(http.MethodPost, "/api/v1/issued-checks", gin.H{"checkID": "chk-1", "checkNumber": "445566", "dueDate": "2025-07-01"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = suite.do(http.MethodPost, "/api/v1/issued-checks", gin.H{"checkID": "chk-1", "checkNumber": "445566", "dueDate": "2025-07-01"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPut, "/api/v1/issued-checks/chk-1", gin.H{"status": "BOUNCED"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var check domain.IssuedCheck
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &check))
	suite.Equal(domain.CheckBounced, check.Status)

	w = suite.do(http.MethodPut, "/api/v1/issued-checks/missing", gin.H{"status": "CLEARED"})
	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestLedgerAPI(t *testing.T) {
	suite.Run(t, new(LedgerAPITestSuite))
}
