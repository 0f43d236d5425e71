package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/wallet-server/internal/service"
)

type mockHistoryProjector struct {
	mock.Mock
}

func (m *mockHistoryProjector) History(mode service.FilterMode, now time.Time) (service.Buckets, error) {
	args := m.Called(mode, now)
	return args.Get(0).(service.Buckets), args.Error(1)
}

func newListTestAPI(t *testing.T, svc historyProjector, now time.Time) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handler := NewListTransactionsHandler(svc)
	handler.now = func() time.Time { return now }
	handler.Register(api)
	return api
}

func sampleTransaction(category service.Category, amount string, date time.Time) service.Transaction {
	return service.Transaction{
		ID:       uuid.Must(uuid.NewV7()),
		Title:    "Sample",
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Network:  "mtn",
		Date:     date,
	}
}

// -- parseListTransactionsInput unit tests --

func TestParseListTransactionsInput_Defaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mode, reference, err := parseListTransactionsInput(&ListTransactionsInput{}, func() time.Time { return now })
	assert.NoError(t, err)
	assert.Equal(t, service.FilterAll, mode)
	assert.Equal(t, now, reference)
}

func TestParseListTransactionsInput_KeepsOffset(t *testing.T) {
	input := &ListTransactionsInput{Body: ListTransactionsBody{Filter: "Income", Now: "2025-06-01T08:00:00+01:00"}}

	mode, reference, err := parseListTransactionsInput(input, time.Now)
	assert.NoError(t, err)
	assert.Equal(t, service.FilterIncome, mode)
	_, offset := reference.Zone()
	assert.Equal(t, 3600, offset)
}

func TestParseListTransactionsInput_InvalidNow(t *testing.T) {
	input := &ListTransactionsInput{Body: ListTransactionsBody{Now: "yesterday"}}
	_, _, err := parseListTransactionsInput(input, time.Now)
	assert.Error(t, err)
}

// -- HTTP integration tests --

func TestHTTP_ListTransactions_Buckets(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	today := sampleTransaction(service.CategoryAirtime, "300", now.Add(-time.Hour))
	earlier := sampleTransaction(service.CategoryAddMoney, "1000", now.AddDate(0, 0, -5))

	mockSvc := new(mockHistoryProjector)
	mockSvc.On("History", service.FilterAll, now).Return(service.Buckets{
		Today:     []service.Transaction{today},
		Yesterday: []service.Transaction{},
		Earlier:   []service.Transaction{earlier},
	}, nil)

	resp := newListTestAPI(t, mockSvc, now).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Today, 1)
	assert.Equal(t, today.ID.String(), body.Today[0].ID)
	assert.Equal(t, "-₦300.00", body.Today[0].FormattedAmount)
	assert.Empty(t, body.Yesterday)
	assert.Equal(t, "+₦1,000.00", body.Earlier[0].FormattedAmount)
	assert.True(t, body.Earlier[0].Income)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_FilterAndNow(t *testing.T) {
	reference := time.Date(2025, 6, 1, 8, 0, 0, 0, time.FixedZone("", 3600))

	mockSvc := new(mockHistoryProjector)
	mockSvc.On("History", service.FilterExpense, mock.MatchedBy(func(now time.Time) bool {
		return now.Equal(reference)
	})).Return(service.Buckets{}, nil)

	resp := newListTestAPI(t, mockSvc, time.Now()).Post("/v1/transaction/list", ListTransactionsBody{
		Filter: "Expense",
		Now:    reference.Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_InvalidFilter(t *testing.T) {
	mockSvc := new(mockHistoryProjector)

	// The enum schema rejects the request before the handler runs.
	resp := newListTestAPI(t, mockSvc, time.Now()).Post("/v1/transaction/list", ListTransactionsBody{Filter: "Refunds"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "History")
}

func TestHTTP_ListTransactions_NoSession(t *testing.T) {
	mockSvc := new(mockHistoryProjector)
	mockSvc.On("History", mock.Anything, mock.Anything).Return(service.Buckets{}, service.ErrNotAuthenticated)

	resp := newListTestAPI(t, mockSvc, time.Now()).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	mockSvc := new(mockHistoryProjector)
	mockSvc.On("History", mock.Anything, mock.Anything).Return(service.Buckets{}, errors.New("boom"))

	resp := newListTestAPI(t, mockSvc, time.Now()).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
