package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

// ListTransactionsBody is the request body for the history screen.
type ListTransactionsBody struct {
	Filter string `json:"filter,omitempty" enum:"All,Income,Expense" doc:"History filter, defaults to All"`
	Now    string `json:"now,omitempty" format:"date-time" doc:"Reference instant for day buckets, defaults to the server clock. Its offset picks the calendar."`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Body ListTransactionsBody
}

// ListTransactionsResponseBody groups the filtered history by day, newest first.
type ListTransactionsResponseBody struct {
	Today     []Transaction `json:"today" doc:"Entries dated today"`
	Yesterday []Transaction `json:"yesterday" doc:"Entries dated yesterday"`
	Earlier   []Transaction `json:"earlier" doc:"Everything older, plus future-dated entries"`
	Count     int           `json:"count" doc:"Total entries across the buckets"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

type historyProjector interface {
	History(mode service.FilterMode, now time.Time) (service.Buckets, error)
}

// ListTransactionsHandler handles POST /v1/transaction/list.
type ListTransactionsHandler struct {
	TransactionService historyProjector
	now                func() time.Time
}

func NewListTransactionsHandler(svc historyProjector) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc, now: time.Now}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/list",
		Summary:     "List transactions",
		Description: "Returns the filtered ledger sorted newest first and bucketed into Today, Yesterday and Earlier.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput resolves the filter mode and the reference instant.
func parseListTransactionsInput(input *ListTransactionsInput, now func() time.Time) (service.FilterMode, time.Time, error) {
	mode, err := service.ParseFilterMode(input.Body.Filter)
	if err != nil {
		return "", time.Time{}, apierror.FromService(err, "invalid filter")
	}

	if input.Body.Now == "" {
		return mode, now(), nil
	}
	reference, err := time.Parse(time.RFC3339, input.Body.Now)
	if err != nil {
		return "", time.Time{}, huma.NewError(http.StatusBadRequest, "invalid now", err)
	}
	return mode, reference, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	mode, now, err := parseListTransactionsInput(input, h.now)
	if err != nil {
		return nil, err
	}

	buckets, err := h.TransactionService.History(mode, now)
	if err != nil {
		return nil, apierror.FromService(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("filter", string(mode))
		logData.AddData("transactionCount", buckets.Len())
	}

	return &ListTransactionsOutput{Body: ListTransactionsResponseBody{
		Today:     fromServiceList(buckets.Today),
		Yesterday: fromServiceList(buckets.Yesterday),
		Earlier:   fromServiceList(buckets.Earlier),
		Count:     buckets.Len(),
	}}, nil
}
