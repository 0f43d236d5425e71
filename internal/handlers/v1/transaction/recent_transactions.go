package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/wallet-server/internal/service"
)

type RecentTransactionsInput struct {
	Limit int `query:"limit" default:"4" minimum:"1" maximum:"100" doc:"Number of entries to return"`
}

type RecentTransactionsOutput struct {
	Body struct {
		Transactions []Transaction `json:"transactions" doc:"Most recent commits first"`
	}
}

type recentLister interface {
	Recent(n int) ([]service.Transaction, error)
}

// RecentTransactionsHandler handles GET /v1/transaction/recent for the dashboard.
type RecentTransactionsHandler struct {
	TransactionService recentLister
}

func NewRecentTransactionsHandler(svc recentLister) *RecentTransactionsHandler {
	return &RecentTransactionsHandler{TransactionService: svc}
}

func (h *RecentTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "recent-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/recent",
		Summary:     "Recent transactions",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *RecentTransactionsHandler) handle(ctx context.Context, input *RecentTransactionsInput) (*RecentTransactionsOutput, error) {
	transactions, err := h.TransactionService.Recent(input.Limit)
	if err != nil {
		return nil, apierror.FromService(err, "failed to list recent transactions")
	}

	out := &RecentTransactionsOutput{}
	out.Body.Transactions = fromServiceList(transactions)
	return out, nil
}
