package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/wallet-server/internal/service"
)

type BalanceOutput struct {
	Body struct {
		Balance          string `json:"balance" doc:"Decimal balance"`
		FormattedBalance string `json:"formattedBalance" doc:"Display balance, e.g. ₦1,000.00"`
		Count            int    `json:"count" doc:"Number of committed transactions"`
	}
}

type balanceReader interface {
	Balance() (decimal.Decimal, error)
	TransactionCount() (int, error)
}

// BalanceHandler handles GET /v1/balance.
type BalanceHandler struct {
	TransactionService balanceReader
}

func NewBalanceHandler(svc balanceReader) *BalanceHandler {
	return &BalanceHandler{TransactionService: svc}
}

func (h *BalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-balance",
		Method:      http.MethodGet,
		Path:        "/v1/balance",
		Summary:     "Get balance",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *BalanceHandler) handle(ctx context.Context, _ *struct{}) (*BalanceOutput, error) {
	balance, err := h.TransactionService.Balance()
	if err != nil {
		return nil, apierror.FromService(err, "failed to read balance")
	}

	count, err := h.TransactionService.TransactionCount()
	if err != nil {
		return nil, apierror.FromService(err, "failed to read balance")
	}

	out := &BalanceOutput{}
	out.Body.Balance = balance.StringFixed(2)
	out.Body.FormattedBalance = service.FormatNaira(balance)
	out.Body.Count = count
	return out, nil
}
