package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/wallet-server/internal/service"
)

type GetTransactionInput struct {
	TransactionID string `path:"transactionID" format:"uuid" doc:"Transaction UUID"`
}

type GetTransactionOutput struct {
	Body Transaction
}

type transactionFinder interface {
	FindTransaction(id uuid.UUID) (service.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transaction/{transactionID}.
type GetTransactionHandler struct {
	TransactionService transactionFinder
}

func NewGetTransactionHandler(svc transactionFinder) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{transactionID}",
		Summary:     "Get transaction",
		Description: "Returns one committed entry of the current session's ledger.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *GetTransactionInput) (*GetTransactionOutput, error) {
	id, err := uuid.FromString(input.TransactionID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transactionID", err)
	}

	tx, err := h.TransactionService.FindTransaction(id)
	if err != nil {
		return nil, apierror.FromService(err, "failed to get transaction")
	}
	return &GetTransactionOutput{Body: FromService(tx)}, nil
}
