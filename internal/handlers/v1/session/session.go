package session

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

type StartSessionBody struct {
	OwnerID string `json:"ownerID" minLength:"1" maxLength:"128" doc:"Signed-in user whose ledger to load"`
}

type StartSessionInput struct {
	Body StartSessionBody
}

type SessionResponseBody struct {
	OwnerID  string `json:"ownerID" doc:"Owner of the active ledger"`
	Balance  string `json:"balance" doc:"Decimal balance of the loaded ledger"`
	Count    int    `json:"count" doc:"Number of committed transactions loaded"`
	Degraded bool   `json:"degraded" doc:"True when the store could not be read and the ledger started empty"`
}

type StartSessionOutput struct {
	Body SessionResponseBody
}

type EndSessionOutput struct{}

type sessionService interface {
	StartSession(ctx context.Context, ownerID string) error
	EndSession()
	Balance() (decimal.Decimal, error)
	TransactionCount() (int, error)
}

// Handler handles POST and DELETE /v1/session.
type Handler struct {
	SessionService sessionService
}

func NewHandler(svc sessionService) *Handler {
	return &Handler{SessionService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/v1/session",
		Summary:     "Start session",
		Description: "Loads the owner's ledger. Pending drafts of a different owner are discarded.",
		Tags:        []string{"Session"},
	}, h.start)

	huma.Register(api, huma.Operation{
		OperationID:   "end-session",
		Method:        http.MethodDelete,
		Path:          "/v1/session",
		Summary:       "End session",
		Description:   "Discards the in-memory ledger and every pending draft.",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusNoContent,
	}, h.end)
}

func (h *Handler) start(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	degraded := false
	if err := h.SessionService.StartSession(ctx, input.Body.OwnerID); err != nil {
		if !service.IsDegraded(err) {
			return nil, apierror.FromService(err, "failed to start session")
		}
		degraded = true
	}

	balance, err := h.SessionService.Balance()
	if err != nil {
		return nil, apierror.FromService(err, "failed to read balance")
	}
	count, err := h.SessionService.TransactionCount()
	if err != nil {
		return nil, apierror.FromService(err, "failed to read balance")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("ownerID", input.Body.OwnerID)
		logData.AddData("degraded", degraded)
		logData.AddData("count", count)
	}

	return &StartSessionOutput{Body: SessionResponseBody{
		OwnerID:  input.Body.OwnerID,
		Balance:  balance.StringFixed(2),
		Count:    count,
		Degraded: degraded,
	}}, nil
}

func (h *Handler) end(ctx context.Context, _ *struct{}) (*EndSessionOutput, error) {
	h.SessionService.EndSession()
	return &EndSessionOutput{}, nil
}
