package draft

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

type DraftIDInput struct {
	DraftID string `path:"draftID" format:"uuid" doc:"Draft UUID"`
}

type ConfirmDraftResponseBody struct {
	State       string                  `json:"state" doc:"Gate state"`
	Transaction transaction.Transaction `json:"transaction" doc:"Committed ledger entry"`
}

type ConfirmDraftOutput struct {
	Body ConfirmDraftResponseBody
}

type CancelDraftOutput struct {
	Body struct {
		State string `json:"state" doc:"Gate state"`
	}
}

// ResolveDraftHandler handles the confirm and cancel actions of a draft.
type ResolveDraftHandler struct {
	DraftService draftService
}

func NewResolveDraftHandler(svc draftService) *ResolveDraftHandler {
	return &ResolveDraftHandler{DraftService: svc}
}

func (h *ResolveDraftHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "confirm-draft",
		Method:      http.MethodPost,
		Path:        "/v1/drafts/{draftID}/confirm",
		Summary:     "Confirm draft",
		Description: "Commits the draft to the ledger. A failed commit leaves the draft pending so it can be retried.",
		Tags:        []string{"Drafts"},
	}, h.confirm)

	huma.Register(api, huma.Operation{
		OperationID: "cancel-draft",
		Method:      http.MethodPost,
		Path:        "/v1/drafts/{draftID}/cancel",
		Summary:     "Cancel draft",
		Tags:        []string{"Drafts"},
	}, h.cancel)
}

func parseDraftID(input *DraftIDInput) (uuid.UUID, error) {
	id, err := uuid.FromString(input.DraftID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid draftID", err)
	}
	return id, nil
}

func (h *ResolveDraftHandler) confirm(ctx context.Context, input *DraftIDInput) (*ConfirmDraftOutput, error) {
	id, err := parseDraftID(input)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		logData.AddData("draftID", id.String())
		stopTimer = logData.AddTiming("commitMs")
	}
	tx, err := h.DraftService.ConfirmDraft(ctx, id)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromService(err, "failed to confirm draft")
	}

	return &ConfirmDraftOutput{Body: ConfirmDraftResponseBody{
		State:       service.GateStateCommitted.String(),
		Transaction: transaction.FromService(tx),
	}}, nil
}

func (h *ResolveDraftHandler) cancel(ctx context.Context, input *DraftIDInput) (*CancelDraftOutput, error) {
	id, err := parseDraftID(input)
	if err != nil {
		return nil, err
	}

	if err := h.DraftService.CancelDraft(id); err != nil {
		return nil, apierror.FromService(err, "failed to cancel draft")
	}

	out := &CancelDraftOutput{}
	out.Body.State = service.GateStateCancelled.String()
	return out, nil
}
