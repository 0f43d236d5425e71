package draft

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

// CreateDraftBody is the payment form. Recipient carries the identifier the
// category needs and Provider the biller or platform.
type CreateDraftBody struct {
	Category      string `json:"category" enum:"AddMoney,SendMoney,Airtime,Data,CableTV,Electricity,Betting,Education,GovernmentCollection" doc:"Payment category"`
	Amount        string `json:"amount,omitempty" doc:"Decimal amount. Optional for Data when plan names a catalog plan."`
	Recipient     string `json:"recipient,omitempty" doc:"Phone, account, smartcard, meter, username, registration or reference number"`
	Network       string `json:"network,omitempty" doc:"Mobile network for Airtime and Data"`
	Plan          string `json:"plan,omitempty" doc:"Data plan size or label"`
	Provider      string `json:"provider,omitempty" doc:"Biller, platform, exam body or service type"`
	PaymentMethod string `json:"paymentMethod,omitempty" doc:"Funding source"`
	Note          string `json:"note,omitempty" doc:"Free-form note"`
	Date          string `json:"date,omitempty" format:"date-time" doc:"RFC3339 date, defaults to the commit time"`
}

type CreateDraftInput struct {
	Body CreateDraftBody
}

type CreateDraftResponseBody struct {
	DraftID string  `json:"draftID" doc:"Draft UUID to confirm or cancel"`
	State   string  `json:"state" doc:"Gate state"`
	Summary Summary `json:"summary" doc:"Confirmation summary"`
}

type CreateDraftOutput struct {
	Body CreateDraftResponseBody
}

// CreateDraftHandler handles POST /v1/drafts.
type CreateDraftHandler struct {
	DraftService draftService
}

func NewCreateDraftHandler(svc draftService) *CreateDraftHandler {
	return &CreateDraftHandler{DraftService: svc}
}

func (h *CreateDraftHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-draft",
		Method:        http.MethodPost,
		Path:          "/v1/drafts",
		Summary:       "Create draft",
		Description:   "Validates a payment form and opens a confirmation gate for it. Nothing is committed until the draft is confirmed.",
		Tags:          []string{"Drafts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateDraftInput maps the request onto the factory's input.
func parseCreateDraftInput(input *CreateDraftInput) (service.Category, service.Fields, error) {
	category, err := service.ParseCategory(input.Body.Category)
	if err != nil {
		return "", service.Fields{}, apierror.FromService(err, "invalid category")
	}

	date, err := parseDate(input.Body.Date)
	if err != nil {
		return "", service.Fields{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
	}

	return category, service.Fields{
		Amount:        input.Body.Amount,
		Recipient:     input.Body.Recipient,
		Network:       input.Body.Network,
		Plan:          input.Body.Plan,
		Provider:      input.Body.Provider,
		PaymentMethod: input.Body.PaymentMethod,
		Note:          input.Body.Note,
		Date:          date,
	}, nil
}

func (h *CreateDraftHandler) handle(ctx context.Context, input *CreateDraftInput) (*CreateDraftOutput, error) {
	category, fields, err := parseCreateDraftInput(input)
	if err != nil {
		return nil, err
	}

	draftID, summary, err := h.DraftService.CreateDraft(category, fields)
	if err != nil {
		return nil, apierror.FromService(err, "failed to create draft")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("draftID", draftID.String())
		logData.AddData("category", string(category))
	}

	return &CreateDraftOutput{Body: CreateDraftResponseBody{
		DraftID: draftID.String(),
		State:   service.GateStatePendingConfirmation.String(),
		Summary: summaryFromService(summary),
	}}, nil
}
