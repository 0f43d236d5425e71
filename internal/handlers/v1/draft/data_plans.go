package draft

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type DataPlan struct {
	Size  string `json:"size" doc:"Bundle size"`
	Price string `json:"price" doc:"Decimal price"`
	Label string `json:"label" doc:"Label to send back as the draft plan"`
}

type DataPlansOutput struct {
	Body struct {
		Plans []DataPlan `json:"plans" doc:"Data bundle catalog"`
	}
}

// DataPlansHandler handles GET /v1/drafts/data-plans.
type DataPlansHandler struct {
	DraftService draftService
}

func NewDataPlansHandler(svc draftService) *DataPlansHandler {
	return &DataPlansHandler{DraftService: svc}
}

func (h *DataPlansHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-data-plans",
		Method:      http.MethodGet,
		Path:        "/v1/drafts/data-plans",
		Summary:     "List data plans",
		Tags:        []string{"Drafts"},
	}, h.handle)
}

func (h *DataPlansHandler) handle(ctx context.Context, _ *struct{}) (*DataPlansOutput, error) {
	out := &DataPlansOutput{}
	for _, plan := range h.DraftService.DataPlans() {
		out.Body.Plans = append(out.Body.Plans, DataPlan{
			Size:  plan.Size,
			Price: plan.Price.StringFixed(2),
			Label: plan.Label(),
		})
	}
	return out, nil
}
