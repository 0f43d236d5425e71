package draft

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/service"
)

// Summary is what the user reviews before confirming.
type Summary struct {
	Category        string `json:"category" doc:"Payment category"`
	Title           string `json:"title" doc:"Display title"`
	Recipient       string `json:"recipient,omitempty" doc:"Phone, account, meter or reference number"`
	Network         string `json:"network,omitempty" doc:"Network or provider"`
	Plan            string `json:"plan,omitempty" doc:"Data plan label"`
	Amount          string `json:"amount" doc:"Decimal amount"`
	FormattedAmount string `json:"formattedAmount" doc:"Signed display amount"`
}

func summaryFromService(summary service.Summary) Summary {
	return Summary{
		Category:        string(summary.Category),
		Title:           summary.Title,
		Recipient:       summary.Recipient,
		Network:         summary.Network,
		Plan:            summary.Plan,
		Amount:          summary.Amount.StringFixed(2),
		FormattedAmount: summary.FormattedAmount,
	}
}

type draftService interface {
	CreateDraft(category service.Category, fields service.Fields) (uuid.UUID, service.Summary, error)
	ConfirmDraft(ctx context.Context, draftID uuid.UUID) (service.Transaction, error)
	CancelDraft(draftID uuid.UUID) error
	DataPlans() []service.DataPlan
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
