package transaction

import (
	"time"

	"github.com/carson-networks/wallet-server/internal/service"
)

// Transaction is the API response model for a ledger entry.
type Transaction struct {
	ID              string `json:"id" doc:"Transaction UUID"`
	Title           string `json:"title" doc:"Display title"`
	Category        string `json:"category" doc:"Payment category"`
	Amount          string `json:"amount" doc:"Decimal amount, always positive"`
	FormattedAmount string `json:"formattedAmount" doc:"Signed display amount, e.g. -₦300.00"`
	Income          bool   `json:"income" doc:"True when the entry credits the wallet"`
	PaymentMethod   string `json:"paymentMethod,omitempty" doc:"Funding source"`
	Network         string `json:"network,omitempty" doc:"Network or provider"`
	Recipient       string `json:"recipient,omitempty" doc:"Phone, account, meter or reference number"`
	Plan            string `json:"plan,omitempty" doc:"Data plan label"`
	Note            string `json:"note,omitempty" doc:"Free-form note"`
	Date            string `json:"date" doc:"RFC3339 transaction date"`
}

func FromService(tx service.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID.String(),
		Title:           tx.Title,
		Category:        string(tx.Category),
		Amount:          tx.Amount.StringFixed(2),
		FormattedAmount: service.FormatAmount(tx),
		Income:          tx.Category.IsIncome(),
		PaymentMethod:   tx.PaymentMethod,
		Network:         tx.Network,
		Recipient:       tx.Recipient,
		Plan:            tx.Plan,
		Note:            tx.Note,
		Date:            tx.Date.Format(time.RFC3339Nano),
	}
}

func fromServiceList(transactions []service.Transaction) []Transaction {
	result := make([]Transaction, len(transactions))
	for i, tx := range transactions {
		result[i] = FromService(tx)
	}
	return result
}
