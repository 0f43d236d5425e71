package events

import (
	"encoding/json"
	"time"

	"github.com/carson-networks/wallet-server/internal/service"
)

// TransactionCommittedMessage is published once per committed ledger entry.
type TransactionCommittedMessage struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerID"`
	Category      string    `json:"category"`
	Title         string    `json:"title"`
	Amount        string    `json:"amount"`
	SignedAmount  string    `json:"signedAmount"`
	Balance       string    `json:"balance"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Recipient     string    `json:"recipient,omitempty"`
	Network       string    `json:"network,omitempty"`
	Plan          string    `json:"plan,omitempty"`
	Date          time.Time `json:"date"`
}

func NewTransactionCommittedMessage(event service.LedgerEvent) TransactionCommittedMessage {
	tx := event.Transaction
	msg := TransactionCommittedMessage{
		ID:            tx.ID.String(),
		OwnerID:       tx.OwnerID,
		Category:      string(tx.Category),
		Title:         tx.Title,
		Amount:        tx.Amount.StringFixed(2),
		SignedAmount:  tx.SignedAmount().StringFixed(2),
		PaymentMethod: tx.PaymentMethod,
		Recipient:     tx.Recipient,
		Network:       tx.Network,
		Plan:          tx.Plan,
		Date:          tx.Date,
	}
	if event.Snapshot != nil {
		msg.Balance = event.Snapshot.Balance().StringFixed(2)
	}
	return msg
}

func (m TransactionCommittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionCommittedMessageFromJSON(data []byte) (*TransactionCommittedMessage, error) {
	var msg TransactionCommittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
