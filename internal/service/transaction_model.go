package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Category is the payment type of a transaction. It decides validation rules
// and whether the amount is credited or debited.
type Category string

const (
	CategoryAddMoney             Category = "AddMoney"
	CategorySendMoney            Category = "SendMoney"
	CategoryAirtime              Category = "Airtime"
	CategoryData                 Category = "Data"
	CategoryCableTV              Category = "CableTV"
	CategoryElectricity          Category = "Electricity"
	CategoryBetting              Category = "Betting"
	CategoryEducation            Category = "Education"
	CategoryGovernmentCollection Category = "GovernmentCollection"
)

var Categories = []Category{
	CategoryAddMoney,
	CategorySendMoney,
	CategoryAirtime,
	CategoryData,
	CategoryCableTV,
	CategoryElectricity,
	CategoryBetting,
	CategoryEducation,
	CategoryGovernmentCollection,
}

func ParseCategory(value string) (Category, error) {
	category := Category(value)
	if !category.Valid() {
		return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", value)}
	}
	return category, nil
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// IsIncome reports whether the category credits the wallet. Only top-ups do.
func (c Category) IsIncome() bool {
	return c == CategoryAddMoney
}

// Transaction is a committed ledger entry. It is never changed after commit.
type Transaction struct {
	ID            uuid.UUID
	OwnerID       string
	Title         string
	Category      Category
	Amount        decimal.Decimal
	PaymentMethod string
	Network       string
	Recipient     string
	Plan          string
	Note          string
	Date          time.Time
}

// SignedAmount is the transaction's effect on the balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Category.IsIncome() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Snapshot is an immutable view of one owner's ledger.
type Snapshot struct {
	ownerID      string
	transactions []Transaction
	balance      decimal.Decimal
}

func newSnapshot(ownerID string, transactions []Transaction) *Snapshot {
	return &Snapshot{
		ownerID:      ownerID,
		transactions: transactions,
		balance:      ComputeBalance(transactions),
	}
}

// with returns the snapshot that follows s once tx is committed. Only the
// single ledger writer calls it, so sharing the backing array is safe: no
// published snapshot ever reads past its own length.
func (s *Snapshot) with(tx Transaction) *Snapshot {
	return &Snapshot{
		ownerID:      s.ownerID,
		transactions: append(s.transactions, tx),
		balance:      s.balance.Add(tx.SignedAmount()),
	}
}

func (s *Snapshot) OwnerID() string {
	return s.ownerID
}

func (s *Snapshot) Balance() decimal.Decimal {
	return s.balance
}

func (s *Snapshot) Len() int {
	return len(s.transactions)
}

// Transactions returns the entries in commit order. The slice is a copy.
func (s *Snapshot) Transactions() []Transaction {
	return slices.Clone(s.transactions)
}

func (s *Snapshot) Find(id uuid.UUID) (Transaction, bool) {
	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// ComputeBalance folds the whole ledger from scratch.
func ComputeBalance(transactions []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range transactions {
		balance = balance.Add(tx.SignedAmount())
	}
	return balance
}

// Draft is a validated transaction that has not been committed yet.
type Draft struct {
	// OwnerID pins the draft to the session it was created in. Empty drafts
	// commit into whichever session is current.
	OwnerID string
	Category      Category
	Title         string
	Amount        decimal.Decimal
	PaymentMethod string
	Note          string
	// Date is optional; the ledger uses the commit time when it is zero.
	Date    time.Time
	Details DraftDetails
}

func (d Draft) Recipient() string {
	if d.Details == nil {
		return ""
	}
	return d.Details.attributes().recipient
}

func (d Draft) Network() string {
	if d.Details == nil {
		return ""
	}
	return d.Details.attributes().network
}

func (d Draft) Plan() string {
	if d.Details == nil {
		return ""
	}
	return d.Details.attributes().plan
}

// DraftDetails carries the fields a single category requires. The set of
// implementations is closed to this package.
type DraftDetails interface {
	Category() Category
	attributes() draftAttributes
}

type draftAttributes struct {
	network   string
	recipient string
	plan      string
}

type AddMoneyDetails struct{}

func (AddMoneyDetails) Category() Category          { return CategoryAddMoney }
func (AddMoneyDetails) attributes() draftAttributes { return draftAttributes{} }

type SendMoneyDetails struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
}

func (SendMoneyDetails) Category() Category { return CategorySendMoney }
func (d SendMoneyDetails) attributes() draftAttributes {
	return draftAttributes{recipient: d.AccountNumber}
}

type AirtimeDetails struct {
	Network     string `json:"network" validate:"required,oneof=mtn airtel glo 9mobile"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

func (AirtimeDetails) Category() Category { return CategoryAirtime }
func (d AirtimeDetails) attributes() draftAttributes {
	return draftAttributes{network: d.Network, recipient: d.PhoneNumber}
}

type DataDetails struct {
	Network     string `json:"network" validate:"required,oneof=mtn airtel glo 9mobile"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Plan        string `json:"plan" validate:"required"`
}

func (DataDetails) Category() Category { return CategoryData }
func (d DataDetails) attributes() draftAttributes {
	return draftAttributes{network: d.Network, recipient: d.PhoneNumber, plan: d.Plan}
}

type CableTVDetails struct {
	Provider        string `json:"provider" validate:"required"`
	SmartcardNumber string `json:"smartcardNumber" validate:"required"`
}

func (CableTVDetails) Category() Category { return CategoryCableTV }
func (d CableTVDetails) attributes() draftAttributes {
	return draftAttributes{network: d.Provider, recipient: d.SmartcardNumber}
}

type ElectricityDetails struct {
	ServiceType string `json:"serviceType" validate:"required,oneof=Prepaid Postpaid"`
	MeterNumber string `json:"meterNumber" validate:"required"`
}

func (ElectricityDetails) Category() Category { return CategoryElectricity }
func (d ElectricityDetails) attributes() draftAttributes {
	return draftAttributes{network: d.ServiceType, recipient: d.MeterNumber}
}

type BettingDetails struct {
	Platform string `json:"platform" validate:"required"`
	Username string `json:"username" validate:"required"`
}

func (BettingDetails) Category() Category { return CategoryBetting }
func (d BettingDetails) attributes() draftAttributes {
	return draftAttributes{network: d.Platform, recipient: d.Username}
}

type EducationDetails struct {
	ExamBody           string `json:"examBody" validate:"required,oneof=JAMB WAEC NECO"`
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
}

func (EducationDetails) Category() Category { return CategoryEducation }
func (d EducationDetails) attributes() draftAttributes {
	return draftAttributes{network: d.ExamBody, recipient: d.RegistrationNumber}
}

type GovernmentCollectionDetails struct {
	Service         string `json:"service" validate:"required"`
	ReferenceNumber string `json:"referenceNumber" validate:"required"`
}

func (GovernmentCollectionDetails) Category() Category { return CategoryGovernmentCollection }
func (d GovernmentCollectionDetails) attributes() draftAttributes {
	return draftAttributes{network: d.Service, recipient: d.ReferenceNumber}
}
