package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Fields is the flat input a payment form submits. Recipient holds whatever
// identifier the category needs (phone, account, meter, smartcard, username,
// registration or reference number).
type Fields struct {
	Amount        string
	Recipient     string
	Network       string
	Plan          string
	Provider      string
	PaymentMethod string
	Note          string
	Date          time.Time
}

type DataPlan struct {
	Size  string
	Price decimal.Decimal
}

func (p DataPlan) Label() string {
	return p.Size + " – ₦" + p.Price.String()
}

var DefaultDataPlans = []DataPlan{
	{Size: "500MB", Price: decimal.NewFromInt(250)},
	{Size: "1GB", Price: decimal.NewFromInt(500)},
	{Size: "2GB", Price: decimal.NewFromInt(1000)},
	{Size: "5GB", Price: decimal.NewFromInt(2500)},
	{Size: "10GB", Price: decimal.NewFromInt(5000)},
}

const (
	defaultWalletPaymentMethod = "Wallet"
	defaultTopUpPaymentMethod  = "Card"
)

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// TransactionFactory turns payment form input into drafts. It has no side effects.
type TransactionFactory struct {
	plans []DataPlan
}

func NewTransactionFactory() *TransactionFactory {
	return &TransactionFactory{plans: DefaultDataPlans}
}

func (f *TransactionFactory) DataPlans() []DataPlan {
	return f.plans
}

// Build validates fields for the category and returns a draft ready for confirmation.
// A Data draft with no amount takes the price of its catalog plan.
func (f *TransactionFactory) Build(category Category, fields Fields) (Draft, error) {
	if !category.Valid() {
		return Draft{}, &ValidationError{Field: "category", Reason: "unknown category " + string(category)}
	}

	amountText := strings.TrimSpace(fields.Amount)
	plan, knownPlan := f.lookupPlan(fields.Plan)
	if category == CategoryData && amountText == "" && knownPlan {
		amountText = plan.Price.String()
	}
	amount, err := parseAmount(amountText)
	if err != nil {
		return Draft{}, err
	}

	if knownPlan {
		fields.Plan = plan.Label()
	}
	details := detailsFor(category, fields)
	if err := validateDetails(details); err != nil {
		return Draft{}, err
	}

	paymentMethod := defaultWalletPaymentMethod
	if category == CategoryAddMoney {
		paymentMethod = defaultTopUpPaymentMethod
	}

	title, note := describe(details)
	return Draft{
		Category:      category,
		Title:         title,
		Amount:        amount,
		PaymentMethod: firstNonEmpty(fields.PaymentMethod, paymentMethod),
		Note:          firstNonEmpty(fields.Note, note),
		Date:          fields.Date,
		Details:       details,
	}, nil
}

func (f *TransactionFactory) lookupPlan(value string) (DataPlan, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DataPlan{}, false
	}
	for _, plan := range f.plans {
		if strings.EqualFold(value, plan.Label()) || strings.EqualFold(value, plan.Size) {
			return plan, true
		}
	}
	return DataPlan{}, false
}

// Validate re-checks a draft before it is committed.
func (d Draft) Validate() error {
	if !d.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category " + string(d.Category)}
	}
	if d.Details == nil || d.Details.Category() != d.Category {
		return &ValidationError{Field: "category", Reason: "details do not match category " + string(d.Category)}
	}
	if err := validateAmount(d.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	return validateDetails(d.Details)
}

func parseAmount(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "is required"}
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must be a number"}
	}
	return amount, validateAmount(amount)
}

// maxAmount matches the NUMERIC(20,2) column of the postgres schema.
var maxAmount = decimal.New(1, 18).Sub(decimal.New(1, -2))

const (
	maxIntegerDigits  = 18
	maxFractionDigits = 18
)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	// Checked on the coefficient and exponent so that exponent notation
	// is rejected before any rescaling.
	if amount.NumDigits()+int(amount.Exponent()) > maxIntegerDigits {
		return &ValidationError{Field: "amount", Reason: "must not exceed " + maxAmount.StringFixed(2)}
	}
	if -int(amount.Exponent()) > maxFractionDigits {
		return &ValidationError{Field: "amount", Reason: "must have at most two decimal places"}
	}
	if amount.GreaterThan(maxAmount) {
		return &ValidationError{Field: "amount", Reason: "must not exceed " + maxAmount.StringFixed(2)}
	}
	if !amount.Equal(amount.Round(2)) {
		return &ValidationError{Field: "amount", Reason: "must have at most two decimal places"}
	}
	return nil
}

func validateDetails(details DraftDetails) error {
	err := draftValidator.Struct(details)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fieldError := fieldErrors[0]
		return &ValidationError{Field: fieldError.Field(), Reason: describeFieldError(fieldError)}
	}
	return err
}

func describeFieldError(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fieldError.Param(), " ", ", ")
	default:
		return "failed " + fieldError.Tag() + " check"
	}
}

func detailsFor(category Category, fields Fields) DraftDetails {
	recipient := strings.TrimSpace(fields.Recipient)
	provider := strings.TrimSpace(fields.Provider)
	network := strings.ToLower(strings.TrimSpace(fields.Network))

	switch category {
	case CategoryAddMoney:
		return AddMoneyDetails{}
	case CategorySendMoney:
		return SendMoneyDetails{AccountNumber: recipient}
	case CategoryAirtime:
		return AirtimeDetails{Network: network, PhoneNumber: recipient}
	case CategoryData:
		return DataDetails{Network: network, PhoneNumber: recipient, Plan: strings.TrimSpace(fields.Plan)}
	case CategoryCableTV:
		return CableTVDetails{Provider: firstNonEmpty(provider, "DSTV"), SmartcardNumber: recipient}
	case CategoryElectricity:
		return ElectricityDetails{ServiceType: firstNonEmpty(provider, "Prepaid"), MeterNumber: recipient}
	case CategoryBetting:
		return BettingDetails{Platform: firstNonEmpty(provider, "Bet9ja"), Username: recipient}
	case CategoryEducation:
		return EducationDetails{ExamBody: firstNonEmpty(provider, "JAMB"), RegistrationNumber: recipient}
	case CategoryGovernmentCollection:
		return GovernmentCollectionDetails{Service: firstNonEmpty(provider, "Remita"), ReferenceNumber: recipient}
	}
	panic("service: unhandled category " + string(category))
}

// describe returns the display title and default note for a draft.
func describe(details DraftDetails) (string, string) {
	switch d := details.(type) {
	case AddMoneyDetails:
		return "Wallet Top-up", "Wallet funding"
	case SendMoneyDetails:
		return "Transfer to " + d.AccountNumber, "Transfer to account " + d.AccountNumber
	case AirtimeDetails:
		return "Airtime Purchase - " + strings.ToUpper(d.Network), "Airtime purchase for " + d.PhoneNumber
	case DataDetails:
		return "Data Purchase - " + strings.ToUpper(d.Network), d.Plan + " data for " + d.PhoneNumber
	case CableTVDetails:
		return "Cable TV Payment - " + d.Provider, "Paid for " + d.Provider + " subscription"
	case ElectricityDetails:
		return "Electricity Bill - " + d.ServiceType + " (" + d.MeterNumber + ")", "Electricity payment for meter " + d.MeterNumber
	case BettingDetails:
		return "Betting - " + d.Platform + " (" + d.Username + ")", "Wallet funding for " + d.Platform
	case EducationDetails:
		return "Education - " + d.ExamBody + " (" + d.RegistrationNumber + ")", d.ExamBody + " payment"
	case GovernmentCollectionDetails:
		return "Govt Payment - " + d.Service + " (" + d.ReferenceNumber + ")", d.Service + " payment"
	}
	return "", ""
}

func firstNonEmpty(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
