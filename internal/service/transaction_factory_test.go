package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidationError(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
	assert.Equal(t, field, validationErr.Field)
	return validationErr
}

// -- Build success tests --

func TestBuild_Categories(t *testing.T) {
	factory := NewTransactionFactory()

	tests := []struct {
		name          string
		category      Category
		fields        Fields
		title         string
		recipient     string
		network       string
		plan          string
		paymentMethod string
		note          string
	}{
		{
			name:          "add money",
			category:      CategoryAddMoney,
			fields:        Fields{Amount: "1000"},
			title:         "Wallet Top-up",
			paymentMethod: "Card",
			note:          "Wallet funding",
		},
		{
			name:          "add money by transfer",
			category:      CategoryAddMoney,
			fields:        Fields{Amount: "500", PaymentMethod: "Bank Transfer", Note: "salary"},
			title:         "Wallet Top-up",
			paymentMethod: "Bank Transfer",
			note:          "salary",
		},
		{
			name:          "send money",
			category:      CategorySendMoney,
			fields:        Fields{Amount: "2500", Recipient: "0123456789"},
			title:         "Transfer to 0123456789",
			recipient:     "0123456789",
			paymentMethod: "Wallet",
			note:          "Transfer to account 0123456789",
		},
		{
			name:          "airtime",
			category:      CategoryAirtime,
			fields:        Fields{Amount: "300", Network: "MTN", Recipient: " 08012345678 "},
			title:         "Airtime Purchase - MTN",
			recipient:     "08012345678",
			network:       "mtn",
			paymentMethod: "Wallet",
			note:          "Airtime purchase for 08012345678",
		},
		{
			name:          "data",
			category:      CategoryData,
			fields:        Fields{Amount: "500", Network: "glo", Recipient: "08055555555", Plan: "1GB – ₦500"},
			title:         "Data Purchase - GLO",
			recipient:     "08055555555",
			network:       "glo",
			plan:          "1GB – ₦500",
			paymentMethod: "Wallet",
			note:          "1GB – ₦500 data for 08055555555",
		},
		{
			name:          "cable tv default provider",
			category:      CategoryCableTV,
			fields:        Fields{Amount: "4500", Recipient: "7012345678"},
			title:         "Cable TV Payment - DSTV",
			recipient:     "7012345678",
			network:       "DSTV",
			paymentMethod: "Wallet",
			note:          "Paid for DSTV subscription",
		},
		{
			name:          "electricity postpaid",
			category:      CategoryElectricity,
			fields:        Fields{Amount: "10000", Provider: "Postpaid", Recipient: "45012345678"},
			title:         "Electricity Bill - Postpaid (45012345678)",
			recipient:     "45012345678",
			network:       "Postpaid",
			paymentMethod: "Wallet",
			note:          "Electricity payment for meter 45012345678",
		},
		{
			name:          "betting",
			category:      CategoryBetting,
			fields:        Fields{Amount: "1000", Provider: "SportyBet", Recipient: "lucky7"},
			title:         "Betting - SportyBet (lucky7)",
			recipient:     "lucky7",
			network:       "SportyBet",
			paymentMethod: "Wallet",
			note:          "Wallet funding for SportyBet",
		},
		{
			name:          "education",
			category:      CategoryEducation,
			fields:        Fields{Amount: "4700", Provider: "WAEC", Recipient: "REG123"},
			title:         "Education - WAEC (REG123)",
			recipient:     "REG123",
			network:       "WAEC",
			paymentMethod: "Wallet",
			note:          "WAEC payment",
		},
		{
			name:          "government collection",
			category:      CategoryGovernmentCollection,
			fields:        Fields{Amount: "15000.50", Recipient: "RRR-1234"},
			title:         "Govt Payment - Remita (RRR-1234)",
			recipient:     "RRR-1234",
			network:       "Remita",
			paymentMethod: "Wallet",
			note:          "Remita payment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := factory.Build(tt.category, tt.fields)
			require.NoError(t, err)

			assert.Equal(t, tt.category, draft.Category)
			assert.Equal(t, tt.category, draft.Details.Category())
			assert.True(t, draft.Amount.Equal(decimal.RequireFromString(tt.fields.Amount)))
			assert.Equal(t, tt.title, draft.Title)
			assert.Equal(t, tt.recipient, draft.Recipient())
			assert.Equal(t, tt.network, draft.Network())
			assert.Equal(t, tt.plan, draft.Plan())
			assert.Equal(t, tt.paymentMethod, draft.PaymentMethod)
			assert.Equal(t, tt.note, draft.Note)
			assert.NoError(t, draft.Validate())
		})
	}
}

func TestBuild_DataAmountFromPlan(t *testing.T) {
	draft, err := NewTransactionFactory().Build(CategoryData, Fields{
		Network:   "airtel",
		Recipient: "08099999999",
		Plan:      "5gb",
	})
	require.NoError(t, err)

	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "5GB – ₦2500", draft.Plan())
}

func TestBuild_DataExplicitAmountWins(t *testing.T) {
	draft, err := NewTransactionFactory().Build(CategoryData, Fields{
		Amount:    "450",
		Network:   "mtn",
		Recipient: "08012345678",
		Plan:      "Weekend bundle",
	})
	require.NoError(t, err)

	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, "Weekend bundle", draft.Plan())
}

func TestBuild_KeepsDate(t *testing.T) {
	date := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	draft, err := NewTransactionFactory().Build(CategoryAddMoney, Fields{Amount: "10", Date: date})
	require.NoError(t, err)
	assert.True(t, draft.Date.Equal(date))
}

// -- Build validation tests --

func TestBuild_InvalidAmount(t *testing.T) {
	factory := NewTransactionFactory()

	for _, amount := range []string{
		"", "   ", "abc", "0", "-5", "0.00", "12.345", "NaN",
		"1e18", "1000000000000000000", "1e10000000", "1e-10000000", "1E+999999999",
	} {
		t.Run(amount, func(t *testing.T) {
			_, err := factory.Build(CategoryAddMoney, Fields{Amount: amount})
			requireValidationError(t, err, "amount")
		})
	}
}

func TestBuild_AmountLimits(t *testing.T) {
	factory := NewTransactionFactory()

	for _, amount := range []string{"999999999999999999.99", "1e17", "12.50", "12.5000"} {
		t.Run(amount, func(t *testing.T) {
			draft, err := factory.Build(CategoryAddMoney, Fields{Amount: amount})
			require.NoError(t, err)
			assert.True(t, draft.Amount.Equal(decimal.RequireFromString(amount)))
		})
	}
}

func TestDraftValidate_HugeExponentIsRejectedQuickly(t *testing.T) {
	draft := mustDraft(t, CategoryAddMoney, Fields{Amount: "10"})
	draft.Amount = decimal.New(1, 100000000)

	start := time.Now()
	requireValidationError(t, draft.Validate(), "amount")
	assert.Less(t, time.Since(start), time.Second)
}

func TestBuild_MissingIdentifier(t *testing.T) {
	factory := NewTransactionFactory()

	tests := []struct {
		category Category
		fields   Fields
		field    string
	}{
		{CategorySendMoney, Fields{Amount: "10"}, "accountNumber"},
		{CategoryAirtime, Fields{Amount: "10", Network: "mtn"}, "phoneNumber"},
		{CategoryData, Fields{Amount: "10", Network: "mtn", Plan: "1GB"}, "phoneNumber"},
		{CategoryCableTV, Fields{Amount: "10"}, "smartcardNumber"},
		{CategoryElectricity, Fields{Amount: "10"}, "meterNumber"},
		{CategoryBetting, Fields{Amount: "10"}, "username"},
		{CategoryEducation, Fields{Amount: "10"}, "registrationNumber"},
		{CategoryGovernmentCollection, Fields{Amount: "10"}, "referenceNumber"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			_, err := factory.Build(tt.category, tt.fields)
			validationErr := requireValidationError(t, err, tt.field)
			assert.Equal(t, "is required", validationErr.Reason)
		})
	}
}

func TestBuild_NetworkAndPlanRequired(t *testing.T) {
	factory := NewTransactionFactory()

	_, err := factory.Build(CategoryAirtime, Fields{Amount: "100", Recipient: "080"})
	requireValidationError(t, err, "network")

	_, err = factory.Build(CategoryData, Fields{Amount: "100", Network: "mtn", Recipient: "080"})
	requireValidationError(t, err, "plan")
}

func TestBuild_UnknownNetwork(t *testing.T) {
	_, err := NewTransactionFactory().Build(CategoryAirtime, Fields{Amount: "100", Network: "etisalat", Recipient: "080"})
	validationErr := requireValidationError(t, err, "network")
	assert.Equal(t, "must be one of mtn, airtel, glo, 9mobile", validationErr.Reason)
}

func TestBuild_NetworkNotRequiredOutsideAirtimeAndData(t *testing.T) {
	_, err := NewTransactionFactory().Build(CategoryBetting, Fields{Amount: "100", Recipient: "user"})
	assert.NoError(t, err)
}

func TestBuild_UnknownCategory(t *testing.T) {
	_, err := NewTransactionFactory().Build(Category("Lottery"), Fields{Amount: "100"})
	requireValidationError(t, err, "category")
}

// -- Draft.Validate tests --

func TestDraftValidate_MismatchedDetails(t *testing.T) {
	draft := Draft{
		Category: CategoryAirtime,
		Title:    "Airtime",
		Amount:   decimal.NewFromInt(100),
		Details:  AddMoneyDetails{},
	}
	requireValidationError(t, draft.Validate(), "category")
}

func TestDraftValidate_HandBuiltDraftMissingField(t *testing.T) {
	draft := Draft{
		Category: CategoryAirtime,
		Title:    "Airtime",
		Amount:   decimal.NewFromInt(100),
		Details:  AirtimeDetails{Network: "mtn"},
	}
	requireValidationError(t, draft.Validate(), "phoneNumber")
}

func TestParseCategory(t *testing.T) {
	category, err := ParseCategory("CableTV")
	assert.NoError(t, err)
	assert.Equal(t, CategoryCableTV, category)

	_, err = ParseCategory("cabletv")
	requireValidationError(t, err, "category")
}
