package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyTx(category Category, amount string, date time.Time) Transaction {
	return Transaction{
		ID:       uuid.Must(uuid.NewV7()),
		Title:    string(category),
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

func ids(transactions []Transaction) []uuid.UUID {
	result := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, tx.ID)
	}
	return result
}

// -- Filter tests --

func TestFilter_PartitionsLedger(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	ledger := []Transaction{
		historyTx(CategoryAddMoney, "1000", now),
		historyTx(CategoryAirtime, "300", now),
		historyTx(CategorySendMoney, "50", now),
		historyTx(CategoryAddMoney, "20", now),
		historyTx(CategoryElectricity, "75.25", now),
	}

	all := Filter(ledger, FilterAll)
	income := Filter(ledger, FilterIncome)
	expense := Filter(ledger, FilterExpense)

	assert.Equal(t, ids(ledger), ids(all))
	assert.Equal(t, []uuid.UUID{ledger[0].ID, ledger[3].ID}, ids(income))
	assert.Equal(t, []uuid.UUID{ledger[1].ID, ledger[2].ID, ledger[4].ID}, ids(expense))
	assert.ElementsMatch(t, ids(all), append(ids(income), ids(expense)...))
}

func TestParseFilterMode(t *testing.T) {
	mode, err := ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, mode)

	mode, err = ParseFilterMode("Expense")
	require.NoError(t, err)
	assert.Equal(t, FilterExpense, mode)

	_, err = ParseFilterMode("expense")
	requireValidationError(t, err, "filter")
}

// -- Sort tests --

func TestSortDescendingByDate(t *testing.T) {
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	oldest := historyTx(CategoryAirtime, "1", base.Add(-2*time.Hour))
	tieFirst := historyTx(CategoryAirtime, "2", base)
	newest := historyTx(CategoryAirtime, "3", base.Add(time.Hour))
	tieSecond := historyTx(CategoryAirtime, "4", base)
	ledger := []Transaction{oldest, tieFirst, newest, tieSecond}

	sorted := SortDescendingByDate(ledger)

	assert.Equal(t, []uuid.UUID{newest.ID, tieFirst.ID, tieSecond.ID, oldest.ID}, ids(sorted))
	assert.Equal(t, oldest.ID, ledger[0].ID, "input must not be reordered")
}

// -- Bucket tests --

func TestBucket_Boundaries(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	startOfToday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	today := historyTx(CategoryAirtime, "1", startOfToday)
	lateYesterday := historyTx(CategoryAirtime, "2", startOfToday.Add(-time.Microsecond))
	startOfYesterday := historyTx(CategoryAirtime, "3", startOfToday.AddDate(0, 0, -1))
	earlier := historyTx(CategoryAirtime, "4", startOfToday.AddDate(0, 0, -1).Add(-time.Second))
	future := historyTx(CategoryAirtime, "5", startOfToday.AddDate(0, 0, 1))

	buckets := Bucket([]Transaction{today, lateYesterday, startOfYesterday, earlier, future}, now)

	assert.Equal(t, []uuid.UUID{today.ID}, ids(buckets.Today))
	assert.Equal(t, []uuid.UUID{lateYesterday.ID, startOfYesterday.ID}, ids(buckets.Yesterday))
	assert.Equal(t, []uuid.UUID{earlier.ID, future.ID}, ids(buckets.Earlier))
	assert.Equal(t, 5, buckets.Len())
}

func TestBucket_UsesReferenceLocation(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, lagos)

	// 23:30 UTC on June 9 is 00:30 on June 10 in Lagos.
	tx := historyTx(CategoryAirtime, "1", time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC))

	buckets := Bucket([]Transaction{tx}, now)
	assert.Len(t, buckets.Today, 1)

	buckets = Bucket([]Transaction{tx}, now.UTC())
	assert.Len(t, buckets.Yesterday, 1)
}

func TestBucket_DaylightSavingDay(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks jump forward on March 9, 2025, so that day is 23 hours long.
	now := time.Date(2025, 3, 10, 0, 30, 0, 0, newYork)
	yesterdayMorning := historyTx(CategoryAirtime, "1", time.Date(2025, 3, 9, 0, 15, 0, 0, newYork))
	twoDaysAgo := historyTx(CategoryAirtime, "2", time.Date(2025, 3, 8, 23, 59, 0, 0, newYork))

	buckets := Bucket([]Transaction{yesterdayMorning, twoDaysAgo}, now)
	assert.Equal(t, []uuid.UUID{yesterdayMorning.ID}, ids(buckets.Yesterday))
	assert.Equal(t, []uuid.UUID{twoDaysAgo.ID}, ids(buckets.Earlier))
}

func TestBucket_EmptyLedger(t *testing.T) {
	buckets := Bucket(nil, time.Now())
	assert.NotNil(t, buckets.Today)
	assert.NotNil(t, buckets.Yesterday)
	assert.NotNil(t, buckets.Earlier)
	assert.Zero(t, buckets.Len())
}

// -- Project tests --

func TestProject_Scenario(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	topUpToday := historyTx(CategoryAddMoney, "1000", now.Add(-4*time.Hour))
	airtimeToday := historyTx(CategoryAirtime, "300", now.Add(-time.Hour))
	billYesterday := historyTx(CategoryElectricity, "5000", now.AddDate(0, 0, -1))
	transferLastWeek := historyTx(CategorySendMoney, "200", now.AddDate(0, 0, -7))
	ledger := []Transaction{transferLastWeek, billYesterday, topUpToday, airtimeToday}

	all := Project(ledger, FilterAll, now)
	assert.Equal(t, []uuid.UUID{airtimeToday.ID, topUpToday.ID}, ids(all.Today))
	assert.Equal(t, []uuid.UUID{billYesterday.ID}, ids(all.Yesterday))
	assert.Equal(t, []uuid.UUID{transferLastWeek.ID}, ids(all.Earlier))

	income := Project(ledger, FilterIncome, now)
	assert.Equal(t, []uuid.UUID{topUpToday.ID}, ids(income.Today))
	assert.Empty(t, income.Yesterday)
	assert.Empty(t, income.Earlier)

	expense := Project(ledger, FilterExpense, now)
	assert.Equal(t, 3, expense.Len())

	assert.Equal(t, all, Project(ledger, FilterAll, now))
}

// -- Recent tests --

func TestRecent(t *testing.T) {
	now := time.Now()
	ledger := []Transaction{
		historyTx(CategoryAddMoney, "1", now),
		historyTx(CategoryAirtime, "2", now),
		historyTx(CategoryAirtime, "3", now),
	}

	assert.Equal(t, []uuid.UUID{ledger[2].ID, ledger[1].ID}, ids(Recent(ledger, 2)))
	assert.Equal(t, []uuid.UUID{ledger[2].ID, ledger[1].ID, ledger[0].ID}, ids(Recent(ledger, 10)))
	assert.Empty(t, Recent(ledger, 0))
	assert.Empty(t, Recent(nil, 4))
	assert.Equal(t, CategoryAddMoney, ledger[0].Category, "input must not be reordered")
}

// -- Formatting tests --

func TestFormatNaira(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "₦0.00"},
		{"0.05", "₦0.05"},
		{"300", "₦300.00"},
		{"1000", "₦1,000.00"},
		{"1234567.5", "₦1,234,567.50"},
		{"-2500.75", "-₦2,500.75"},
		{"19.999", "₦20.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNaira(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "+₦1,000.00", FormatAmount(historyTx(CategoryAddMoney, "1000", now)))
	assert.Equal(t, "-₦300.00", FormatAmount(historyTx(CategoryAirtime, "300", now)))
}
