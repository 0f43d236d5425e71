package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

type FilterMode string

const (
	FilterAll     FilterMode = "All"
	FilterIncome  FilterMode = "Income"
	FilterExpense FilterMode = "Expense"
)

func ParseFilterMode(value string) (FilterMode, error) {
	switch mode := FilterMode(value); mode {
	case FilterAll, FilterIncome, FilterExpense:
		return mode, nil
	case "":
		return FilterAll, nil
	}
	return "", &ValidationError{Field: "filter", Reason: "must be one of All, Income, Expense"}
}

// Buckets groups history by calendar day relative to a reference instant.
type Buckets struct {
	Today     []Transaction
	Yesterday []Transaction
	Earlier   []Transaction
}

func (b Buckets) Len() int {
	return len(b.Today) + len(b.Yesterday) + len(b.Earlier)
}

// Filter keeps ledger order. Income is top-ups only; Expense is everything else.
func Filter(transactions []Transaction, mode FilterMode) []Transaction {
	result := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		switch mode {
		case FilterIncome:
			if !tx.Category.IsIncome() {
				continue
			}
		case FilterExpense:
			if tx.Category.IsIncome() {
				continue
			}
		}
		result = append(result, tx)
	}
	return result
}

// SortDescendingByDate returns a copy with the most recent first. Equal dates
// keep ledger order.
func SortDescendingByDate(transactions []Transaction) []Transaction {
	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// Bucket splits transactions into Today, Yesterday and Earlier using the
// calendar of now's location. Future dates land in Earlier.
func Bucket(transactions []Transaction, now time.Time) Buckets {
	location := now.Location()
	year, month, day := now.Date()
	startOfToday := time.Date(year, month, day, 0, 0, 0, 0, location)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)
	startOfYesterday := startOfToday.AddDate(0, 0, -1)

	buckets := Buckets{
		Today:     []Transaction{},
		Yesterday: []Transaction{},
		Earlier:   []Transaction{},
	}
	for _, tx := range transactions {
		date := tx.Date.In(location)
		switch {
		case !date.Before(startOfToday) && date.Before(startOfTomorrow):
			buckets.Today = append(buckets.Today, tx)
		case !date.Before(startOfYesterday) && date.Before(startOfToday):
			buckets.Yesterday = append(buckets.Yesterday, tx)
		default:
			buckets.Earlier = append(buckets.Earlier, tx)
		}
	}
	return buckets
}

// Project is the history screen: filter, sort, then bucket.
func Project(transactions []Transaction, mode FilterMode, now time.Time) Buckets {
	return Bucket(SortDescendingByDate(Filter(transactions, mode)), now)
}

// Recent returns the last n commits, newest first.
func Recent(transactions []Transaction, n int) []Transaction {
	if n <= 0 {
		return []Transaction{}
	}
	start := max(len(transactions)-n, 0)
	recent := slices.Clone(transactions[start:])
	slices.Reverse(recent)
	return recent
}

// FormatNaira renders an amount as ₦1,234.50. Negative amounts get a leading minus.
func FormatNaira(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	rounded := amount.Abs().Round(2)
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()
	return sign + "₦" + humanize.BigComma(whole.BigInt()) + fmt.Sprintf(".%02d", cents)
}

// FormatSigned renders +₦ for credits and -₦ for debits.
func FormatSigned(amount decimal.Decimal, credit bool) string {
	if credit {
		return "+" + FormatNaira(amount.Abs())
	}
	return "-" + FormatNaira(amount.Abs())
}

func FormatAmount(tx Transaction) string {
	return FormatSigned(tx.Amount, tx.Category.IsIncome())
}
