// Package statistics aggregates a user's transactions into the monthly
// numbers the dashboard shows. Sums are computed in cents and cached in Redis
// per user and month so repeated dashboard loads stay cheap.
package statistics

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/internal/pkg/cache"
	"github.com/gestorpro/gestorpro/internal/pkg/database"
)

const (
	CacheKeyMonthlySummary = "statistics:summary:%d:%s" // user ID + month YYYY-MM
	CacheExpiration        = 30 * time.Minute
)

// MonthlySummary holds one month of financial totals for a user. All values
// are cents.
type MonthlySummary struct {
	Month        string `json:"month"` // YYYY-MM
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	BalanceCents int64  `json:"balance_cents"`
}

// Trend compares two consecutive months.
type Trend string

const (
	TrendUp     Trend = "cresceu"
	TrendDown   Trend = "caiu"
	TrendStable Trend = "manteve"
)

// GrowthComparison relates the current month's balance to the previous one.
type GrowthComparison struct {
	Current       MonthlySummary `json:"current"`
	Previous      MonthlySummary `json:"previous"`
	Trend         Trend          `json:"trend"`
	DeltaCents    int64          `json:"delta_cents"`
	DeltaPercent  float64        `json:"delta_percent"`
	HasComparison bool           `json:"has_comparison"`
}

// CalculateMonthlySummary sums the given transactions for one month. Entradas
// count as income; saida, gasto_fixo, gasto_variavel and salario all count as
// expenses. Transactions from other months are skipped.
func CalculateMonthlySummary(transactions []models.Transaction, month string) MonthlySummary {
	summary := MonthlySummary{Month: month}
	for _, tx := range transactions {
		if tx.Month() != month {
			continue
		}
		switch tx.Type {
		case models.TransactionEntrada:
			summary.IncomeCents += tx.ValueCents
		case models.TransactionSaida,
			models.TransactionSalario,
			models.TransactionGastoFixo,
			models.TransactionGastoVariavel:
			summary.ExpenseCents += tx.ValueCents
		}
	}
	summary.BalanceCents = summary.IncomeCents - summary.ExpenseCents
	return summary
}

// CompareGrowth relates the current month to the previous one. When the
// previous month has no activity at all the comparison is flagged as absent
// and the trend defaults to stable.
func CompareGrowth(current, previous MonthlySummary) GrowthComparison {
	cmp := GrowthComparison{Current: current, Previous: previous}
	if previous.IncomeCents == 0 && previous.ExpenseCents == 0 {
		cmp.Trend = TrendStable
		return cmp
	}
	cmp.HasComparison = true
	cmp.DeltaCents = current.BalanceCents - previous.BalanceCents
	if previous.BalanceCents != 0 {
		cmp.DeltaPercent = float64(cmp.DeltaCents) / float64(abs64(previous.BalanceCents)) * 100
	}
	switch {
	case cmp.DeltaCents > 0:
		cmp.Trend = TrendUp
	case cmp.DeltaCents < 0:
		cmp.Trend = TrendDown
	default:
		cmp.Trend = TrendStable
	}
	return cmp
}

// PreviousMonth returns the month before one in YYYY-MM form.
func PreviousMonth(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.AddDate(0, -1, 0).Format("2006-01")
}

// GetMonthlySummary loads a user's summary for one month, serving from the
// Redis cache when possible and falling back to the database.
func GetMonthlySummary(userID uint, month string) (MonthlySummary, error) {
	key := fmt.Sprintf(CacheKeyMonthlySummary, userID, month)
	if val, err := cache.Get(key); err == nil {
		var summary MonthlySummary
		if err := json.Unmarshal([]byte(val), &summary); err == nil {
			return summary, nil
		}
	}

	db := database.GetDB()
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return MonthlySummary{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	end := start.AddDate(0, 1, 0)

	var transactions []models.Transaction
	if err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).Find(&transactions).Error; err != nil {
		return MonthlySummary{}, err
	}

	summary := CalculateMonthlySummary(transactions, month)
	if data, err := json.Marshal(summary); err == nil {
		if err := cache.Set(key, string(data), CacheExpiration); err != nil {
			log.Printf("[statistics] failed to cache summary for user %d month %s: %v", userID, month, err)
		}
	}
	return summary, nil
}

// GetGrowthComparison loads the current and previous month for a user and
// compares them.
func GetGrowthComparison(userID uint, month string) (GrowthComparison, error) {
	current, err := GetMonthlySummary(userID, month)
	if err != nil {
		return GrowthComparison{}, err
	}
	previous, err := GetMonthlySummary(userID, PreviousMonth(month))
	if err != nil {
		return GrowthComparison{}, err
	}
	return CompareGrowth(current, previous), nil
}

// InvalidateMonthlySummary drops the cached summary after a transaction write.
func InvalidateMonthlySummary(userID uint, month string) {
	key := fmt.Sprintf(CacheKeyMonthlySummary, userID, month)
	if err := cache.Delete(key); err != nil {
		log.Printf("[statistics] failed to invalidate summary cache %s: %v", key, err)
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
