package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gestorpro/gestorpro/app/models"
)

func tx(txType string, cents int64, date string) models.Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return models.Transaction{Type: txType, ValueCents: cents, Date: d}
}

func TestCalculateMonthlySummary(t *testing.T) {
	transactions := []models.Transaction{
		tx(models.TransactionEntrada, 500_00, "2026-08-01"),
		tx(models.TransactionEntrada, 250_50, "2026-08-15"),
		tx(models.TransactionSaida, 100_00, "2026-08-10"),
		tx(models.TransactionGastoFixo, 80_00, "2026-08-05"),
		tx(models.TransactionGastoVariavel, 20_25, "2026-08-20"),
		tx(models.TransactionSalario, 150_00, "2026-08-28"),
		// Other months must not leak in.
		tx(models.TransactionEntrada, 999_99, "2026-07-31"),
		tx(models.TransactionSaida, 999_99, "2026-09-01"),
	}

	summary := CalculateMonthlySummary(transactions, "2026-08")

	assert.Equal(t, int64(750_50), summary.IncomeCents)
	assert.Equal(t, int64(350_25), summary.ExpenseCents)
	assert.Equal(t, int64(400_25), summary.BalanceCents)
	assert.Equal(t, "2026-08", summary.Month)
}

func TestCalculateMonthlySummary_Empty(t *testing.T) {
	summary := CalculateMonthlySummary(nil, "2026-08")
	assert.Zero(t, summary.IncomeCents)
	assert.Zero(t, summary.ExpenseCents)
	assert.Zero(t, summary.BalanceCents)
}

func TestCompareGrowth(t *testing.T) {
	tests := []struct {
		name         string
		current      MonthlySummary
		previous     MonthlySummary
		wantTrend    Trend
		wantHasCmp   bool
		wantDelta    int64
	}{
		{
			name:       "growth",
			current:    MonthlySummary{IncomeCents: 1000_00, ExpenseCents: 200_00, BalanceCents: 800_00},
			previous:   MonthlySummary{IncomeCents: 500_00, ExpenseCents: 100_00, BalanceCents: 400_00},
			wantTrend:  TrendUp,
			wantHasCmp: true,
			wantDelta:  400_00,
		},
		{
			name:       "decline",
			current:    MonthlySummary{IncomeCents: 100_00, BalanceCents: 100_00},
			previous:   MonthlySummary{IncomeCents: 300_00, BalanceCents: 300_00},
			wantTrend:  TrendDown,
			wantHasCmp: true,
			wantDelta:  -200_00,
		},
		{
			name:       "stable",
			current:    MonthlySummary{IncomeCents: 300_00, BalanceCents: 300_00},
			previous:   MonthlySummary{IncomeCents: 300_00, BalanceCents: 300_00},
			wantTrend:  TrendStable,
			wantHasCmp: true,
		},
		{
			name:      "no previous activity",
			current:   MonthlySummary{IncomeCents: 300_00, BalanceCents: 300_00},
			previous:  MonthlySummary{},
			wantTrend: TrendStable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp := CompareGrowth(tt.current, tt.previous)
			assert.Equal(t, tt.wantTrend, cmp.Trend)
			assert.Equal(t, tt.wantHasCmp, cmp.HasComparison)
			assert.Equal(t, tt.wantDelta, cmp.DeltaCents)
		})
	}
}

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, "2026-07", PreviousMonth("2026-08"))
	assert.Equal(t, "2025-12", PreviousMonth("2026-01"))
	assert.Equal(t, "bogus", PreviousMonth("bogus"))
}
