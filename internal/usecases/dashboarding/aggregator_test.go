package dashboarding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func TestBuild_NameFragmentAttribution(t *testing.T) {
	// Venda com sold_by nulo e sold_by_name "Julia" deve cair na Julia Souza
	snap := Snapshot{
		Sellers: []*domain.Seller{
			{ID: "s1", Name: "Julia Souza", Email: "julia@empresa.com"},
		},
		ClosedSales: []*domain.Sale{
			{
				ID:         "v1",
				Amount:     "1000",
				StageName:  "Dinheiro no bolso",
				SoldAt:     timePtr(testNow),
				SoldByName: "Julia",
			},
		},
	}

	result := Build(snap, testNow, config.Goals{})

	assert.Equal(t, 1000.0, result.Totals.TotalSalesValue)
	assert.Equal(t, 1, result.Totals.TotalSalesCount)

	require.Len(t, result.Sellers, 1)
	assert.Equal(t, "s1", result.Sellers[0].ID)
	assert.Equal(t, 1000.0, result.Sellers[0].SalesTotal)

	require.Len(t, result.TodaySales, 1)
	assert.Equal(t, "s1", result.TodaySales[0].SellerID)
	assert.Equal(t, 1000.0, result.TodaySales[0].SalesTotal)
}

func TestBuild_TodayWindow(t *testing.T) {
	todayLate := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	yesterdayLate := time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC)

	snap := Snapshot{
		Sellers: []*domain.Seller{{ID: "s1", Name: "Elaine"}},
		ClosedSales: []*domain.Sale{
			{ID: "v1", Amount: "100", SoldAt: timePtr(todayLate), SoldBy: "s1"},
			{ID: "v2", Amount: "200", SoldAt: timePtr(yesterdayLate), SoldBy: "s1"},
		},
	}

	result := Build(snap, testNow, config.Goals{})

	// Ambas contam no total, só a de hoje entra em todaySales
	assert.Equal(t, 300.0, result.Totals.TotalSalesValue)
	require.Len(t, result.TodaySales, 1)
	assert.Equal(t, 1, result.TodaySales[0].SalesCount)
	assert.Equal(t, 100.0, result.TodaySales[0].SalesTotal)
}

func TestBuild_EffectiveDateFallsBackToCreatedAt(t *testing.T) {
	snap := Snapshot{
		Sellers: []*domain.Seller{{ID: "s1", Name: "Elaine"}},
		ClosedSales: []*domain.Sale{
			// Sem sold_at, fechada por estágio, criada hoje
			{ID: "v1", Amount: "50", StageName: "Vendido", SoldBy: "s1", CreatedAt: testNow},
		},
	}

	result := Build(snap, testNow, config.Goals{})

	require.Len(t, result.TodaySales, 1)
	assert.Equal(t, 50.0, result.TodaySales[0].SalesTotal)
}

func TestBuild_Conservation(t *testing.T) {
	snap := Snapshot{
		Sellers: []*domain.Seller{
			{ID: "s1", Name: "Julia Souza"},
			{ID: "s2", Name: "Maria Vitória"},
			{ID: "s3", Name: "Elaine Prado"},
		},
		ClosedSales: []*domain.Sale{
			{ID: "v1", Amount: "100.10", SoldAt: timePtr(testNow), SoldBy: "s1"},
			{ID: "v2", Amount: "200.20", SoldAt: timePtr(testNow), SoldBy: "s2"},
			{ID: "v3", Amount: "300.30", SoldAt: timePtr(testNow), SoldBy: "s2"},
		},
		Budgets: []*domain.BudgetDocument{
			{ID: "b1", Amount: 400, SellerRef: "s1", CreatedAt: testNow},
			{ID: "b2", Amount: 500, SellerRef: "s3", CreatedAt: testNow},
		},
	}

	result := Build(snap, testNow, config.Goals{})

	var salesSum, quotesSum float64
	for _, seller := range result.Sellers {
		salesSum += seller.SalesTotal
		quotesSum += seller.OpenQuotesValue
	}

	assert.InDelta(t, result.Totals.TotalSalesValue, salesSum, 1e-9)
	assert.InDelta(t, result.Totals.TotalOpenQuotesValue, quotesSum, 1e-9)
	assert.Equal(t, 2, result.Totals.TotalOpenQuotes)
	assert.Equal(t, 3, result.Totals.TotalSalesCount)
}

func TestBuild_ZeroActivitySellersAppear(t *testing.T) {
	snap := Snapshot{
		Sellers: []*domain.Seller{
			{ID: "s1", Name: "Julia"},
			{ID: "s2", Name: "Elaine"},
		},
		ClosedSales: []*domain.Sale{
			{ID: "v1", Amount: "10", SoldAt: timePtr(testNow), SoldBy: "s2"},
		},
	}

	result := Build(snap, testNow, config.Goals{})

	require.Len(t, result.Sellers, 2)
	// Ordenação decrescente por total vendido
	assert.Equal(t, "s2", result.Sellers[0].ID)
	assert.Equal(t, "s1", result.Sellers[1].ID)
	assert.Equal(t, 0.0, result.Sellers[1].SalesTotal)
	// Sem vendas hoje, fora de todaySales
	require.Len(t, result.TodaySales, 1)
}

func TestBuild_UnattributedExcluded(t *testing.T) {
	snap := Snapshot{
		Sellers: []*domain.Seller{{ID: "s1", Name: "Julia"}},
		ClosedSales: []*domain.Sale{
			{ID: "v1", Amount: "999", SoldAt: timePtr(testNow), SoldBy: "desconhecido", SoldByName: "Fulano"},
		},
	}

	result := Build(snap, testNow, config.Goals{})

	assert.Equal(t, 0.0, result.Totals.TotalSalesValue)
	assert.Equal(t, 0, result.Totals.TotalSalesCount)
}

func TestBuild_OpenQuoteSalesFallback(t *testing.T) {
	snap := Snapshot{
		Sellers: []*domain.Seller{{ID: "s1", Name: "Julia"}},
		OpenQuoteSales: []*domain.Sale{
			{ID: "q1", Amount: "150", StageName: "Em negociação", SoldBy: "s1", CreatedAt: testNow.Add(-time.Hour)},
			{ID: "q2", Amount: "250", StageName: "Proposta enviada", SoldBy: "s1", CreatedAt: testNow},
			// Fechada por estágio não pode entrar como orçamento
			{ID: "q3", Amount: "350", StageName: "Vendido", SoldBy: "s1", CreatedAt: testNow},
		},
	}

	result := Build(snap, testNow, config.Goals{})

	require.Len(t, result.OpenQuotes, 2)
	// Ordenados por data de criação decrescente
	assert.Equal(t, "q2", result.OpenQuotes[0].ID)
	assert.Equal(t, "q1", result.OpenQuotes[1].ID)
	assert.Equal(t, "sales", result.OpenQuotes[0].Source)
	assert.Equal(t, "Proposta enviada", result.OpenQuotes[0].StageName)
	assert.Equal(t, 400.0, result.Totals.TotalOpenQuotesValue)
}

func TestBuild_BudgetAttributionByLead(t *testing.T) {
	snap := Snapshot{
		Sellers: []*domain.Seller{{ID: "s1", Name: "Maria Vitória"}},
		Budgets: []*domain.BudgetDocument{
			{ID: "b1", Amount: 700, SellerRef: "alguem-de-fora", LeadID: "l1", CreatedAt: testNow},
		},
		LeadsBySeller: map[string][]string{"s1": {"l1"}},
	}

	result := Build(snap, testNow, config.Goals{})

	require.Len(t, result.OpenQuotes, 1)
	assert.Equal(t, "s1", result.OpenQuotes[0].SellerID)
	assert.Equal(t, "Maria Vitória", result.OpenQuotes[0].SellerName)
	assert.Equal(t, "budgets", result.OpenQuotes[0].Source)
}

func TestBuild_Goals(t *testing.T) {
	goals := config.Goals{
		TotalSalesGoal: 500000,
		SellerGoals: map[string]float64{
			"julia":  350000,
			"elaine": 100000,
		},
	}

	snap := Snapshot{
		Sellers: []*domain.Seller{
			{ID: "s1", Name: "Julia Souza"},
			{ID: "s2", Name: "Elaine Prado"},
		},
		ClosedSales: []*domain.Sale{
			{ID: "v1", Amount: "175000", SoldAt: timePtr(testNow), SoldBy: "s1"},
			{ID: "v2", Amount: "120000", SoldAt: timePtr(testNow), SoldBy: "s2"},
		},
	}

	result := Build(snap, testNow, goals)

	assert.Equal(t, 500000.0, result.Totals.SalesGoal)
	assert.InDelta(t, 59.0, result.Totals.GoalProgress, 1e-9)

	require.Len(t, result.Sellers, 2)
	julia := result.Sellers[0]
	elaine := result.Sellers[1]

	assert.Equal(t, "s1", julia.ID)
	assert.Equal(t, 350000.0, julia.Goal)
	assert.InDelta(t, 50.0, julia.GoalProgress, 1e-9)
	assert.Equal(t, 175000.0, julia.GoalRemaining)
	assert.False(t, julia.ReachedGoal)

	assert.Equal(t, 100000.0, elaine.Goal)
	assert.True(t, elaine.ReachedGoal)
	assert.Equal(t, 0.0, elaine.GoalRemaining)
}

func TestBuild_Idempotent(t *testing.T) {
	snap := Snapshot{
		Sellers: []*domain.Seller{
			{ID: "s1", Name: "Julia Souza", Email: "julia@empresa.com"},
			{ID: "s2", Name: "Maria Vitória", Email: "maria@empresa.com"},
		},
		ClosedSales: []*domain.Sale{
			{ID: "v1", Amount: "100", SoldAt: timePtr(testNow), SoldByName: "Julia"},
			{ID: "v2", Amount: "300", SoldAt: timePtr(testNow), SoldByName: "Maria Vitória"},
			{ID: "v3", Amount: "50", StageName: "Vendido", SoldByName: "julia", CreatedAt: testNow},
		},
		Budgets: []*domain.BudgetDocument{
			{ID: "b1", Amount: 80, SellerName: "Julia Souza", CreatedAt: testNow},
		},
		LeadsBySeller: map[string][]string{"s1": {"l1"}},
	}

	goals := config.Goals{TotalSalesGoal: 1000, SellerGoals: map[string]float64{"julia": 200}}

	first := Build(snap, testNow, goals)
	second := Build(snap, testNow, goals)

	assert.Equal(t, first, second)
}
