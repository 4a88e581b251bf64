package dashboarding

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		Dashboard: config.Dashboard{
			SellerAllowList:            []string{"Julia", "Elaine"},
			LookbackDays:               365,
			RecentUpdateDays:           60,
			RequestTimeout:             10 * time.Second,
			StageClosedSourceEnabled:   true,
			RecentUpdatedSourceEnabled: true,
			BudgetSourceEnabled:        true,
		},
		Goals: config.Goals{TotalSalesGoal: 500000},
	}
}

func TestService_GetDashboard_DedupAcrossSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sellerRepo := mocks.NewMockSellerRepository(ctrl)
	saleRepo := mocks.NewMockSaleRepository(ctrl)
	budgetRepo := mocks.NewMockBudgetRepository(ctrl)
	leadRepo := mocks.NewMockLeadRepository(ctrl)

	now := time.Now()
	soldAt := now.Add(-time.Hour)

	sellerRepo.EXPECT().
		ListAllowed(gomock.Any(), []string{"Julia", "Elaine"}).
		Return([]*domain.Seller{{ID: "s1", Name: "Julia Souza"}}, nil)

	// "x1" aparece na consulta por sold_at e na consulta por estágio:
	// deve contar uma única vez, com o registro da primeira fonte
	saleRepo.EXPECT().
		ListClosedBySoldAt(gomock.Any(), gomock.Any()).
		Return([]*domain.Sale{
			{ID: "x1", Amount: "1000", SoldAt: &soldAt, SoldBy: "s1"},
		}, nil)

	saleRepo.EXPECT().
		ListClosedByStage(gomock.Any(), gomock.Any()).
		Return([]*domain.Sale{
			{ID: "x1", Amount: "9999", StageName: "Dinheiro no bolso", SoldBy: "s1", CreatedAt: now},
			{ID: "x2", Amount: "500", StageName: "Vendido", SoldBy: "s1", CreatedAt: now.AddDate(0, 0, -2)},
		}, nil)

	// A terceira fonte repete x2 e traz um registro que não é venda fechada
	saleRepo.EXPECT().
		ListRecentlyUpdatedClosed(gomock.Any(), gomock.Any()).
		Return([]*domain.Sale{
			{ID: "x2", Amount: "500", StageName: "Vendido", SoldBy: "s1", CreatedAt: now.AddDate(0, 0, -2)},
			{ID: "x3", Amount: "777", StageName: "Em negociação", SoldBy: "s1", CreatedAt: now},
		}, nil)

	budgetRepo.EXPECT().ListOpen(gomock.Any()).Return(nil, nil)
	saleRepo.EXPECT().ListOpen(gomock.Any()).Return(nil, nil)
	leadRepo.EXPECT().ListIDsBySeller(gomock.Any(), "s1").Return([]string{"l1"}, nil)

	service := NewService(testConfig(), sellerRepo, saleRepo, budgetRepo, leadRepo)

	result, err := service.GetDashboard(context.Background())
	require.NoError(t, err)

	// x1 uma vez com o valor da fonte sold_at, x2 uma vez, x3 descartada
	assert.Equal(t, 2, result.Totals.TotalSalesCount)
	assert.Equal(t, 1500.0, result.Totals.TotalSalesValue)
}

func TestService_GetDashboard_DegradedSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sellerRepo := mocks.NewMockSellerRepository(ctrl)
	saleRepo := mocks.NewMockSaleRepository(ctrl)
	budgetRepo := mocks.NewMockBudgetRepository(ctrl)
	leadRepo := mocks.NewMockLeadRepository(ctrl)

	now := time.Now()
	soldAt := now.Add(-time.Hour)

	sellerRepo.EXPECT().
		ListAllowed(gomock.Any(), gomock.Any()).
		Return([]*domain.Seller{{ID: "s1", Name: "Julia Souza"}}, nil)

	saleRepo.EXPECT().
		ListClosedBySoldAt(gomock.Any(), gomock.Any()).
		Return([]*domain.Sale{{ID: "v1", Amount: "100", SoldAt: &soldAt, SoldBy: "s1"}}, nil)

	// Fontes secundárias falham: o pipeline degrada para vazio e segue
	saleRepo.EXPECT().
		ListClosedByStage(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("tabela indisponível"))
	saleRepo.EXPECT().
		ListRecentlyUpdatedClosed(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("tabela indisponível"))
	budgetRepo.EXPECT().
		ListOpen(gomock.Any()).
		Return(nil, errors.New("tabela não existe"))

	// Falha em budgets aciona o fallback da tabela sales
	saleRepo.EXPECT().
		ListOpen(gomock.Any()).
		Return([]*domain.Sale{
			{ID: "q1", Amount: "300", StageName: "Em negociação", SoldBy: "s1", CreatedAt: now},
		}, nil)

	leadRepo.EXPECT().
		ListIDsBySeller(gomock.Any(), "s1").
		Return(nil, errors.New("sem acesso"))

	service := NewService(testConfig(), sellerRepo, saleRepo, budgetRepo, leadRepo)

	result, err := service.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Totals.TotalSalesValue)
	assert.Equal(t, 1, result.Totals.TotalOpenQuotes)
	assert.Equal(t, 300.0, result.Totals.TotalOpenQuotesValue)
}

func TestService_GetDashboard_FatalOnPrimaryQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("falha na consulta de vendedores", func(t *testing.T) {
		sellerRepo := mocks.NewMockSellerRepository(ctrl)
		saleRepo := mocks.NewMockSaleRepository(ctrl)
		budgetRepo := mocks.NewMockBudgetRepository(ctrl)
		leadRepo := mocks.NewMockLeadRepository(ctrl)

		sellerRepo.EXPECT().
			ListAllowed(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("conexão recusada"))

		service := NewService(testConfig(), sellerRepo, saleRepo, budgetRepo, leadRepo)

		_, err := service.GetDashboard(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "erro ao buscar vendedores")
	})

	t.Run("falha na consulta primária de vendas", func(t *testing.T) {
		sellerRepo := mocks.NewMockSellerRepository(ctrl)
		saleRepo := mocks.NewMockSaleRepository(ctrl)
		budgetRepo := mocks.NewMockBudgetRepository(ctrl)
		leadRepo := mocks.NewMockLeadRepository(ctrl)

		sellerRepo.EXPECT().
			ListAllowed(gomock.Any(), gomock.Any()).
			Return([]*domain.Seller{{ID: "s1", Name: "Julia"}}, nil)
		saleRepo.EXPECT().
			ListClosedBySoldAt(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout"))

		service := NewService(testConfig(), sellerRepo, saleRepo, budgetRepo, leadRepo)

		_, err := service.GetDashboard(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "erro ao buscar vendas fechadas")
	})
}

func TestMergeClosedSales_Priority(t *testing.T) {
	soldAt := time.Now()

	bySoldAt := []*domain.Sale{{ID: "a", Amount: "1", SoldAt: &soldAt}}
	byStage := []*domain.Sale{
		{ID: "a", Amount: "2", StageName: "Vendido"},
		{ID: "b", Amount: "3", StageName: "Vendido"},
	}
	recent := []*domain.Sale{
		{ID: "b", Amount: "4", StageName: "Vendido"},
		{ID: "c", Amount: "5", StageName: "Vendido"},
		{ID: "d", Amount: "6", StageName: "Em negociação"},
	}

	merged := mergeClosedSales(bySoldAt, byStage, recent)

	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "1", merged[0].Amount, "registro da fonte sold_at tem prioridade")
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, "3", merged[1].Amount, "registro da fonte por estágio vence a de atualização recente")
	assert.Equal(t, "c", merged[2].ID)
}
