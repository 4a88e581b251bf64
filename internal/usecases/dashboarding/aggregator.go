package dashboarding

import (
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Quantos registros não atribuídos aparecem no log de diagnóstico
const unattributedLogSample = 10

// Snapshot é o conjunto de dados brutos lidos do banco em uma requisição.
// Build é uma função pura de (Snapshot, now, metas) para o payload final.
type Snapshot struct {
	Sellers        []*domain.Seller
	ClosedSales    []*domain.Sale
	Budgets        []*domain.BudgetDocument
	OpenQuoteSales []*domain.Sale
	LeadsBySeller  map[string][]string
}

// Build executa o pipeline de agregação: monta o índice de vendedores,
// resolve a atribuição de cada registro e acumula os totais por vendedor e
// globais. "Hoje" é o dia corrente no fuso de now, de meia-noite a meia-noite.
func Build(snap Snapshot, now time.Time, goals config.Goals) *domain.DashboardResponse {
	idx := NewSellerIndex(snap.Sellers, snap.LeadsBySeller)
	resolver := NewSellerResolver(idx)

	metricsBySeller := make(map[string]*domain.SellerMetrics, len(snap.Sellers))
	todayBySeller := make(map[string]*domain.TodaySales, len(snap.Sellers))
	for _, seller := range snap.Sellers {
		metricsBySeller[seller.ID] = &domain.SellerMetrics{
			ID:   seller.ID,
			Name: seller.DisplayName(),
		}
		todayBySeller[seller.ID] = &domain.TodaySales{
			SellerID:   seller.ID,
			SellerName: seller.DisplayName(),
		}
	}

	totals := domain.DashboardTotals{}
	openQuotes := make([]*domain.OpenQuote, 0)

	// Orçamentos da tabela budget_documents
	for _, budget := range snap.Budgets {
		sellerID, _, ok := resolver.Resolve(RecordRef{
			SellerRef:   budget.SellerRef,
			DisplayName: budget.SellerName,
			LeadID:      budget.LeadID,
		})
		if !ok {
			continue
		}

		metrics := metricsBySeller[sellerID]
		metrics.OpenQuotesCount++
		metrics.OpenQuotesValue += budget.Amount
		totals.TotalOpenQuotes++
		totals.TotalOpenQuotesValue += budget.Amount

		openQuotes = append(openQuotes, &domain.OpenQuote{
			ID:         budget.ID,
			SellerID:   sellerID,
			SellerName: metrics.Name,
			Value:      budget.Amount,
			CreatedAt:  budget.CreatedAt,
			Source:     "budgets",
		})
	}

	// Orçamentos vindos da tabela sales (fallback quando budget_documents
	// está vazia)
	for _, sale := range snap.OpenQuoteSales {
		if IsClosedSale(sale) {
			continue
		}

		sellerID, _, ok := resolver.Resolve(RecordRef{
			SellerRef:   sale.SoldBy,
			DisplayName: sale.SoldByName,
			LeadID:      sale.LeadID,
		})
		if !ok {
			continue
		}

		amount := utils.ParseAmount(sale.Amount)
		metrics := metricsBySeller[sellerID]
		metrics.OpenQuotesCount++
		metrics.OpenQuotesValue += amount
		totals.TotalOpenQuotes++
		totals.TotalOpenQuotesValue += amount

		openQuotes = append(openQuotes, &domain.OpenQuote{
			ID:         sale.ID,
			SellerID:   sellerID,
			SellerName: metrics.Name,
			Value:      amount,
			CreatedAt:  sale.CreatedAt,
			StageName:  sale.StageName,
			Source:     "sales",
		})
	}

	// Vendas fechadas
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	var unattributed []*domain.Sale
	for _, sale := range snap.ClosedSales {
		if !IsClosedSale(sale) {
			continue
		}

		sellerID, _, ok := resolver.Resolve(RecordRef{
			SellerRef:   sale.SoldBy,
			DisplayName: sale.SoldByName,
			LeadID:      sale.LeadID,
		})
		if !ok {
			unattributed = append(unattributed, sale)
			continue
		}

		amount := utils.ParseAmount(sale.Amount)
		metrics := metricsBySeller[sellerID]
		metrics.SalesCount++
		metrics.SalesTotal += amount
		totals.TotalSalesCount++
		totals.TotalSalesValue += amount

		effectiveDate := sale.EffectiveDate()
		if !effectiveDate.Before(todayStart) && effectiveDate.Before(tomorrowStart) {
			today := todayBySeller[sellerID]
			today.SalesCount++
			today.SalesTotal += amount
		}
	}

	logUnattributed(unattributed)

	// Metas fixas do painel
	totals.SalesGoal = goals.TotalSalesGoal
	if totals.SalesGoal > 0 {
		totals.GoalProgress = totals.TotalSalesValue / totals.SalesGoal * 100
	}

	sellers := make([]*domain.SellerMetrics, 0, len(snap.Sellers))
	for _, seller := range snap.Sellers {
		metrics := metricsBySeller[seller.ID]
		applyGoal(metrics, goals)
		sellers = append(sellers, metrics)
	}
	sort.SliceStable(sellers, func(i, j int) bool {
		return sellers[i].SalesTotal > sellers[j].SalesTotal
	})

	todaySales := make([]*domain.TodaySales, 0)
	for _, seller := range snap.Sellers {
		if today := todayBySeller[seller.ID]; today.SalesCount > 0 {
			todaySales = append(todaySales, today)
		}
	}
	sort.SliceStable(todaySales, func(i, j int) bool {
		return todaySales[i].SalesTotal > todaySales[j].SalesTotal
	})

	sort.SliceStable(openQuotes, func(i, j int) bool {
		return openQuotes[i].CreatedAt.After(openQuotes[j].CreatedAt)
	})

	return &domain.DashboardResponse{
		Totals:     totals,
		Sellers:    sellers,
		OpenQuotes: openQuotes,
		TodaySales: todaySales,
	}
}

// applyGoal preenche a meta individual do vendedor, casando fragmentos de
// nome configurados (ex.: "maria" -> 150000) em ordem determinística
func applyGoal(metrics *domain.SellerMetrics, goals config.Goals) {
	fragments := make([]string, 0, len(goals.SellerGoals))
	for fragment := range goals.SellerGoals {
		fragments = append(fragments, fragment)
	}
	sort.Strings(fragments)

	name := utils.NormalizeName(metrics.Name)
	for _, fragment := range fragments {
		if strings.Contains(name, fragment) {
			metrics.Goal = goals.SellerGoals[fragment]
			break
		}
	}

	if metrics.Goal > 0 {
		metrics.GoalProgress = metrics.SalesTotal / metrics.Goal * 100
		metrics.GoalRemaining = metrics.Goal - metrics.SalesTotal
		if metrics.GoalRemaining < 0 {
			metrics.GoalRemaining = 0
		}
		metrics.ReachedGoal = metrics.SalesTotal >= metrics.Goal
	}
}

// logUnattributed registra uma amostra das vendas que não casaram com nenhum
// vendedor, para diagnóstico. Não é condição de erro.
func logUnattributed(sales []*domain.Sale) {
	if len(sales) == 0 {
		return
	}

	logrus.WithField("count", len(sales)).Warn("Vendas fechadas sem vendedor atribuído")

	for i, sale := range sales {
		if i == unattributedLogSample {
			break
		}
		logrus.WithFields(logrus.Fields{
			"sale_id":      sale.ID,
			"amount":       sale.Amount,
			"sold_by":      sale.SoldBy,
			"sold_by_name": sale.SoldByName,
			"stage_name":   sale.StageName,
		}).Debug("Venda não atribuída")
	}
}
