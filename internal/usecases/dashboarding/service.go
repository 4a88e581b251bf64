package dashboarding

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Service monta o snapshot a partir dos repositórios e delega a agregação ao
// pipeline puro. Cada requisição é independente: nada é cacheado entre
// chamadas.
type Service struct {
	cfg        *config.Config
	sellerRepo repository.SellerRepository
	saleRepo   repository.SaleRepository
	budgetRepo repository.BudgetRepository
	leadRepo   repository.LeadRepository
}

func NewService(
	cfg *config.Config,
	sellerRepo repository.SellerRepository,
	saleRepo repository.SaleRepository,
	budgetRepo repository.BudgetRepository,
	leadRepo repository.LeadRepository,
) Dashboarder {
	return &Service{
		cfg:        cfg,
		sellerRepo: sellerRepo,
		saleRepo:   saleRepo,
		budgetRepo: budgetRepo,
		leadRepo:   leadRepo,
	}
}

func (s *Service) GetDashboard(ctx context.Context) (*domain.DashboardResponse, error) {
	now := time.Now()

	snap, err := s.fetchSnapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	return Build(*snap, now, s.cfg.Goals), nil
}

// fetchSnapshot executa as consultas do painel. As consultas primárias
// (vendedores e vendas por sold_at) são fatais; as secundárias degradam para
// resultado vazio com log de aviso.
func (s *Service) fetchSnapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	lookbackStart := now.AddDate(0, 0, -s.cfg.Dashboard.LookbackDays)
	recentStart := now.AddDate(0, 0, -s.cfg.Dashboard.RecentUpdateDays)

	sellers, err := s.sellerRepo.ListAllowed(ctx, s.cfg.Dashboard.SellerAllowList)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar vendedores")
	}

	closedBySoldAt, err := s.saleRepo.ListClosedBySoldAt(ctx, lookbackStart)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar vendas fechadas")
	}

	var closedByStage []*domain.Sale
	if s.cfg.Dashboard.StageClosedSourceEnabled {
		closedByStage, err = s.saleRepo.ListClosedByStage(ctx, lookbackStart)
		if err != nil {
			logrus.WithError(err).Warn("Erro ao buscar vendas por stage_name, seguindo sem essa fonte")
			closedByStage = nil
		}
	}

	var recentlyUpdated []*domain.Sale
	if s.cfg.Dashboard.RecentUpdatedSourceEnabled {
		recentlyUpdated, err = s.saleRepo.ListRecentlyUpdatedClosed(ctx, recentStart)
		if err != nil {
			logrus.WithError(err).Warn("Erro ao buscar vendas atualizadas recentemente, seguindo sem essa fonte")
			recentlyUpdated = nil
		}
	}

	closedSales := mergeClosedSales(closedBySoldAt, closedByStage, recentlyUpdated)

	logrus.WithFields(logrus.Fields{
		"total":            len(closedSales),
		"by_sold_at":       len(closedBySoldAt),
		"by_stage":         len(closedByStage),
		"recently_updated": len(recentlyUpdated),
	}).Debug("Vendas fechadas combinadas")

	var budgets []*domain.BudgetDocument
	if s.cfg.Dashboard.BudgetSourceEnabled {
		budgets, err = s.budgetRepo.ListOpen(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Erro ao buscar budget_documents, usando fallback da tabela sales")
			budgets = nil
		}
	}

	var openQuoteSales []*domain.Sale
	if len(budgets) == 0 {
		openQuoteSales, err = s.saleRepo.ListOpen(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Erro ao buscar orçamentos em aberto da tabela sales")
			openQuoteSales = nil
		}
	}

	// Uma consulta por vendedor; são poucas e independentes
	leadsBySeller := make(map[string][]string, len(sellers))
	for _, seller := range sellers {
		leadIDs, err := s.leadRepo.ListIDsBySeller(ctx, seller.ID)
		if err != nil {
			logrus.WithError(err).WithField("seller_id", seller.ID).
				Warn("Erro ao buscar leads do vendedor")
			continue
		}
		if len(leadIDs) > 0 {
			leadsBySeller[seller.ID] = leadIDs
		}
	}

	return &Snapshot{
		Sellers:        sellers,
		ClosedSales:    closedSales,
		Budgets:        budgets,
		OpenQuoteSales: openQuoteSales,
		LeadsBySeller:  leadsBySeller,
	}, nil
}

// mergeClosedSales deduplica por id as vendas vindas das três consultas
// sobrepostas. O primeiro a escrever vence, na prioridade sold_at > estágio >
// atualização recente; registros da terceira fonte só entram se de fato
// classificarem como venda fechada.
func mergeClosedSales(bySoldAt, byStage, recentlyUpdated []*domain.Sale) []*domain.Sale {
	seen := make(map[string]struct{})
	merged := make([]*domain.Sale, 0, len(bySoldAt)+len(byStage)+len(recentlyUpdated))

	appendNew := func(sales []*domain.Sale, mustBeClosed bool) {
		for _, sale := range sales {
			if _, ok := seen[sale.ID]; ok {
				continue
			}
			if mustBeClosed && !IsClosedSale(sale) {
				continue
			}
			seen[sale.ID] = struct{}{}
			merged = append(merged, sale)
		}
	}

	appendNew(bySoldAt, false)
	appendNew(byStage, false)
	appendNew(recentlyUpdated, true)

	return merged
}
