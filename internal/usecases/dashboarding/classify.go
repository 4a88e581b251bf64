package dashboarding

import (
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Termos que marcam um estágio como venda concluída. A comparação ignora
// caixa e acentuação, então "Vendido hoje" e "VENDIDO" contam igualmente.
var closedStageTerms = []string{"vendido", "fechado", "dinheiro"}

// IsClosedSale decide se o registro representa uma venda concluída: sold_at
// preenchido, ou estágio contendo um dos termos de fechamento. Tudo que não
// é venda concluída é candidato a orçamento em aberto.
func IsClosedSale(sale *domain.Sale) bool {
	if sale.SoldAt != nil {
		return true
	}
	return stageIndicatesClosed(sale.StageName)
}

func stageIndicatesClosed(stageName string) bool {
	folded := utils.FoldName(stageName)
	for _, term := range closedStageTerms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}
