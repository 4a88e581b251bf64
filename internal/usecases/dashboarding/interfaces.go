package dashboarding

import (
	"context"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Dashboarder expõe a operação de agregação consumida pelo handler HTTP e
// pelo agendador de snapshot diário
type Dashboarder interface {
	GetDashboard(ctx context.Context) (*domain.DashboardResponse, error)
}
