package scheduler

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding/mocks"
	"go.uber.org/mock/gomock"
)

func snapshotTestConfig(enabled bool) *config.Config {
	return &config.Config{
		DailySnapshot: config.DailySnapshot{
			CronSchedule: "55 23 * * *",
			Enabled:      enabled,
		},
	}
}

func TestDailySnapshot_CaptureSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dashboarder := mocks.NewMockDashboarder(ctrl)
	dashboarder.EXPECT().
		GetDashboard(gomock.Any()).
		Return(&domain.DashboardResponse{
			Totals: domain.DashboardTotals{TotalSalesValue: 1500, TotalSalesCount: 2},
			Sellers: []*domain.SellerMetrics{
				{ID: "s1", Name: "Julia Souza", SalesTotal: 1500, SalesCount: 2},
			},
		}, nil)

	service := NewDailySnapshotService(dashboarder, snapshotTestConfig(true))

	err := service.CaptureSnapshot(context.Background())
	require.NoError(t, err)

	assert.False(t, service.lastSyncCompletedAt.IsZero())
	assert.False(t, service.syncRunning)
}

func TestDailySnapshot_CaptureSnapshotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dashboarder := mocks.NewMockDashboarder(ctrl)
	dashboarder.EXPECT().
		GetDashboard(gomock.Any()).
		Return(nil, errors.New("banco indisponível"))

	service := NewDailySnapshotService(dashboarder, snapshotTestConfig(true))

	err := service.CaptureSnapshot(context.Background())
	require.Error(t, err)
}

func TestDailySnapshot_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Desabilitado: Start não agenda nada e o dashboarder nunca é chamado
	dashboarder := mocks.NewMockDashboarder(ctrl)

	service := NewDailySnapshotService(dashboarder, snapshotTestConfig(false))

	err := service.Start(context.Background())
	require.NoError(t, err)
}
