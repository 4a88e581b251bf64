// Package scheduler contém os serviços de agendamento do painel
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
)

type DailySnapshotConfig struct {
	CronSchedule string
	Enabled      bool
}

// DailySnapshotService gera um snapshot diário do painel no fim do dia e
// registra os totais por vendedor no log. Serve como trilha histórica
// enquanto o painel em si é sempre calculado ao vivo.
type DailySnapshotService struct {
	scheduler           *gocron.Scheduler
	dashboarder         dashboarding.Dashboarder
	config              DailySnapshotConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewDailySnapshotService(
	dashboarder dashboarding.Dashboarder,
	cfg *config.Config,
) *DailySnapshotService {
	snapshotConfig := DailySnapshotConfig{
		CronSchedule: cfg.DailySnapshot.CronSchedule, // Default: 23h55 todos os dias
		Enabled:      cfg.DailySnapshot.Enabled,      // Default: desabilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": snapshotConfig.CronSchedule,
	}).Info("Configuração do agendador de snapshot diário carregada")

	return &DailySnapshotService{
		scheduler:   scheduler,
		dashboarder: dashboarder,
		config:      snapshotConfig,
	}
}

func (s *DailySnapshotService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de snapshot diário do painel desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de snapshot diário do painel")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.CaptureSnapshot(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na captura do snapshot diário do painel")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar snapshot diário do painel: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de snapshot diário do painel")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *DailySnapshotService) CaptureSnapshot(ctx context.Context) error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.Warn("Captura de snapshot diário já está em execução")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	defer func() {
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
	}()

	logrus.Info("Iniciando captura do snapshot diário do painel")

	dashboard, err := s.dashboarder.GetDashboard(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao montar o painel para o snapshot diário")
		return err
	}

	for _, seller := range dashboard.Sellers {
		logrus.WithFields(logrus.Fields{
			"seller_id":    seller.ID,
			"seller_name":  seller.Name,
			"sales_total":  seller.SalesTotal,
			"sales_count":  seller.SalesCount,
			"quotes_total": seller.OpenQuotesValue,
		}).Info("Snapshot diário: totais do vendedor")
	}

	logrus.WithFields(logrus.Fields{
		"total_sales_value": dashboard.Totals.TotalSalesValue,
		"total_sales_count": dashboard.Totals.TotalSalesCount,
		"total_open_quotes": dashboard.Totals.TotalOpenQuotes,
	}).Info("Captura do snapshot diário do painel concluída")

	return nil
}

// TriggerManualSnapshot inicia manualmente uma captura de snapshot
func (s *DailySnapshotService) TriggerManualSnapshot() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Captura de snapshot já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando captura manual de snapshot do painel")
	go s.CaptureSnapshot(context.Background()) //nolint:errcheck
}

// GetStatus retorna o status atual do agendador
func (s *DailySnapshotService) GetStatus() map[string]any {
	return map[string]any{
		"snapshot_enabled":       s.config.Enabled,
		"snapshot_cron":          s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
