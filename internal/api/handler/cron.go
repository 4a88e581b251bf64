package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

// CronJobTypeSnapshot identifica a cron de snapshot diário do painel
const CronJobTypeSnapshot = "snapshot"

// CronJobServices contém os agendadores expostos para execução manual
type CronJobServices struct {
	DailySnapshotService *scheduler.DailySnapshotService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch cronType {
		case CronJobTypeSnapshot:
			if services.DailySnapshotService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer,
					"Serviço de snapshot diário não disponível", "", nil)
				return
			}
			services.DailySnapshotService.TriggerManualSnapshot()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
				"Tipo de cron job inválido", "valores aceitos: snapshot", nil)
			return
		}

		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta da cron")
		}
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"snapshot": services.DailySnapshotService.GetStatus(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logrus.WithError(err).Error("Erro ao enviar status das crons")
		}
	}
}
