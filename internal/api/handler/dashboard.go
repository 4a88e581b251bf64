package handler

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetDashboard monta o payload completo do painel. O resultado é sempre
// recalculado, então a resposta sai com cabeçalhos que proíbem cache no
// navegador da TV.
func GetDashboard(cfg *config.Config, service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.Dashboard.RequestTimeout)
		defer cancel()

		dashboard, err := service.GetDashboard(ctx)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao montar o painel de vendas")

			var details any
			if log.IsDevelopment() {
				details = err.Error()
			}

			if ctx.Err() == context.DeadlineExceeded {
				apiErrors.WriteError(w, apiErrors.ErrRequestTimeout,
					"Erro ao buscar dados do dashboard",
					"tempo limite da consulta excedido", details)
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation,
				"Erro ao buscar dados do dashboard",
				"falha ao consultar o banco de dados", details)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if err := json.NewEncoder(w).Encode(dashboard); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta do painel")
		}
	}
}
