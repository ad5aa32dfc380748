package handler

import (
	"net/http"
	"strconv"

	"github.com/boddenberg/controle-financeiro-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Reports Handlers
// ============================================================

func fullReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /relatorios")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		start, ok := parseDateParam(w, r, "inicio")
		if !ok {
			return
		}
		end, ok := parseDateParam(w, r, "fim")
		if !ok {
			return
		}
		report, err := svc.GenerateReport(ctx, start, end, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func reportSummaryHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /relatorios/resumo")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		start, ok := parseDateParam(w, r, "inicio")
		if !ok {
			return
		}
		end, ok := parseDateParam(w, r, "fim")
		if !ok {
			return
		}
		summary, err := svc.Summary(ctx, start, end, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func overdueReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /relatorios/vencidos")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		view, err := svc.Overdue(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func alertsHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /relatorios/alertas")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		alerts, err := svc.Alerts(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count":  len(alerts),
			"alerts": alerts,
		})
	}
}

func dashboardHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /relatorios/dashboard")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		month, ok := parseIntParam(w, r, "mes", 1, 12)
		if !ok {
			return
		}
		year, ok := parseIntParam(w, r, "ano", 1970, 9999)
		if !ok {
			return
		}
		dashboard, err := svc.Dashboard(ctx, month, year, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dashboard)
	}
}

func statusSweepHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /relatorios/atualizar-status")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		result, err := svc.CancellationSweep(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// parseIntParam reads an optional bounded integer query parameter,
// returning zero when absent.
func parseIntParam(w http.ResponseWriter, r *http.Request, name string, min, max int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		writeError(w, http.StatusBadRequest, "parâmetro "+name+" inválido")
		return 0, false
	}
	return n, true
}
