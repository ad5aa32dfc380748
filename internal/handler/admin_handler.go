package handler

import (
	"net/http"

	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"
	"github.com/boddenberg/controle-financeiro-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Admin Handlers
// ============================================================

func seedHandler(svc *service.AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /admin/seed")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		summary, err := svc.Seed(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, summary)
	}
}

func bulkLoadHandler(svc *service.AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /admin/carga")
		defer span.End()
		var payload service.BulkLoad
		if !decodeBody(w, r, &payload) {
			return
		}
		summary, err := svc.Load(ctx, &payload)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, summary)
	}
}

func purgeHandler(svc *service.AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /admin/purge")
		defer span.End()
		if err := svc.Purge(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func adminStatusHandler(svc *service.AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /admin/status")
		defer span.End()
		status, err := svc.Status(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func opsSnapshotHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /metrics/resumo")
		defer span.End()
		snapshot := metrics.GetOpsSnapshot()
		writeJSON(w, http.StatusOK, snapshot)
	}
}
