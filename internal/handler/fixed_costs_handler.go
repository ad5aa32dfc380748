package handler

import (
	"net/http"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Fixed Costs Handlers
// ============================================================

func listFixedCostsHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /custos-fixos")
		defer span.End()
		costs, err := svc.ListFixedCosts(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, costs)
	}
}

func getFixedCostHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /custos-fixos/{id}")
		defer span.End()
		cost, err := svc.GetFixedCost(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cost)
	}
}

func createFixedCostHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /custos-fixos")
		defer span.End()
		var cost domain.FixedCost
		if !decodeBody(w, r, &cost) {
			return
		}
		stored, err := svc.CreateFixedCost(ctx, &cost)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}
}

func updateFixedCostHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /custos-fixos/{id}")
		defer span.End()
		var cost domain.FixedCost
		if !decodeBody(w, r, &cost) {
			return
		}
		updated, err := svc.UpdateFixedCost(ctx, chi.URLParam(r, "id"), &cost)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteFixedCostHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /custos-fixos/{id}")
		defer span.End()
		if err := svc.DeleteFixedCost(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func fixedCostsTotalHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /custos-fixos/total")
		defer span.End()
		total, count, err := svc.FixedCostsTotal(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total": total,
			"count": count,
		})
	}
}
