package handler

import (
	"net/http"

	"github.com/boddenberg/controle-financeiro-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Calculator Handlers
// ============================================================

func aggregateHandler(svc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /calculadora/completo")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		snap, err := svc.Aggregate(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func currentBalanceHandler(svc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /calculadora/saldo-atual")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		balance, err := svc.CurrentBalance(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"current_balance": balance,
		})
	}
}

func overdueTotalHandler(svc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /calculadora/total-vencido")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		amount, count, err := svc.OverdueTotal(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total_amount": amount,
			"count":        count,
		})
	}
}

func quickSummaryHandler(svc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /calculadora/resumo-rapido")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		summary, err := svc.QuickSummary(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func overdueDetailsHandler(svc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /calculadora/vencidos-detalhados")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		snap, err := svc.Aggregate(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"overdue_entries":     snap.OverdueEntries,
			"overdue_fixed_costs": snap.OverdueFixedCosts,
			"upcoming_entries":    snap.UpcomingEntries,
			"overdue_count":       snap.OverdueCount,
			"overdue_amount":      snap.OverdueAmount,
		})
	}
}

func categorySummaryHandler(svc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /calculadora/resumo-categorias")
		defer span.End()
		ref, ok := referenceDate(w, r)
		if !ok {
			return
		}
		snap, err := svc.Aggregate(ctx, ref)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"categories":   snap.Categories,
			"top_category": snap.TopCategory,
		})
	}
}
