package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"
	"github.com/boddenberg/controle-financeiro-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services groups everything the router depends on.
type Services struct {
	Ledger     *service.LedgerService
	Calculator *service.CalculatorService
	Report     *service.ReportService
	Admin      *service.AdminService
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svcs.Ledger, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 🏦 Bancos
		// =============================================
		r.Route("/bancos", func(r chi.Router) {
			r.Get("/", listBanksHandler(svcs.Ledger, logger))
			r.Post("/", createBankHandler(svcs.Ledger, logger))
			r.Post("/carga", batchCreateBanksHandler(svcs.Ledger, logger))
			r.Get("/{id}", getBankHandler(svcs.Ledger, logger))
			r.Put("/{id}", updateBankHandler(svcs.Ledger, logger))
			r.Delete("/{id}", deleteBankHandler(svcs.Ledger, logger))
		})

		// =============================================
		// 2. 💼 Contas
		// =============================================
		r.Route("/contas", func(r chi.Router) {
			r.Get("/", listAccountsHandler(svcs.Ledger, logger))
			r.Post("/", createAccountHandler(svcs.Ledger, logger))
			r.Get("/{id}", getAccountHandler(svcs.Ledger, logger))
			r.Put("/{id}", updateAccountHandler(svcs.Ledger, logger))
			r.Delete("/{id}", deleteAccountHandler(svcs.Ledger, logger))
		})

		// =============================================
		// 3. 🏷 Categorias
		// =============================================
		r.Route("/categorias", func(r chi.Router) {
			r.Get("/", listCategoriesHandler(svcs.Ledger, logger))
			r.Post("/", createCategoryHandler(svcs.Ledger, logger))
			r.Get("/{id}", getCategoryHandler(svcs.Ledger, logger))
			r.Put("/{id}", updateCategoryHandler(svcs.Ledger, logger))
			r.Delete("/{id}", deleteCategoryHandler(svcs.Ledger, logger))
		})

		// =============================================
		// 4. 📌 Custos Fixos
		// =============================================
		r.Route("/custos-fixos", func(r chi.Router) {
			r.Get("/", listFixedCostsHandler(svcs.Ledger, logger))
			r.Post("/", createFixedCostHandler(svcs.Ledger, logger))
			r.Get("/total", fixedCostsTotalHandler(svcs.Ledger, logger))
			r.Get("/{id}", getFixedCostHandler(svcs.Ledger, logger))
			r.Put("/{id}", updateFixedCostHandler(svcs.Ledger, logger))
			r.Delete("/{id}", deleteFixedCostHandler(svcs.Ledger, logger))
		})

		// =============================================
		// 5. 📒 Lançamentos
		// =============================================
		r.Route("/lancamentos", func(r chi.Router) {
			r.Get("/", listEntriesHandler(svcs.Ledger, logger))
			r.Post("/", createEntryHandler(svcs.Ledger, logger))
			r.Get("/saldo", entriesBalanceHandler(svcs.Ledger, logger))
			r.Get("/{id}", getEntryHandler(svcs.Ledger, logger))
			r.Put("/{id}", updateEntryHandler(svcs.Ledger, logger))
			r.Delete("/{id}", deleteEntryHandler(svcs.Ledger, logger))
		})

		// =============================================
		// 6. 💵 Receitas
		// =============================================
		r.Route("/receitas", func(r chi.Router) {
			r.Get("/", listIncomesHandler(svcs.Ledger, logger))
			r.Post("/", createIncomeHandler(svcs.Ledger, logger))
			r.Get("/{id}", getIncomeHandler(svcs.Ledger, logger))
			r.Put("/{id}", updateIncomeHandler(svcs.Ledger, logger))
			r.Delete("/{id}", deleteIncomeHandler(svcs.Ledger, logger))
		})

		// =============================================
		// 7. 🧮 Calculadora
		// =============================================
		r.Route("/calculadora", func(r chi.Router) {
			r.Get("/completo", aggregateHandler(svcs.Calculator, logger))
			r.Get("/saldo-atual", currentBalanceHandler(svcs.Calculator, logger))
			r.Get("/total-vencido", overdueTotalHandler(svcs.Calculator, logger))
			r.Get("/resumo-rapido", quickSummaryHandler(svcs.Calculator, logger))
			r.Get("/vencidos-detalhados", overdueDetailsHandler(svcs.Calculator, logger))
			r.Get("/resumo-categorias", categorySummaryHandler(svcs.Calculator, logger))
			r.Get("/dashboard", dashboardHandler(svcs.Report, logger))
		})

		// =============================================
		// 8. 📊 Relatórios
		// =============================================
		r.Route("/relatorios", func(r chi.Router) {
			r.Get("/", fullReportHandler(svcs.Report, logger))
			r.Get("/resumo", reportSummaryHandler(svcs.Report, logger))
			r.Get("/vencidos", overdueReportHandler(svcs.Report, logger))
			r.Get("/alertas", alertsHandler(svcs.Report, logger))
			r.Get("/dashboard", dashboardHandler(svcs.Report, logger))
			r.Post("/atualizar-status", statusSweepHandler(svcs.Report, logger))
		})

		// =============================================
		// 9. 📈 Métricas
		// =============================================
		r.Get("/metrics/resumo", opsSnapshotHandler(metrics, logger))

		// =============================================
		// 10. 🛠 Admin
		// =============================================
		r.Route("/admin", func(r chi.Router) {
			r.Post("/seed", seedHandler(svcs.Admin, logger))
			r.Post("/carga", bulkLoadHandler(svcs.Admin, logger))
			r.Delete("/purge", purgeHandler(svcs.Admin, logger))
			r.Get("/status", adminStatusHandler(svcs.Admin, logger))
		})
	})

	return r
}

// healthzHandler probes the store with a cheap list call.
func healthzHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		status := "healthy"
		start := time.Now()
		_, err := svc.ListBanks(ctx)
		latency := time.Since(start).Milliseconds()
		if err != nil {
			logger.Warn("health probe failed", zap.Error(err))
			status = "degraded"
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"services": []map[string]any{
				{"name": "financeiro-api", "status": "healthy", "latency_ms": 0, "last_checked": now},
				{"name": "supabase", "status": status, "latency_ms": latency, "last_checked": now},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
