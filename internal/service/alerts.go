package service

import (
	"fmt"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"

	"github.com/shopspring/decimal"
)

// Alert rule thresholds.
const (
	severelyLateDays      = 30
	concentrationPercent  = 50.0
	pendingDominanceRatio = 2
)

// EvaluateAlerts runs every rule over the snapshot and the raw fixed
// cost records. Rules are independent and stateless; a rule without
// qualifying data emits nothing. Order is display order only.
func EvaluateAlerts(snap *domain.AggregateSnapshot, costs []domain.FixedCost, refDate time.Time) []domain.Alert {
	alerts := []domain.Alert{}
	today := dateOnly(refDate)

	// Rule 1: severely overdue outflows.
	var lateDetails []string
	lateTotal := decimal.Zero
	for _, oe := range snap.OverdueEntries {
		if oe.DaysLate <= severelyLateDays {
			continue
		}
		lateDetails = append(lateDetails, fmt.Sprintf("%s — R$ %s (%d dias de atraso)",
			oe.Entry.Description, oe.Entry.Amount.StringFixed(2), oe.DaysLate))
		lateTotal = lateTotal.Add(oe.Entry.Amount)
	}
	if len(lateDetails) > 0 {
		alerts = append(alerts, domain.Alert{
			Kind:        domain.AlertCritical,
			Title:       "Despesas Atrasadas",
			Message:     fmt.Sprintf("%d despesa(s) com mais de %d dias de atraso", len(lateDetails), severelyLateDays),
			Details:     lateDetails,
			TotalAmount: lateTotal,
		})
	}

	// Rule 2: negative projected balance.
	if snap.Balance.ProjectedBalance.IsNegative() {
		alerts = append(alerts, domain.Alert{
			Kind:        domain.AlertWarning,
			Title:       "Saldo Projetado Negativo",
			Message:     fmt.Sprintf("O saldo projetado é de R$ %s", snap.Balance.ProjectedBalance.StringFixed(2)),
			TotalAmount: snap.Balance.ProjectedBalance,
		})
	}

	// Rule 3: pending outflow dominance.
	dominanceBound := snap.Balance.PendingInflow.Mul(decimal.NewFromInt(pendingDominanceRatio))
	if snap.Balance.PendingOutflow.GreaterThan(dominanceBound) {
		alerts = append(alerts, domain.Alert{
			Kind:        domain.AlertWarning,
			Title:       "Despesas Pendentes Elevadas",
			Message:     fmt.Sprintf("Despesas pendentes (R$ %s) superam o dobro das receitas pendentes (R$ %s)",
				snap.Balance.PendingOutflow.StringFixed(2), snap.Balance.PendingInflow.StringFixed(2)),
			TotalAmount: snap.Balance.PendingOutflow,
		})
	}

	// Rule 4: negative end-of-month projection.
	if snap.Projection.ProjectedEndOfMonth.IsNegative() {
		alerts = append(alerts, domain.Alert{
			Kind:        domain.AlertWarning,
			Title:       "Projeção Negativa para o Fim do Mês",
			Message:     fmt.Sprintf("O saldo projetado para o fim do mês é de R$ %s", snap.Projection.ProjectedEndOfMonth.StringFixed(2)),
			TotalAmount: snap.Projection.ProjectedEndOfMonth,
		})
	}

	// Rule 5: category concentration.
	if len(snap.Categories) > 0 && snap.Categories[0].Percentage > concentrationPercent {
		top := snap.Categories[0]
		alerts = append(alerts, domain.Alert{
			Kind:        domain.AlertInfo,
			Title:       "Concentração em Categoria",
			Message:     fmt.Sprintf("A categoria %q concentra %.1f%% das despesas pagas", top.Category, top.Percentage),
			TotalAmount: top.Total,
		})
	}

	// Rule 6: overdue fixed costs, computed from the raw records.
	var costDetails []string
	costTotal := decimal.Zero
	for _, fc := range costs {
		if !dateOnly(fc.DueDate).Before(today) {
			continue
		}
		late := daysBetween(dateOnly(fc.DueDate), today)
		costDetails = append(costDetails, fmt.Sprintf("%s — R$ %s (venceu há %d dia(s))",
			fc.Description, fc.Amount.StringFixed(2), late))
		costTotal = costTotal.Add(fc.Amount)
	}
	if len(costDetails) > 0 {
		alerts = append(alerts, domain.Alert{
			Kind:        domain.AlertCritical,
			Title:       "Custos Fixos Vencidos",
			Message:     fmt.Sprintf("%d custo(s) fixo(s) vencido(s)", len(costDetails)),
			Details:     costDetails,
			TotalAmount: costTotal,
		})
	}

	return alerts
}
