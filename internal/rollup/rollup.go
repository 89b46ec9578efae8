// Package rollup concentra o cálculo de etapas ponderadas: custo esperado a
// partir do peso (e vice-versa), custo realizado somado das despesas
// vinculadas, avanço financeiro por etapa e avanço físico ponderado do
// projeto. Tudo aqui é puro e não toca o banco.
package rollup

import (
	"math"
	"strconv"
	"strings"

	"obras-backend/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParsePercent - entrada numérica permissiva: aceita vírgula decimal e
// qualquer lixo vira 0, nunca erro. Mesmo comportamento dos formulários
// originais (sem feedback ao usuário; os testes sinalizam o risco).
func ParsePercent(raw string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseAmount - mesma política permissiva para valores monetários.
func ParseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ExpectedCost - peso/100 × orçamento.
func ExpectedCost(weight float64, budget decimal.Decimal) decimal.Decimal {
	return budget.Mul(decimal.NewFromFloat(weight)).Div(hundred)
}

// RecalcWeight ajusta o peso da etapa index e deriva o custo esperado.
// As demais etapas não são rebalanceadas; soma != 100 não é erro.
func RecalcWeight(stages []models.ProjectStage, index int, rawWeight string, budget decimal.Decimal) []models.ProjectStage {
	if index < 0 || index >= len(stages) {
		return stages
	}
	weight := ParsePercent(rawWeight)
	stages[index].Weight = weight
	stages[index].ExpectedCost = ExpectedCost(weight, budget)
	return stages
}

// RecalcExpectedCost ajusta o custo esperado da etapa index e deriva o peso
// de volta (simétrico a RecalcWeight). Orçamento zero => peso 0.
func RecalcExpectedCost(stages []models.ProjectStage, index int, rawCost string, budget decimal.Decimal) []models.ProjectStage {
	if index < 0 || index >= len(stages) {
		return stages
	}
	cost := ParseAmount(rawCost)
	stages[index].ExpectedCost = cost
	if budget.IsPositive() {
		stages[index].Weight = cost.Div(budget).Mul(hundred).InexactFloat64()
	} else {
		stages[index].Weight = 0
	}
	return stages
}

// RecalcProgress ajusta o avanço físico manual da etapa, limitado a [0,100].
func RecalcProgress(stages []models.ProjectStage, index int, rawProgress string) []models.ProjectStage {
	if index < 0 || index >= len(stages) {
		return stages
	}
	progress := ParsePercent(rawProgress)
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	stages[index].Progress = progress
	return stages
}

// RealCost - custo realizado da etapa: soma das despesas vinculadas a ela,
// tanto do projeto quanto da lista global, REALIZADAS e FUTURAS (custo
// comprometido conta como incorrido). União deduplicada por id.
func RealCost(stage models.ProjectStage, projectExpenses, globalExpenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	seen := make(map[uint]bool)

	add := func(e models.Expense) {
		if e.StageID == nil || *e.StageID != stage.ID {
			return
		}
		if e.ProjectID != nil && *e.ProjectID != stage.ProjectID {
			return
		}
		if seen[e.ID] {
			return
		}
		seen[e.ID] = true
		total = total.Add(e.Amount)
	}

	for _, e := range projectExpenses {
		add(e)
	}
	for _, e := range globalExpenses {
		add(e)
	}
	return total
}

// FinancialProgress - percentual realizado/esperado, travado em 100.
// Custo esperado zero: 100 se já houve gasto, senão 0.
func FinancialProgress(expectedCost, realCost decimal.Decimal) float64 {
	if expectedCost.IsPositive() {
		pct := realCost.Div(expectedCost).Mul(hundred).InexactFloat64()
		if pct > 100 {
			return 100
		}
		return pct
	}
	if realCost.IsPositive() {
		return 100
	}
	return 0
}

// OverallPhysicalProgress - avanço físico do projeto: média ponderada
// Σ(progresso × peso/100), arredondada para inteiro. Independe da ordem
// das etapas; lista vazia => 0.
func OverallPhysicalProgress(stages []models.ProjectStage) int {
	total := 0.0
	for _, s := range stages {
		total += s.Progress * (s.Weight / 100)
	}
	return int(math.Round(total))
}

// WeightTotal - soma dos pesos, para o aviso de composição != 100%.
func WeightTotal(stages []models.ProjectStage) float64 {
	total := 0.0
	for _, s := range stages {
		total += s.Weight
	}
	return total
}

// StagesFromDefaults - semeia a tabela padrão de etapas de um projeto novo,
// já com os custos esperados derivados do orçamento.
func StagesFromDefaults(projectID uint, budget decimal.Decimal) []models.ProjectStage {
	stages := make([]models.ProjectStage, 0, len(models.DefaultStages))
	for i, d := range models.DefaultStages {
		stages = append(stages, models.ProjectStage{
			ProjectID:    projectID,
			Name:         d.Name,
			Position:     i,
			Weight:       d.Weight,
			ExpectedCost: ExpectedCost(d.Weight, budget),
		})
	}
	return stages
}
