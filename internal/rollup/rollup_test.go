package rollup

import (
	"math"
	"testing"

	"obras-backend/internal/models"

	"github.com/shopspring/decimal"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func stage(id uint, weight float64, progress float64) models.ProjectStage {
	return models.ProjectStage{ID: id, ProjectID: 1, Weight: weight, Progress: progress}
}

func TestRecalcWeightDerivesExpectedCost(t *testing.T) {
	budget := dec("50000")
	stages := []models.ProjectStage{
		stage(1, 10, 0),
		stage(2, 30, 0),
	}
	stages[0].ExpectedCost = dec("5000")
	stages[1].ExpectedCost = dec("15000")

	stages = RecalcWeight(stages, 0, "20", budget)

	if stages[0].Weight != 20 {
		t.Fatalf("peso esperado 20, veio %v", stages[0].Weight)
	}
	if !stages[0].ExpectedCost.Equal(dec("10000")) {
		t.Fatalf("custo esperado 10000, veio %s", stages[0].ExpectedCost)
	}
	// A outra etapa não é rebalanceada
	if stages[1].Weight != 30 || !stages[1].ExpectedCost.Equal(dec("15000")) {
		t.Fatalf("etapa vizinha foi alterada: %+v", stages[1])
	}
}

func TestRecalcExpectedCostDerivesWeight(t *testing.T) {
	budget := dec("100000")
	stages := []models.ProjectStage{stage(1, 0, 0)}

	stages = RecalcExpectedCost(stages, 0, "25000", budget)

	if !stages[0].ExpectedCost.Equal(dec("25000")) {
		t.Fatalf("custo esperado 25000, veio %s", stages[0].ExpectedCost)
	}
	if math.Abs(stages[0].Weight-25) > 1e-9 {
		t.Fatalf("peso esperado 25, veio %v", stages[0].Weight)
	}

	// Os dois caminhos de edição ficam numericamente consistentes:
	// custo == peso/100 × orçamento após qualquer um deles
	derived := ExpectedCost(stages[0].Weight, budget)
	if diff := derived.Sub(stages[0].ExpectedCost).Abs(); diff.GreaterThan(dec("0.01")) {
		t.Fatalf("custo e peso divergiram: %s vs %s", derived, stages[0].ExpectedCost)
	}
}

func TestRecalcExpectedCostWithZeroBudget(t *testing.T) {
	stages := []models.ProjectStage{stage(1, 40, 0)}

	stages = RecalcExpectedCost(stages, 0, "1000", decimal.Zero)

	if stages[0].Weight != 0 {
		t.Fatalf("orçamento zero deve derivar peso 0, veio %v", stages[0].Weight)
	}
}

func TestRecalcWeightPermissiveInput(t *testing.T) {
	budget := dec("10000")
	cases := []struct {
		raw    string
		weight float64
	}{
		{"12,5", 12.5}, // vírgula decimal aceita
		{" 7.5 ", 7.5},
		{"abc", 0}, // lixo vira 0 em silêncio (risco de usabilidade conhecido)
		{"", 0},
		{"-10", -10}, // fora de [0,100] não é erro
		{"250", 250},
	}

	for _, tc := range cases {
		stages := []models.ProjectStage{stage(1, 50, 0)}
		stages = RecalcWeight(stages, 0, tc.raw, budget)
		if stages[0].Weight != tc.weight {
			t.Errorf("ParsePercent(%q): peso esperado %v, veio %v", tc.raw, tc.weight, stages[0].Weight)
		}
	}
}

func TestRecalcWeightIndexOutOfRange(t *testing.T) {
	stages := []models.ProjectStage{stage(1, 10, 0)}
	got := RecalcWeight(stages, 5, "20", dec("1000"))
	if got[0].Weight != 10 {
		t.Fatalf("índice inválido não deve alterar nada")
	}
}

func TestRecalcProgressClamps(t *testing.T) {
	cases := []struct {
		raw      string
		progress float64
	}{
		{"-5", 0},
		{"150", 100},
		{"42,7", 42.7},
		{"x", 0},
	}

	for _, tc := range cases {
		stages := []models.ProjectStage{stage(1, 10, 50)}
		stages = RecalcProgress(stages, 0, tc.raw)
		if stages[0].Progress != tc.progress {
			t.Errorf("RecalcProgress(%q): esperado %v, veio %v", tc.raw, tc.progress, stages[0].Progress)
		}
	}
}

func expenseForStage(id uint, projectID, stageID uint, amount string, status models.ExpenseStatus) models.Expense {
	return models.Expense{
		ID:        id,
		ProjectID: &projectID,
		StageID:   &stageID,
		Amount:    dec(amount),
		Status:    status,
	}
}

func TestRealCostSumsBothStatuses(t *testing.T) {
	s := stage(7, 10, 0)

	expenses := []models.Expense{
		expenseForStage(1, 1, 7, "1000", models.StatusRealized),
		expenseForStage(2, 1, 7, "500", models.StatusFuture),    // comprometido conta como incorrido
		expenseForStage(3, 1, 9, "9999", models.StatusRealized), // outra etapa
	}

	got := RealCost(s, expenses, nil)
	if !got.Equal(dec("1500")) {
		t.Fatalf("custo real esperado 1500, veio %s", got)
	}
}

func TestRealCostDeduplicatesUnion(t *testing.T) {
	s := stage(7, 10, 0)

	shared := expenseForStage(1, 1, 7, "1000", models.StatusRealized)
	projectExpenses := []models.Expense{shared}
	globalExpenses := []models.Expense{
		shared, // mesma despesa nas duas fontes: conta uma vez
		expenseForStage(2, 1, 7, "300", models.StatusRealized),
		expenseForStage(3, 2, 7, "777", models.StatusRealized), // outro projeto
	}

	got := RealCost(s, projectExpenses, globalExpenses)
	if !got.Equal(dec("1300")) {
		t.Fatalf("custo real esperado 1300 (sem dupla contagem), veio %s", got)
	}
}

func TestRealCostIgnoresUnlinkedExpenses(t *testing.T) {
	s := stage(7, 10, 0)
	pid := uint(1)
	expenses := []models.Expense{
		{ID: 1, ProjectID: &pid, StageID: nil, Amount: dec("500"), Status: models.StatusRealized},
	}

	if got := RealCost(s, expenses, nil); !got.IsZero() {
		t.Fatalf("despesa sem etapa não entra no custo real, veio %s", got)
	}
}

func TestFinancialProgress(t *testing.T) {
	cases := []struct {
		name     string
		expected string
		real     string
		want     float64
	}{
		{"metade", "1000", "500", 50},
		{"estourado trava em 100", "1000", "2500", 100},
		{"sem custo esperado e sem gasto", "0", "0", 0},
		{"sem custo esperado com gasto", "0", "10", 100},
	}

	for _, tc := range cases {
		got := FinancialProgress(dec(tc.expected), dec(tc.real))
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: esperado %v, veio %v", tc.name, tc.want, got)
		}
	}
}

func TestOverallPhysicalProgressScenario(t *testing.T) {
	// Orçamento 100000, duas etapas 50/50, uma concluída
	stages := []models.ProjectStage{
		stage(1, 50, 100),
		stage(2, 50, 0),
	}

	if got := OverallPhysicalProgress(stages); got != 50 {
		t.Fatalf("avanço físico esperado 50, veio %d", got)
	}
}

func TestOverallPhysicalProgressOrderIndependent(t *testing.T) {
	a := []models.ProjectStage{stage(1, 30, 80), stage(2, 50, 20), stage(3, 20, 55)}
	b := []models.ProjectStage{a[2], a[0], a[1]}

	if OverallPhysicalProgress(a) != OverallPhysicalProgress(b) {
		t.Fatal("reordenar etapas não pode mudar o avanço físico")
	}
}

func TestOverallPhysicalProgressEmpty(t *testing.T) {
	if got := OverallPhysicalProgress(nil); got != 0 {
		t.Fatalf("lista vazia deve dar 0, veio %d", got)
	}
}

func TestOverallPhysicalProgressRounds(t *testing.T) {
	// 33.4% de 100 => 33; 33.5% => 34
	if got := OverallPhysicalProgress([]models.ProjectStage{stage(1, 100, 33.4)}); got != 33 {
		t.Fatalf("esperado 33, veio %d", got)
	}
	if got := OverallPhysicalProgress([]models.ProjectStage{stage(1, 100, 33.5)}); got != 34 {
		t.Fatalf("esperado 34, veio %d", got)
	}
}

func TestStagesFromDefaults(t *testing.T) {
	budget := dec("200000")
	stages := StagesFromDefaults(1, budget)

	if len(stages) != len(models.DefaultStages) {
		t.Fatalf("esperadas %d etapas, vieram %d", len(models.DefaultStages), len(stages))
	}

	// A tabela padrão fecha em 100%
	if total := WeightTotal(stages); math.Abs(total-100) > 1e-9 {
		t.Fatalf("soma dos pesos padrão deveria ser 100, veio %v", total)
	}

	// E portanto a soma dos custos esperados fecha no orçamento
	sum := decimal.Zero
	for _, s := range stages {
		sum = sum.Add(s.ExpectedCost)
	}
	if diff := sum.Sub(budget).Abs(); diff.GreaterThan(dec("0.01")) {
		t.Fatalf("soma dos custos esperados (%s) deveria fechar no orçamento (%s)", sum, budget)
	}
}
