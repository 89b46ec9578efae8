package financial

import (
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

func expense(amount string, status models.ExpenseStatus) models.Expense {
	return models.Expense{Amount: dec(amount), Status: status}
}

func measurement(amount string, status models.ExpenseStatus) models.Measurement {
	return models.Measurement{Amount: dec(amount), Status: status}
}

func TestSummarizeScenario(t *testing.T) {
	// Despesas 1000 realizada + 500 futura; medição 2000 realizada
	expenses := []models.Expense{
		expense("1000", models.StatusRealized),
		expense("500", models.StatusFuture),
	}
	measurements := []models.Measurement{
		measurement("2000", models.StatusRealized),
	}

	s := Summarize(expenses, measurements)

	if !s.CurrentBalance.Equal(dec("1000")) {
		t.Fatalf("saldo atual esperado 1000, veio %s", s.CurrentBalance)
	}
	if !s.ProjectedBalance.Equal(dec("500")) {
		t.Fatalf("saldo projetado esperado 500 (2000 - 1500), veio %s", s.ProjectedBalance)
	}
	if !s.RealizedExpenses.Equal(dec("1000")) || !s.FutureExpenses.Equal(dec("500")) {
		t.Fatalf("despesas classificadas errado: %s / %s", s.RealizedExpenses, s.FutureExpenses)
	}
	if !s.RealizedBilling.Equal(dec("2000")) || !s.FutureBilling.IsZero() {
		t.Fatalf("medições classificadas errado: %s / %s", s.RealizedBilling, s.FutureBilling)
	}
}

func TestBalanceIdentity(t *testing.T) {
	// Para qualquer conjunto: saldoAtual + (aReceber - aPagar) == saldoProjetado
	expenses := []models.Expense{
		expense("1234.56", models.StatusRealized),
		expense("0.01", models.StatusRealized),
		expense("789.10", models.StatusFuture),
		expense("42", models.StatusFuture),
	}
	measurements := []models.Measurement{
		measurement("5000", models.StatusRealized),
		measurement("1500.99", models.StatusFuture),
		measurement("0.02", models.StatusFuture),
	}

	s := Summarize(expenses, measurements)

	lhs := s.CurrentBalance.Add(s.FutureBilling.Sub(s.FutureExpenses))
	if !lhs.Equal(s.ProjectedBalance) {
		t.Fatalf("identidade quebrada: %s != %s", lhs, s.ProjectedBalance)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)

	if !s.CurrentBalance.IsZero() || !s.ProjectedBalance.IsZero() {
		t.Fatalf("sem lançamentos, saldos devem ser zero: %+v", s)
	}
}

func TestSummarizeToleratesZeroAndUnknown(t *testing.T) {
	// Valor ausente (zero) e status desconhecido não derrubam nem distorcem
	expenses := []models.Expense{
		{Status: models.StatusRealized}, // amount zero-value
		{Amount: dec("100"), Status: "???"},
	}

	s := Summarize(expenses, nil)

	if !s.RealizedExpenses.IsZero() {
		t.Fatalf("despesa de valor ausente deve somar 0, veio %s", s.RealizedExpenses)
	}
	if !s.FutureExpenses.IsZero() {
		t.Fatalf("status desconhecido não entra em nenhum balde, veio %s", s.FutureExpenses)
	}
}

func TestSummarizeExactDecimalSums(t *testing.T) {
	// Muitos valores pequenos sem deriva de ponto flutuante
	var expenses []models.Expense
	for i := 0; i < 1000; i++ {
		expenses = append(expenses, expense("0.10", models.StatusRealized))
	}

	s := Summarize(expenses, nil)

	if !s.RealizedExpenses.Equal(dec("100.00")) {
		t.Fatalf("1000 × 0,10 deve ser exatamente 100,00, veio %s", s.RealizedExpenses)
	}
}
