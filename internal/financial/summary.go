// Package financial classifica e soma despesas e medições de um projeto no
// conjunto canônico de indicadores financeiros. Funções puras; os handlers
// apenas carregam os registros e delegam.
package financial

import (
	"obras-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Summary struct {
	RealizedExpenses decimal.Decimal `json:"realized_expenses"`
	FutureExpenses   decimal.Decimal `json:"future_expenses"`
	RealizedBilling  decimal.Decimal `json:"realized_billing"`
	FutureBilling    decimal.Decimal `json:"future_billing"`
	// Saldo atual (caixa): recebido - pago
	CurrentBalance decimal.Decimal `json:"current_balance"`
	// Saldo projetado: (recebido + a receber) - (pago + a pagar)
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
}

// Summarize - agrega despesas e medições por status. Valores ausentes são
// zero; nada aqui lança erro (aritmética decimal exata, sem arredondamento).
func Summarize(expenses []models.Expense, measurements []models.Measurement) Summary {
	s := Summary{
		RealizedExpenses: decimal.Zero,
		FutureExpenses:   decimal.Zero,
		RealizedBilling:  decimal.Zero,
		FutureBilling:    decimal.Zero,
	}

	for _, e := range expenses {
		switch e.Status {
		case models.StatusRealized:
			s.RealizedExpenses = s.RealizedExpenses.Add(e.Amount)
		case models.StatusFuture:
			s.FutureExpenses = s.FutureExpenses.Add(e.Amount)
		}
	}

	for _, m := range measurements {
		switch m.Status {
		case models.StatusRealized:
			s.RealizedBilling = s.RealizedBilling.Add(m.Amount)
		case models.StatusFuture:
			s.FutureBilling = s.FutureBilling.Add(m.Amount)
		}
	}

	s.CurrentBalance = s.RealizedBilling.Sub(s.RealizedExpenses)
	s.ProjectedBalance = s.RealizedBilling.Add(s.FutureBilling).
		Sub(s.RealizedExpenses.Add(s.FutureExpenses))

	return s
}
