// Package dashboard agrega a carteira inteira: contagens por status,
// totais financeiros dos projetos ativos (com o overhead administrativo
// somado às despesas), saldo contratual e os recortes por categoria e por
// fornecedor usados nos gráficos.
package dashboard

import (
	"sort"
	"strings"

	"obras-backend/internal/models"

	"github.com/shopspring/decimal"
)

type ProjectRow struct {
	ProjectID    uint            `json:"project_id"`
	Name         string          `json:"name"`
	Budget       decimal.Decimal `json:"budget"`
	Expenses     decimal.Decimal `json:"expenses"`
	Measurements decimal.Decimal `json:"measurements"`
	Balance      decimal.Decimal `json:"balance"`
	IsPositive   bool            `json:"is_positive"`
}

type Portfolio struct {
	ActiveCount    int `json:"active_count"`
	InactiveCount  int `json:"inactive_count"`
	CompletedCount int `json:"completed_count"`
	// Totais apenas dos projetos ATIVOS; despesas incluem as administrativas
	TotalBudgetActive       decimal.Decimal `json:"total_budget_active"`
	TotalExpensesActive     decimal.Decimal `json:"total_expenses_active"`
	TotalMeasurementsActive decimal.Decimal `json:"total_measurements_active"`
	ContractualBalance      decimal.Decimal `json:"contractual_balance"`
	Projects                []ProjectRow    `json:"projects"`
}

// ComputePortfolio - rollup da carteira. Espera os projetos com despesas e
// medições já carregadas; as despesas administrativas chegam à parte.
func ComputePortfolio(projects []models.Project, adminExpenses []models.Expense) Portfolio {
	p := Portfolio{
		TotalBudgetActive:       decimal.Zero,
		TotalExpensesActive:     decimal.Zero,
		TotalMeasurementsActive: decimal.Zero,
		Projects:                []ProjectRow{},
	}

	for _, proj := range projects {
		switch proj.Status {
		case models.StatusActive:
			p.ActiveCount++
		case models.StatusInactive:
			p.InactiveCount++
		case models.StatusCompleted:
			p.CompletedCount++
		}

		if proj.Status != models.StatusActive {
			continue
		}

		pExpenses := sumRealizedExpenses(proj.Expenses)

		pMeasurements := decimal.Zero
		for _, m := range proj.Measurements {
			if m.Status == models.StatusRealized {
				pMeasurements = pMeasurements.Add(m.Amount)
			}
		}

		balance := pMeasurements.Sub(pExpenses)

		p.TotalBudgetActive = p.TotalBudgetActive.Add(proj.Budget)
		p.TotalExpensesActive = p.TotalExpensesActive.Add(pExpenses)
		p.TotalMeasurementsActive = p.TotalMeasurementsActive.Add(pMeasurements)

		p.Projects = append(p.Projects, ProjectRow{
			ProjectID:    proj.ID,
			Name:         proj.Name,
			Budget:       proj.Budget,
			Expenses:     pExpenses,
			Measurements: pMeasurements,
			Balance:      balance,
			IsPositive:   balance.GreaterThanOrEqual(decimal.Zero),
		})
	}

	// Overhead administrativo entra no total de despesas da carteira,
	// mas nunca no rollup de um projeto individual.
	p.TotalExpensesActive = p.TotalExpensesActive.Add(sumRealizedExpenses(adminExpenses))

	p.ContractualBalance = p.TotalMeasurementsActive.Sub(p.TotalExpensesActive)

	// Tabela ordenada por orçamento, do maior para o menor
	sort.SliceStable(p.Projects, func(i, j int) bool {
		return p.Projects[i].Budget.GreaterThan(p.Projects[j].Budget)
	})

	return p
}

func sumRealizedExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Status == models.StatusRealized {
			total = total.Add(e.Amount)
		}
	}
	return total
}

type CategoryTotal struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

type SupplierTotal struct {
	Supplier string          `json:"supplier"`
	Total    decimal.Decimal `json:"total"`
}

// ExpensesByCategory - todas as despesas REALIZADAS (projetos + admin)
// agrupadas por categoria, ordenadas do maior total para o menor. Empates
// mantêm a ordem da primeira aparição.
func ExpensesByCategory(projects []models.Project, adminExpenses []models.Expense) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string

	add := func(e models.Expense) {
		if e.Status != models.StatusRealized {
			return
		}
		if _, ok := totals[e.Category]; !ok {
			order = append(order, e.Category)
			totals[e.Category] = decimal.Zero
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	for _, proj := range projects {
		for _, e := range proj.Expenses {
			add(e)
		}
	}
	for _, e := range adminExpenses {
		add(e)
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, id := range order {
		result = append(result, CategoryTotal{
			CategoryID:   id,
			CategoryName: models.CategoryLabel(id),
			Total:        totals[id],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

// ExpensesBySupplier - mesmo recorte por fornecedor (nome normalizado em
// maiúsculas, sem espaços nas pontas), só os 5 maiores.
func ExpensesBySupplier(projects []models.Project, adminExpenses []models.Expense) []SupplierTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string

	add := func(e models.Expense) {
		if e.Status != models.StatusRealized {
			return
		}
		name := strings.ToUpper(strings.TrimSpace(e.Supplier))
		if name == "" {
			return
		}
		if _, ok := totals[name]; !ok {
			order = append(order, name)
			totals[name] = decimal.Zero
		}
		totals[name] = totals[name].Add(e.Amount)
	}

	for _, proj := range projects {
		for _, e := range proj.Expenses {
			add(e)
		}
	}
	for _, e := range adminExpenses {
		add(e)
	}

	result := make([]SupplierTotal, 0, len(order))
	for _, name := range order {
		result = append(result, SupplierTotal{Supplier: name, Total: totals[name]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})

	if len(result) > 5 {
		result = result[:5]
	}
	return result
}
