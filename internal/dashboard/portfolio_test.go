package dashboard

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

func expense(amount, category, supplier string, status models.ExpenseStatus) models.Expense {
	return models.Expense{
		Amount:   dec(amount),
		Category: category,
		Supplier: supplier,
		Status:   status,
	}
}

func activeProject(id uint, name, budget string, expenses []models.Expense, measurements []models.Measurement) models.Project {
	return models.Project{
		ID:           id,
		Name:         name,
		Budget:       dec(budget),
		Status:       models.StatusActive,
		Expenses:     expenses,
		Measurements: measurements,
	}
}

func TestComputePortfolioCountsAndTotals(t *testing.T) {
	projects := []models.Project{
		activeProject(1, "Residencial A", "100000",
			[]models.Expense{
				expense("10000", "materials", "ACME", models.StatusRealized),
				expense("5000", "labor", "", models.StatusFuture), // futura não entra
			},
			[]models.Measurement{
				{Amount: dec("30000"), Status: models.StatusRealized},
				{Amount: dec("7000"), Status: models.StatusFuture},
			}),
		{ID: 2, Name: "Obra parada", Budget: dec("50000"), Status: models.StatusInactive,
			Expenses: []models.Expense{expense("9999", "materials", "X", models.StatusRealized)}},
		{ID: 3, Name: "Entregue", Budget: dec("80000"), Status: models.StatusCompleted},
	}

	p := ComputePortfolio(projects, nil)

	if p.ActiveCount != 1 || p.InactiveCount != 1 || p.CompletedCount != 1 {
		t.Fatalf("contagens erradas: %d/%d/%d", p.ActiveCount, p.InactiveCount, p.CompletedCount)
	}
	if !p.TotalBudgetActive.Equal(dec("100000")) {
		t.Fatalf("orçamento ativo esperado 100000, veio %s", p.TotalBudgetActive)
	}
	// Despesas do projeto inativo não contaminam os totais ativos
	if !p.TotalExpensesActive.Equal(dec("10000")) {
		t.Fatalf("despesas ativas esperadas 10000, vieram %s", p.TotalExpensesActive)
	}
	if !p.TotalMeasurementsActive.Equal(dec("30000")) {
		t.Fatalf("medições ativas esperadas 30000, vieram %s", p.TotalMeasurementsActive)
	}
	if !p.ContractualBalance.Equal(dec("20000")) {
		t.Fatalf("saldo contratual esperado 20000, veio %s", p.ContractualBalance)
	}
	if len(p.Projects) != 1 {
		t.Fatalf("só projetos ativos entram na tabela, vieram %d", len(p.Projects))
	}
}

func TestComputePortfolioFoldsAdminExpenses(t *testing.T) {
	projects := []models.Project{
		activeProject(1, "Obra", "100000",
			[]models.Expense{expense("1000", "materials", "", models.StatusRealized)},
			nil),
	}
	adminExpenses := []models.Expense{
		expense("300", "services", "Contabilidade Silva", models.StatusRealized),
		expense("999", "services", "", models.StatusFuture), // futura fica de fora
	}

	p := ComputePortfolio(projects, adminExpenses)

	// Overhead administrativo soma exatamente 300 ao total de despesas...
	if !p.TotalExpensesActive.Equal(dec("1300")) {
		t.Fatalf("despesas esperadas 1300 (1000 + 300 admin), vieram %s", p.TotalExpensesActive)
	}
	// ...mas não aparece na linha de nenhum projeto
	if !p.Projects[0].Expenses.Equal(dec("1000")) {
		t.Fatalf("linha do projeto não pode absorver despesa administrativa: %s", p.Projects[0].Expenses)
	}
}

func TestComputePortfolioDetailRows(t *testing.T) {
	projects := []models.Project{
		activeProject(1, "Menor", "50000", nil,
			[]models.Measurement{{Amount: dec("1000"), Status: models.StatusRealized}}),
		activeProject(2, "Maior", "200000",
			[]models.Expense{expense("5000", "labor", "", models.StatusRealized)},
			[]models.Measurement{{Amount: dec("2000"), Status: models.StatusRealized}}),
	}

	p := ComputePortfolio(projects, nil)

	// Ordenação por orçamento, do maior para o menor
	if p.Projects[0].ProjectID != 2 || p.Projects[1].ProjectID != 1 {
		t.Fatalf("tabela fora de ordem: %+v", p.Projects)
	}

	maior := p.Projects[0]
	if !maior.Balance.Equal(dec("-3000")) || maior.IsPositive {
		t.Fatalf("saldo do projeto 2 esperado -3000 negativo, veio %s (positivo=%v)", maior.Balance, maior.IsPositive)
	}

	menor := p.Projects[1]
	if !menor.Balance.Equal(dec("1000")) || !menor.IsPositive {
		t.Fatalf("saldo do projeto 1 esperado 1000 positivo, veio %s", menor.Balance)
	}
}

func TestExpensesByCategoryConservation(t *testing.T) {
	projects := []models.Project{
		activeProject(1, "A", "1", []models.Expense{
			expense("100", "materials", "", models.StatusRealized),
			expense("40", "labor", "", models.StatusRealized),
			expense("77", "labor", "", models.StatusFuture), // futura fora
		}, nil),
		// Projeto inativo também entra no recorte por categoria:
		// o agrupamento cobre todas as despesas realizadas
		{ID: 2, Status: models.StatusInactive, Budget: dec("1"),
			Expenses: []models.Expense{expense("60", "materials", "", models.StatusRealized)}},
	}
	adminExpenses := []models.Expense{
		expense("300", "services", "", models.StatusRealized),
	}

	items := ExpensesByCategory(projects, adminExpenses)

	// Conservação: a soma dos grupos é a soma de todas as realizadas
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total)
	}
	if !sum.Equal(dec("500")) {
		t.Fatalf("soma dos grupos esperada 500, veio %s", sum)
	}

	// Ordenado do maior para o menor
	if items[0].CategoryID != "services" || !items[0].Total.Equal(dec("300")) {
		t.Fatalf("maior grupo deveria ser services/300: %+v", items[0])
	}
	if items[1].CategoryID != "materials" || !items[1].Total.Equal(dec("160")) {
		t.Fatalf("segundo grupo deveria ser materials/160: %+v", items[1])
	}
	if items[1].CategoryName != "Materiais" {
		t.Fatalf("rótulo do catálogo esperado 'Materiais', veio %q", items[1].CategoryName)
	}
}

func TestExpensesByCategoryStableTies(t *testing.T) {
	projects := []models.Project{
		activeProject(1, "A", "1", []models.Expense{
			expense("100", "labor", "", models.StatusRealized),
			expense("100", "materials", "", models.StatusRealized),
		}, nil),
	}

	items := ExpensesByCategory(projects, nil)

	// Empate mantém a ordem da primeira aparição (labor veio antes)
	if items[0].CategoryID != "labor" || items[1].CategoryID != "materials" {
		t.Fatalf("empate deveria preservar ordem de aparição: %+v", items)
	}
}

func TestExpensesBySupplierNormalizesAndLimits(t *testing.T) {
	var expenses []models.Expense
	// Seis fornecedores com totais decrescentes
	names := []string{"Alfa", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot"}
	for i, n := range names {
		amount := decimal.NewFromInt(int64(600 - i*100))
		expenses = append(expenses, models.Expense{
			Amount: amount, Category: "materials", Supplier: n, Status: models.StatusRealized,
		})
	}
	// Mesmo fornecedor com variação de caixa/espaços agrega junto
	expenses = append(expenses,
		expense("50", "materials", "  alfa ", models.StatusRealized),
		expense("10", "materials", "", models.StatusRealized), // sem fornecedor fica fora
	)

	projects := []models.Project{activeProject(1, "A", "1", expenses, nil)}

	items := ExpensesBySupplier(projects, nil)

	if len(items) != 5 {
		t.Fatalf("top 5 esperado, vieram %d", len(items))
	}
	if items[0].Supplier != "ALFA" || !items[0].Total.Equal(dec("650")) {
		t.Fatalf("ALFA deveria liderar com 650: %+v", items[0])
	}
	for _, item := range items {
		if item.Supplier == "FOXTROT" {
			t.Fatal("sexto colocado não deveria aparecer no top 5")
		}
	}
}
