package models

// Catálogo fixo de categorias de despesa. O id é o valor persistido em
// Expense.Category; o rótulo é só apresentação.
type ExpenseCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var ExpenseCategories = []ExpenseCategory{
	{ID: "materials", Label: "Materiais", Color: "#022c22"},
	{ID: "labor", Label: "Mão de Obra", Color: "#0f766e"},
	{ID: "equipment", Label: "Equipamentos", Color: "#b45309"},
	{ID: "rentals", Label: "Locações", Color: "#78350f"},
	{ID: "services", Label: "Serviços", Color: "#451a03"},
	{ID: "others", Label: "Outros", Color: "#57534e"},
}

func CategoryLabel(id string) string {
	for _, c := range ExpenseCategories {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

func ValidCategory(id string) bool {
	for _, c := range ExpenseCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// DefaultStage - linha da tabela padrão de etapas que semeia projetos novos.
type DefaultStage struct {
	Name   string
	Weight float64
}

// Tabela padrão de composição de etapas de uma obra residencial.
var DefaultStages = []DefaultStage{
	{"PRELIMINARES", 3.10},
	{"INFRAESTRUTURA", 7.00},
	{"SUPRAESTRUTURA", 12.50},
	{"PAREDES E PAINEIS", 8.00},
	{"ESQUADRIAS", 4.50},
	{"VIDROS E PLÁSTICOS", 0.00},
	{"COBERTURAS", 5.00},
	{"IMPERMEBAILIZAÇÕES", 9.00},
	{"REVESTIMENTOS INTERNOS", 6.90},
	{"FORROS", 1.00},
	{"REVESTIMENTOS EXTERNOS", 4.00},
	{"PINTURA", 3.70},
	{"PISOS", 8.50},
	{"ACABAMENTOS", 1.11},
	{"INST. ELÉTRICAS", 3.80},
	{"INST. HIDRÁULICAS", 3.70},
	{"INST. ESGOTOS E PLUV.", 3.70},
	{"LOUÇAS E METAIS", 4.20},
	{"COMPLEMENTOS", 0.30},
	{"OUTROS SERVIÇOS.", 9.99},
}
