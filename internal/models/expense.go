package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseStatus string

const (
	StatusRealized ExpenseStatus = "PAGA/REALIZADA"
	StatusFuture   ExpenseStatus = "PREVISTA/FUTURA"
)

// Expense - despesa da obra. ProjectID nulo = despesa administrativa
// (custo da empresa, sem projeto). StageID nulo = sem vínculo de etapa.
type Expense struct {
	ID            uint            `gorm:"primaryKey"`
	ProjectID     *uint           `gorm:"index"`
	StageID       *uint           `gorm:"index"`
	Description   string          `gorm:"size:255;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Category      string          `gorm:"size:30;not null"` // id do catálogo fixo (materials, labor, ...)
	Supplier      string          `gorm:"size:150"`         // texto livre, sem FK
	Status        ExpenseStatus   `gorm:"size:30;not null"`
	Date          time.Time       `gorm:"index;not null"`
	CreatedBy     uint            `gorm:"index;not null"`
	AttachmentURL string          `gorm:"size:500"` // nota fiscal ou recibo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdministrative - despesa sem projeto dono.
func (e Expense) IsAdministrative() bool {
	return e.ProjectID == nil
}

// Measurement - medição: marco de faturamento contra o contrato do cliente.
type Measurement struct {
	ID            uint            `gorm:"primaryKey"`
	ProjectID     uint            `gorm:"index;not null"`
	Description   string          `gorm:"size:255;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Status        ExpenseStatus   `gorm:"size:30;not null"`
	Date          time.Time       `gorm:"index;not null"`
	CreatedBy     uint            `gorm:"index;not null"`
	AttachmentURL string          `gorm:"size:500"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
