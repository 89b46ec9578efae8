package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	StatusActive    ProjectStatus = "ATIVO"
	StatusInactive  ProjectStatus = "INATIVO"
	StatusCompleted ProjectStatus = "CONCLUÍDO"
)

type Project struct {
	ID             uint            `gorm:"primaryKey"`
	ProjectCode    string          `gorm:"size:50"` // CIP - Código Internacional do Projeto
	Name           string          `gorm:"size:150;not null"`
	Description    string          `gorm:"size:500"`
	Budget         decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	StartDate      time.Time       `gorm:"not null"`
	DurationMonths int
	Status         ProjectStatus `gorm:"size:20;not null;default:'ATIVO'"`
	City           string        `gorm:"size:100"`
	State          string        `gorm:"size:2"`
	// Cache do avanço físico ponderado; recalculado a cada salvamento de etapas.
	// Fonte da verdade é sempre rollup.OverallPhysicalProgress(stages).
	PhysicalProgress int  `gorm:"not null;default:0"`
	CreatedBy        uint `gorm:"index;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Stages       []ProjectStage  `gorm:"constraint:OnDelete:CASCADE"`
	Expenses     []Expense       `gorm:"constraint:OnDelete:CASCADE"`
	Measurements []Measurement   `gorm:"constraint:OnDelete:CASCADE"`
	Clients      []ProjectClient `gorm:"constraint:OnDelete:CASCADE"`
}

// ProjectStage - etapa ponderada da obra. O id é a identidade da etapa;
// o nome é apenas rótulo de exibição (renomear não desvincula despesas).
type ProjectStage struct {
	ID           uint            `gorm:"primaryKey"`
	ProjectID    uint            `gorm:"index;not null"`
	Name         string          `gorm:"size:100;not null"`
	Position     int             `gorm:"not null"`
	Weight       float64         `gorm:"not null;default:0"` // percentual 0-100, soma 100 não é imposta
	ExpectedCost decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Progress     float64         `gorm:"not null;default:0"` // avanço físico manual 0-100
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProjectClient - vínculo de um usuário CLIENTE a um projeto (portal do cliente).
type ProjectClient struct {
	ID        uint `gorm:"primaryKey"`
	ProjectID uint `gorm:"index;not null"`
	UserID    uint `gorm:"index;not null"`
	User      User
	CreatedAt time.Time
}
