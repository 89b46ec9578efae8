package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleCliente UserRole = "CLIENTE"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	// Master: o super-admin distinto; pode excluir registros de qualquer usuário
	IsMaster  bool   `gorm:"not null;default:false"`
	Phone     string `gorm:"size:50"`
	City      string `gorm:"size:100"`
	State     string `gorm:"size:2"`
	Document  string `gorm:"size:20"` // CPF ou CNPJ
	CreatedAt time.Time
	UpdatedAt time.Time
}
