package models

import "time"

type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:150;not null"`
	Category  string `gorm:"size:30;not null"`
	Document  string `gorm:"size:20"` // CNPJ
	Email     string `gorm:"size:100"`
	Phone     string `gorm:"size:50"`
	City      string `gorm:"size:100"`
	State     string `gorm:"size:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
