package models

import "time"

type ActivityType string

const (
	ActivityFinancial  ActivityType = "financial"
	ActivityStatus     ActivityType = "status"
	ActivityAttachment ActivityType = "attachment"
	ActivityProgress   ActivityType = "progress"
)

// ProjectActivity - feed imutável de eventos do projeto (sem undo).
type ProjectActivity struct {
	ID          uint         `gorm:"primaryKey"`
	ProjectID   uint         `gorm:"index;not null"`
	UserID      uint         `gorm:"not null"`
	UserName    string       `gorm:"size:100;not null"`
	Type        ActivityType `gorm:"size:20;not null"`
	Description string       `gorm:"size:255;not null"`
	Date        time.Time    `gorm:"index;not null"`
	CreatedAt   time.Time
}
