package models

import "time"

type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentDocument AttachmentType = "document"
)

// Attachment - documento técnico do projeto ou foto dentro de um tópico.
// Apenas a referência (URL) é gerenciada; o ciclo de vida do arquivo não.
type Attachment struct {
	ID           uint           `gorm:"primaryKey"`
	ProjectID    *uint          `gorm:"index"`
	PhotoTopicID *uint          `gorm:"index"`
	Name         string         `gorm:"size:150;not null"`
	Description  string         `gorm:"size:255"`
	URL          string         `gorm:"size:500;not null"`
	Type         AttachmentType `gorm:"size:10;not null"`
	Date         time.Time      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PhotoTopic - agrupamento de fotos de acompanhamento da obra.
type PhotoTopic struct {
	ID        uint      `gorm:"primaryKey"`
	ProjectID uint      `gorm:"index;not null"`
	Title     string    `gorm:"size:150;not null"`
	Date      time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Photos []Attachment `gorm:"foreignKey:PhotoTopicID;constraint:OnDelete:CASCADE"`
}
