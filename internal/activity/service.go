package activity

import (
	"fmt"
	"time"

	"obras-backend/internal/database"
	"obras-backend/internal/models"
)

type LogOptions struct {
	ProjectID   uint
	UserID      uint
	UserName    string
	Type        models.ActivityType
	Description string
}

// Write - registra um evento no feed do projeto. Falha de escrita não é
// crítica para a operação que a originou; quem chama só loga.
func Write(opts LogOptions) error {
	entry := models.ProjectActivity{
		ProjectID:   opts.ProjectID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		Type:        opts.Type,
		Description: opts.Description,
		Date:        time.Now(),
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("atividade não pôde ser registrada: %w", err)
	}

	return nil
}
