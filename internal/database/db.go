package database

import (
	"log"

	"obras-backend/internal/config"
	"obras-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	// Migração manual: despesas antigas vinculavam etapa pelo nome
	// (stage_name). A coluna nova stage_id referencia project_stages e o
	// vínculo por nome é descartado (antes do AutoMigrate, para preservar
	// os registros existentes).
	if DB.Migrator().HasTable(&models.Expense{}) {
		if DB.Migrator().HasColumn(&models.Expense{}, "stage_name") && !DB.Migrator().HasColumn(&models.Expense{}, "stage_id") {
			log.Println("Migrando vínculo de etapa das despesas (stage_name -> stage_id)...")

			if err := DB.Exec("ALTER TABLE expenses ADD COLUMN stage_id BIGINT").Error; err != nil {
				log.Printf("Erro ao adicionar coluna stage_id (pode já existir): %v", err)
			}
			if err := DB.Exec(`
				UPDATE expenses e SET stage_id = s.id
				FROM project_stages s
				WHERE e.project_id = s.project_id AND e.stage_name = s.name
			`).Error; err != nil {
				log.Printf("Erro ao resolver stage_id a partir do nome: %v", err)
			}
			if err := DB.Exec("ALTER TABLE expenses DROP COLUMN stage_name").Error; err != nil {
				log.Printf("Erro ao remover coluna stage_name: %v", err)
			}
			DB.Exec("CREATE INDEX IF NOT EXISTS idx_expenses_stage_id ON expenses(stage_id)")
			log.Println("Migração de vínculo de etapa concluída")
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectStage{},
		&models.ProjectClient{},
		&models.Expense{},
		&models.Measurement{},
		&models.Supplier{},
		&models.Attachment{},
		&models.PhotoTopic{},
		&models.ProjectActivity{},
	)
	if err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco ok. Migration concluída.")
}
