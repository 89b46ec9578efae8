package project

import (
	"fmt"
	"log"
	"strings"
	"time"

	"obras-backend/internal/activity"
	"obras-backend/internal/auth"
	"obras-backend/internal/database"
	"obras-backend/internal/models"
	"obras-backend/internal/rollup"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateProjectRequest struct {
	ProjectCode    string          `json:"project_code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Budget         decimal.Decimal `json:"budget"`
	StartDate      string          `json:"start_date"` // "2006-01-02"
	DurationMonths int             `json:"duration_months"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	ClientIDs      []uint          `json:"client_ids"`
}

type UpdateProjectRequest struct {
	ProjectCode    string               `json:"project_code"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Budget         decimal.Decimal      `json:"budget"`
	StartDate      string               `json:"start_date"`
	DurationMonths int                  `json:"duration_months"`
	Status         models.ProjectStatus `json:"status"`
	City           string               `json:"city"`
	State          string               `json:"state"`
	ClientIDs      []uint               `json:"client_ids"`
}

type ClientResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProjectResponse struct {
	ID               uint                 `json:"id"`
	ProjectCode      string               `json:"project_code"`
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	Budget           decimal.Decimal      `json:"budget"`
	StartDate        string               `json:"start_date"`
	DurationMonths   int                  `json:"duration_months"`
	Status           models.ProjectStatus `json:"status"`
	City             string               `json:"city"`
	State            string               `json:"state"`
	PhysicalProgress int                  `json:"physical_progress"`
	Clients          []ClientResponse     `json:"clients"`
	CreatedAt        string               `json:"created_at"`
}

func toProjectResponse(p models.Project) ProjectResponse {
	clients := make([]ClientResponse, 0, len(p.Clients))
	for _, pc := range p.Clients {
		clients = append(clients, ClientResponse{
			ID:    pc.UserID,
			Name:  pc.User.Name,
			Email: pc.User.Email,
		})
	}
	return ProjectResponse{
		ID:               p.ID,
		ProjectCode:      p.ProjectCode,
		Name:             p.Name,
		Description:      p.Description,
		Budget:           p.Budget,
		StartDate:        p.StartDate.Format("2006-01-02"),
		DurationMonths:   p.DurationMonths,
		Status:           p.Status,
		City:             p.City,
		State:            p.State,
		PhysicalProgress: p.PhysicalProgress,
		Clients:          clients,
		CreatedAt:        p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// -------------------------
// Auxiliar: usuário autenticado com nome (para o feed de atividades)
// -------------------------
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return 0, "", err
	}

	var user models.User
	if err := database.DB.First(&user, actor.UserID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Usuário não encontrado")
	}

	return user.ID, user.Name, nil
}

func replaceClients(projectID uint, clientIDs []uint) error {
	if err := database.DB.Where("project_id = ?", projectID).Delete(&models.ProjectClient{}).Error; err != nil {
		return err
	}
	for _, uid := range clientIDs {
		var user models.User
		if err := database.DB.First(&user, uid).Error; err != nil {
			continue // vínculo para usuário inexistente é ignorado
		}
		if err := database.DB.Create(&models.ProjectClient{ProjectID: projectID, UserID: uid}).Error; err != nil {
			return err
		}
	}
	return nil
}

// POST /api/projects
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProjectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome do projeto é obrigatório")
		}

		startDate, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data de início deve estar no formato 'YYYY-MM-DD'")
		}

		userID, _, err := getUserInfo(c)
		if err != nil {
			return err
		}

		proj := models.Project{
			ProjectCode:    strings.TrimSpace(body.ProjectCode),
			Name:           body.Name,
			Description:    body.Description,
			Budget:         body.Budget,
			StartDate:      startDate,
			DurationMonths: body.DurationMonths,
			Status:         models.StatusActive,
			City:           body.City,
			State:          body.State,
			CreatedBy:      userID,
		}

		if err := database.DB.Create(&proj).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o projeto")
		}

		// Projeto novo nasce com a tabela padrão de etapas
		stages := rollup.StagesFromDefaults(proj.ID, proj.Budget)
		if err := database.DB.Create(&stages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar as etapas padrão")
		}

		if len(body.ClientIDs) > 0 {
			if err := replaceClients(proj.ID, body.ClientIDs); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível vincular os clientes")
			}
		}

		database.DB.Preload("Clients.User").First(&proj, proj.ID)
		return c.Status(fiber.StatusCreated).JSON(toProjectResponse(proj))
	}
}

// GET /api/projects
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromContext(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Project{}).Preload("Clients.User")

		if actor.Role == models.RoleCliente {
			dbq = dbq.Joins("JOIN project_clients pc ON pc.project_id = projects.id").
				Where("pc.user_id = ?", actor.UserID)
		}

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var projects []models.Project
		if err := dbq.Order("created_at desc").Find(&projects).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os projetos")
		}

		resp := make([]ProjectResponse, 0, len(projects))
		for _, p := range projects {
			resp = append(resp, toProjectResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/projects/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}
		database.DB.Preload("Clients.User").First(proj, proj.ID)
		return c.JSON(toProjectResponse(*proj))
	}
}

// PUT /api/projects/:id
// Sobrescrita completa do documento (last-write-wins, sem token de
// concorrência). Orçamento novo rederiva os custos esperados das etapas a
// partir dos pesos, mantendo custo = peso/100 × orçamento.
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var body UpdateProjectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome do projeto é obrigatório")
		}

		startDate, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data de início deve estar no formato 'YYYY-MM-DD'")
		}

		switch body.Status {
		case models.StatusActive, models.StatusInactive, models.StatusCompleted:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Status de projeto inválido")
		}

		statusChanged := proj.Status != body.Status
		budgetChanged := !proj.Budget.Equal(body.Budget)

		proj.ProjectCode = strings.TrimSpace(body.ProjectCode)
		proj.Name = body.Name
		proj.Description = body.Description
		proj.Budget = body.Budget
		proj.StartDate = startDate
		proj.DurationMonths = body.DurationMonths
		proj.Status = body.Status
		proj.City = body.City
		proj.State = body.State

		if err := database.DB.Save(proj).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar o projeto")
		}

		if budgetChanged {
			var stages []models.ProjectStage
			if err := database.DB.Where("project_id = ?", proj.ID).Find(&stages).Error; err == nil {
				for i := range stages {
					stages[i].ExpectedCost = rollup.ExpectedCost(stages[i].Weight, proj.Budget)
					database.DB.Save(&stages[i])
				}
			}
		}

		if body.ClientIDs != nil {
			if err := replaceClients(proj.ID, body.ClientIDs); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar os clientes")
			}
		}

		if statusChanged {
			userID, userName, infoErr := getUserInfo(c)
			if infoErr == nil {
				if logErr := activity.Write(activity.LogOptions{
					ProjectID:   proj.ID,
					UserID:      userID,
					UserName:    userName,
					Type:        models.ActivityStatus,
					Description: fmt.Sprintf("Status do projeto alterado para %s", proj.Status),
				}); logErr != nil {
					log.Println("Atividade não registrada:", logErr)
				}
			}
		}

		database.DB.Preload("Clients.User").First(proj, proj.ID)
		return c.JSON(toProjectResponse(*proj))
	}
}

// DELETE /api/projects/:id (somente master)
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var proj models.Project
		if err := database.DB.First(&proj, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Projeto não encontrado")
		}

		if err := database.DB.Select("Stages", "Expenses", "Measurements", "Clients").
			Delete(&proj).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o projeto")
		}

		return c.JSON(fiber.Map{"deleted": proj.ID})
	}
}
