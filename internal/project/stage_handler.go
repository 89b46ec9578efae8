package project

import (
	"fmt"
	"log"

	"obras-backend/internal/activity"
	"obras-backend/internal/auth"
	"obras-backend/internal/database"
	"obras-backend/internal/models"
	"obras-backend/internal/rollup"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type StageResponse struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Position          int             `json:"position"`
	Weight            float64         `json:"weight"`
	ExpectedCost      decimal.Decimal `json:"expected_cost"`
	RealCost          decimal.Decimal `json:"real_cost"`
	FinancialProgress float64         `json:"financial_progress"`
	Progress          float64         `json:"progress"`
}

type StageListResponse struct {
	ProjectID        uint            `json:"project_id"`
	Stages           []StageResponse `json:"stages"`
	WeightTotal      float64         `json:"weight_total"` // != 100 é aviso no front, não erro
	PhysicalProgress int             `json:"physical_progress"`
}

type SaveStageInput struct {
	ID       *uint   `json:"id"` // nulo = etapa nova
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Progress float64 `json:"progress"`
}

type SaveStagesRequest struct {
	Stages []SaveStageInput `json:"stages"`
}

// Campos como texto cru: entrada não numérica vira 0 (comportamento
// permissivo dos formulários; ver rollup.ParsePercent).
type PatchStageRequest struct {
	Weight       *string `json:"weight"`
	ExpectedCost *string `json:"expected_cost"`
	Progress     *string `json:"progress"`
}

func loadStages(projectID uint) ([]models.ProjectStage, error) {
	var stages []models.ProjectStage
	if err := database.DB.Where("project_id = ?", projectID).
		Order("position asc, id asc").
		Find(&stages).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as etapas")
	}
	return stages, nil
}

func stageListResponse(proj *models.Project, stages []models.ProjectStage) (StageListResponse, error) {
	var expenses []models.Expense
	if err := database.DB.Where("project_id = ?", proj.ID).Find(&expenses).Error; err != nil {
		return StageListResponse{}, fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as despesas")
	}

	resp := StageListResponse{
		ProjectID:        proj.ID,
		Stages:           make([]StageResponse, 0, len(stages)),
		WeightTotal:      rollup.WeightTotal(stages),
		PhysicalProgress: rollup.OverallPhysicalProgress(stages),
	}

	for _, s := range stages {
		realCost := rollup.RealCost(s, expenses, nil)
		resp.Stages = append(resp.Stages, StageResponse{
			ID:                s.ID,
			Name:              s.Name,
			Position:          s.Position,
			Weight:            s.Weight,
			ExpectedCost:      s.ExpectedCost,
			RealCost:          realCost,
			FinancialProgress: rollup.FinancialProgress(s.ExpectedCost, realCost),
			Progress:          s.Progress,
		})
	}

	return resp, nil
}

// Mantém o cache Project.PhysicalProgress igual à média ponderada das
// etapas no momento do salvamento (é cache, não fonte de verdade).
func refreshPhysicalProgress(proj *models.Project, stages []models.ProjectStage) error {
	proj.PhysicalProgress = rollup.OverallPhysicalProgress(stages)
	return database.DB.Model(&models.Project{}).
		Where("id = ?", proj.ID).
		Update("physical_progress", proj.PhysicalProgress).Error
}

// GET /api/projects/:id/stages
func ListStagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		stages, err := loadStages(proj.ID)
		if err != nil {
			return err
		}

		resp, err := stageListResponse(proj, stages)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// PUT /api/projects/:id/stages
// Sobrescrita da lista de etapas. O peso manda: o custo esperado de cada
// etapa é rederivado de peso/100 × orçamento. Etapas fora da lista são
// removidas (as despesas vinculadas ficam órfãs de etapa, não somem).
func SaveStagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var body SaveStagesRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		existing, err := loadStages(proj.ID)
		if err != nil {
			return err
		}
		existingByID := make(map[uint]models.ProjectStage, len(existing))
		for _, s := range existing {
			existingByID[s.ID] = s
		}

		kept := make(map[uint]bool)
		saved := make([]models.ProjectStage, 0, len(body.Stages))

		for i, in := range body.Stages {
			progress := in.Progress
			if progress < 0 {
				progress = 0
			}
			if progress > 100 {
				progress = 100
			}

			stage := models.ProjectStage{
				ProjectID:    proj.ID,
				Name:         in.Name,
				Position:     i,
				Weight:       in.Weight,
				ExpectedCost: rollup.ExpectedCost(in.Weight, proj.Budget),
				Progress:     progress,
			}
			if in.ID != nil {
				if _, ok := existingByID[*in.ID]; !ok {
					return fiber.NewError(fiber.StatusBadRequest, "Etapa não pertence a este projeto")
				}
				stage.ID = *in.ID
				kept[*in.ID] = true
			}

			if err := database.DB.Save(&stage).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar as etapas")
			}
			saved = append(saved, stage)
		}

		for _, s := range existing {
			if kept[s.ID] {
				continue
			}
			// Desvincula as despesas antes de remover a etapa
			if err := database.DB.Model(&models.Expense{}).
				Where("stage_id = ?", s.ID).
				Update("stage_id", nil).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível desvincular as despesas da etapa")
			}
			if err := database.DB.Delete(&models.ProjectStage{}, s.ID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível remover etapas antigas")
			}
		}

		if err := refreshPhysicalProgress(proj, saved); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o avanço físico")
		}

		userID, userName, infoErr := getUserInfo(c)
		if infoErr == nil {
			if logErr := activity.Write(activity.LogOptions{
				ProjectID:   proj.ID,
				UserID:      userID,
				UserName:    userName,
				Type:        models.ActivityProgress,
				Description: fmt.Sprintf("Etapas atualizadas; avanço físico em %d%%", proj.PhysicalProgress),
			}); logErr != nil {
				log.Println("Atividade não registrada:", logErr)
			}
		}

		resp, err := stageListResponse(proj, saved)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// PATCH /api/projects/:id/stages/:stageId
// Edição de um campo só: peso rederiva custo, custo rederiva peso,
// progresso é limitado a [0,100].
func PatchStageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var body PatchStageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		stages, err := loadStages(proj.ID)
		if err != nil {
			return err
		}

		stageID := c.Params("stageId")
		index := -1
		for i, s := range stages {
			if fmt.Sprint(s.ID) == stageID {
				index = i
				break
			}
		}
		if index < 0 {
			return fiber.NewError(fiber.StatusNotFound, "Etapa não encontrada")
		}

		if body.Weight != nil {
			stages = rollup.RecalcWeight(stages, index, *body.Weight, proj.Budget)
		}
		if body.ExpectedCost != nil {
			stages = rollup.RecalcExpectedCost(stages, index, *body.ExpectedCost, proj.Budget)
		}
		if body.Progress != nil {
			stages = rollup.RecalcProgress(stages, index, *body.Progress)
		}

		if err := database.DB.Save(&stages[index]).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a etapa")
		}

		if err := refreshPhysicalProgress(proj, stages); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o avanço físico")
		}

		resp, err := stageListResponse(proj, stages)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}
