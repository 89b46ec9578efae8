package measurement

import (
	"fmt"
	"log"
	"strings"
	"time"

	"obras-backend/internal/activity"
	"obras-backend/internal/auth"
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateMeasurementRequest struct {
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	Status        models.ExpenseStatus `json:"status"`
	Date          string               `json:"date"` // "2006-01-02"
	AttachmentURL string               `json:"attachment_url"`
}

type MeasurementResponse struct {
	ID            uint                 `json:"id"`
	ProjectID     uint                 `json:"project_id"`
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	Status        models.ExpenseStatus `json:"status"`
	Date          string               `json:"date"`
	CreatedBy     uint                 `json:"created_by"`
	AttachmentURL string               `json:"attachment_url"`
}

func toMeasurementResponse(m models.Measurement) MeasurementResponse {
	return MeasurementResponse{
		ID:            m.ID,
		ProjectID:     m.ProjectID,
		Description:   m.Description,
		Amount:        m.Amount,
		Status:        m.Status,
		Date:          m.Date.Format("2006-01-02"),
		CreatedBy:     m.CreatedBy,
		AttachmentURL: m.AttachmentURL,
	}
}

func validateBody(body *CreateMeasurementRequest) error {
	body.Description = strings.TrimSpace(body.Description)
	if body.Description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Descrição é obrigatória")
	}
	if body.Status != models.StatusRealized && body.Status != models.StatusFuture {
		return fiber.NewError(fiber.StatusBadRequest, "Status de medição inválido")
	}
	return nil
}

// POST /api/projects/:id/measurements
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var body CreateMeasurementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validateBody(&body); err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data deve estar no formato 'YYYY-MM-DD'")
		}

		actor, err := auth.ActorFromContext(c)
		if err != nil {
			return err
		}

		m := models.Measurement{
			ProjectID:     proj.ID,
			Description:   body.Description,
			Amount:        body.Amount,
			Status:        body.Status,
			Date:          d,
			CreatedBy:     actor.UserID,
			AttachmentURL: body.AttachmentURL,
		}

		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a medição")
		}

		writeActivity(c, proj.ID, fmt.Sprintf("Medição lançada: %s - R$ %s", m.Description, m.Amount.StringFixed(2)))

		return c.Status(fiber.StatusCreated).JSON(toMeasurementResponse(m))
	}
}

// GET /api/projects/:id/measurements?status=...
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Measurement{}).Where("project_id = ?", proj.ID)
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var rows []models.Measurement
		if err := dbq.Order("date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as medições")
		}

		resp := make([]MeasurementResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toMeasurementResponse(r))
		}
		return c.JSON(resp)
	}
}

// PUT /api/projects/:id/measurements/:measurementId
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var m models.Measurement
		if err := database.DB.First(&m, "id = ? AND project_id = ?", c.Params("measurementId"), proj.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medição não encontrada")
		}

		var body CreateMeasurementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validateBody(&body); err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data deve estar no formato 'YYYY-MM-DD'")
		}

		m.Description = body.Description
		m.Amount = body.Amount
		m.Status = body.Status
		m.Date = d
		m.AttachmentURL = body.AttachmentURL

		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a medição")
		}

		writeActivity(c, proj.ID, fmt.Sprintf("Medição atualizada: %s - R$ %s", m.Description, m.Amount.StringFixed(2)))

		return c.JSON(toMeasurementResponse(m))
	}
}

// DELETE /api/projects/:id/measurements/:measurementId
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var m models.Measurement
		if err := database.DB.First(&m, "id = ? AND project_id = ?", c.Params("measurementId"), proj.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medição não encontrada")
		}

		actor, err := auth.ActorFromContext(c)
		if err != nil {
			return err
		}
		if !actor.CanDeleteRecord(m.CreatedBy) {
			return fiber.NewError(fiber.StatusForbidden, "Você só pode excluir registros criados por você")
		}

		if err := database.DB.Delete(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a medição")
		}

		writeActivity(c, proj.ID, fmt.Sprintf("Medição excluída: %s", m.Description))

		return c.JSON(fiber.Map{"deleted": m.ID})
	}
}

func writeActivity(c *fiber.Ctx, projectID uint, description string) {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return
	}
	var user models.User
	if err := database.DB.First(&user, actor.UserID).Error; err != nil {
		return
	}
	if logErr := activity.Write(activity.LogOptions{
		ProjectID:   projectID,
		UserID:      user.ID,
		UserName:    user.Name,
		Type:        models.ActivityFinancial,
		Description: description,
	}); logErr != nil {
		log.Println("Atividade não registrada:", logErr)
	}
}
