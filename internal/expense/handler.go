package expense

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

type CreateExpenseRequest struct {
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	Category      string               `json:"category"`
	Supplier      string               `json:"supplier"`
	Status        models.ExpenseStatus `json:"status"`
	Date          string               `json:"date"` // "2006-01-02"
	StageID       *uint                `json:"stage_id"`
	AttachmentURL string               `json:"attachment_url"`
}

type ExpenseResponse struct {
	ID            uint                 `json:"id"`
	ProjectID     *uint                `json:"project_id"`
	StageID       *uint                `json:"stage_id"`
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	Category      string               `json:"category"`
	CategoryName  string               `json:"category_name"`
	Supplier      string               `json:"supplier"`
	Status        models.ExpenseStatus `json:"status"`
	Date          string               `json:"date"`
	CreatedBy     uint                 `json:"created_by"`
	AttachmentURL string               `json:"attachment_url"`
}

func toExpenseResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		ProjectID:     e.ProjectID,
		StageID:       e.StageID,
		Description:   e.Description,
		Amount:        e.Amount,
		Category:      e.Category,
		CategoryName:  models.CategoryLabel(e.Category),
		Supplier:      e.Supplier,
		Status:        e.Status,
		Date:          e.Date.Format("2006-01-02"),
		CreatedBy:     e.CreatedBy,
		AttachmentURL: e.AttachmentURL,
	}
}

func validateExpenseBody(body *CreateExpenseRequest) error {
	body.Description = strings.TrimSpace(body.Description)
	if body.Description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Descrição é obrigatória")
	}
	if !models.ValidCategory(body.Category) {
		return fiber.NewError(fiber.StatusBadRequest, "Categoria inválida")
	}
	if body.Status != models.StatusRealized && body.Status != models.StatusFuture {
		return fiber.NewError(fiber.StatusBadRequest, "Status de despesa inválido")
	}
	return nil
}

// GET /api/expense-categories
// Catálogo fixo; não há CRUD de categorias.
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(models.ExpenseCategories)
	}
}

// POST /api/projects/:id/expenses
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validateExpenseBody(&body); err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data deve estar no formato 'YYYY-MM-DD'")
		}

		if body.StageID != nil {
			var count int64
			database.DB.Model(&models.ProjectStage{}).
				Where("id = ? AND project_id = ?", *body.StageID, proj.ID).
				Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Etapa não pertence a este projeto")
			}
		}

		actor, err := auth.ActorFromContext(c)
		if err != nil {
			return err
		}

		exp := models.Expense{
			ProjectID:     &proj.ID,
			StageID:       body.StageID,
			Description:   body.Description,
			Amount:        body.Amount,
			Category:      body.Category,
			Supplier:      strings.TrimSpace(body.Supplier),
			Status:        body.Status,
			Date:          d,
			CreatedBy:     actor.UserID,
			AttachmentURL: body.AttachmentURL,
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a despesa")
		}

		writeFinancialActivity(c, proj.ID, fmt.Sprintf("Despesa lançada: %s - R$ %s", exp.Description, exp.Amount.StringFixed(2)))

		return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(exp))
	}
}

// GET /api/projects/:id/expenses?status=...&stage_id=...&from=...&to=...
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Expense{}).Where("project_id = ?", proj.ID)

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if stageStr := c.Query("stage_id"); stageStr != "" {
			var sid uint
			if _, err := fmt.Sscan(stageStr, &sid); err != nil || sid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "stage_id inválido")
			}
			dbq = dbq.Where("stage_id = ?", sid)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from inválido")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to inválido")
			}
			dbq = dbq.Where("date <= ?", to)
		}

		var rows []models.Expense
		if err := dbq.Order("date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as despesas")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toExpenseResponse(r))
		}
		return c.JSON(resp)
	}
}

// PUT /api/projects/:id/expenses/:expenseId
// Sobrescrita completa do registro, sem merge parcial.
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var exp models.Expense
		if err := database.DB.First(&exp, "id = ? AND project_id = ?", c.Params("expenseId"), proj.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa não encontrada")
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validateExpenseBody(&body); err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data deve estar no formato 'YYYY-MM-DD'")
		}

		exp.StageID = body.StageID
		exp.Description = body.Description
		exp.Amount = body.Amount
		exp.Category = body.Category
		exp.Supplier = strings.TrimSpace(body.Supplier)
		exp.Status = body.Status
		exp.Date = d
		exp.AttachmentURL = body.AttachmentURL

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a despesa")
		}

		writeFinancialActivity(c, proj.ID, fmt.Sprintf("Despesa atualizada: %s - R$ %s", exp.Description, exp.Amount.StringFixed(2)))

		return c.JSON(toExpenseResponse(exp))
	}
}

// DELETE /api/projects/:id/expenses/:expenseId
// Só o criador do registro ou o master podem excluir.
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var exp models.Expense
		if err := database.DB.First(&exp, "id = ? AND project_id = ?", c.Params("expenseId"), proj.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa não encontrada")
		}

		actor, err := auth.ActorFromContext(c)
		if err != nil {
			return err
		}
		if !actor.CanDeleteRecord(exp.CreatedBy) {
			return fiber.NewError(fiber.StatusForbidden, "Você só pode excluir registros criados por você")
		}

		if err := database.DB.Delete(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a despesa")
		}

		writeFinancialActivity(c, proj.ID, fmt.Sprintf("Despesa excluída: %s", exp.Description))

		return c.JSON(fiber.Map{"deleted": exp.ID})
	}
}

func writeFinancialActivity(c *fiber.Ctx, projectID uint, description string) {
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
