package expense

import (
	"fmt"
	"strings"
	"time"

	"obras-backend/internal/auth"
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Despesas administrativas: custos da empresa sem projeto dono
// (project_id nulo). Entram no total de despesas da carteira, mas nunca no
// rollup de um projeto.

type MonthlyAdminSummaryItem struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

type MonthlyAdminSummaryResponse struct {
	Year       int                       `json:"year"`
	Month      int                       `json:"month"`
	Items      []MonthlyAdminSummaryItem `json:"items"`
	GrandTotal decimal.Decimal           `json:"grand_total"`
}

// POST /api/admin-expenses
func CreateAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
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

		actor, err := auth.ActorFromContext(c)
		if err != nil {
			return err
		}

		exp := models.Expense{
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
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a despesa administrativa")
		}

		return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(exp))
	}
}

// GET /api/admin-expenses?month=2026-01&status=...
func ListAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Expense{}).Where("project_id IS NULL")

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		// Filtro de mês "YYYY-MM", espelhando o filtro da tela original
		if month := c.Query("month"); month != "" {
			first, err := time.Parse("2006-01", month)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "month deve estar no formato 'YYYY-MM'")
			}
			dbq = dbq.Where("date >= ? AND date < ?", first, first.AddDate(0, 1, 0))
		}

		var rows []models.Expense
		if err := dbq.Order("date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as despesas administrativas")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toExpenseResponse(r))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin-expenses/:expenseId
func UpdateAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exp models.Expense
		if err := database.DB.First(&exp, "id = ? AND project_id IS NULL", c.Params("expenseId")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa administrativa não encontrada")
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

		exp.Description = body.Description
		exp.Amount = body.Amount
		exp.Category = body.Category
		exp.Supplier = strings.TrimSpace(body.Supplier)
		exp.Status = body.Status
		exp.Date = d
		exp.AttachmentURL = body.AttachmentURL

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a despesa administrativa")
		}

		return c.JSON(toExpenseResponse(exp))
	}
}

// DELETE /api/admin-expenses/:expenseId
func DeleteAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var exp models.Expense
		if err := database.DB.First(&exp, "id = ? AND project_id IS NULL", c.Params("expenseId")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa administrativa não encontrada")
		}

		actor, err := auth.ActorFromContext(c)
		if err != nil {
			return err
		}
		if !actor.CanDeleteRecord(exp.CreatedBy) {
			return fiber.NewError(fiber.StatusForbidden, "Você só pode excluir registros criados por você")
		}

		if err := database.DB.Delete(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a despesa administrativa")
		}

		return c.JSON(fiber.Map{"deleted": exp.ID})
	}
}

// GET /api/admin-expenses/summary/monthly?year=2026&month=1
func MonthlyAdminSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year e month são obrigatórios")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year inválido")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month inválido")
		}

		loc := time.Now().Location()
		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		lastDay := firstDay.AddDate(0, 1, -1)

		var rows []models.Expense
		if err := database.DB.
			Where("project_id IS NULL AND date >= ? AND date <= ?", firstDay, lastDay).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		// Agregação em memória na ordem do catálogo, em decimal exato
		totals := make(map[string]decimal.Decimal)
		for _, r := range rows {
			totals[r.Category] = totals[r.Category].Add(r.Amount)
		}

		resp := MonthlyAdminSummaryResponse{
			Year:       year,
			Month:      month,
			Items:      make([]MonthlyAdminSummaryItem, 0, len(totals)),
			GrandTotal: decimal.Zero,
		}
		for _, cat := range models.ExpenseCategories {
			total, ok := totals[cat.ID]
			if !ok {
				continue
			}
			resp.Items = append(resp.Items, MonthlyAdminSummaryItem{
				CategoryID:   cat.ID,
				CategoryName: cat.Label,
				Total:        total,
			})
			resp.GrandTotal = resp.GrandTotal.Add(total)
		}

		return c.JSON(resp)
	}
}
