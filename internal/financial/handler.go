package financial

import (
	"obras-backend/internal/auth"
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/projects/:id/financial-summary
func ProjectSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var expenses []models.Expense
		if err := database.DB.Where("project_id = ?", proj.ID).Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as despesas")
		}

		var measurements []models.Measurement
		if err := database.DB.Where("project_id = ?", proj.ID).Find(&measurements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as medições")
		}

		summary := Summarize(expenses, measurements)

		return c.JSON(fiber.Map{
			"project_id": proj.ID,
			"summary":    summary,
		})
	}
}
