package dashboard

import (
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func loadPortfolioData() ([]models.Project, []models.Expense, error) {
	var projects []models.Project
	if err := database.DB.
		Preload("Expenses").
		Preload("Measurements").
		Find(&projects).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os projetos")
	}

	var adminExpenses []models.Expense
	if err := database.DB.Where("project_id IS NULL").Find(&adminExpenses).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as despesas administrativas")
	}

	return projects, adminExpenses, nil
}

// GET /api/dashboard/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		projects, adminExpenses, err := loadPortfolioData()
		if err != nil {
			return err
		}
		return c.JSON(ComputePortfolio(projects, adminExpenses))
	}
}

// GET /api/dashboard/expenses-by-category
func ExpensesByCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		projects, adminExpenses, err := loadPortfolioData()
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"items": ExpensesByCategory(projects, adminExpenses),
		})
	}
}

// GET /api/dashboard/expenses-by-supplier
func ExpensesBySupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		projects, adminExpenses, err := loadPortfolioData()
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"items": ExpensesBySupplier(projects, adminExpenses),
		})
	}
}
