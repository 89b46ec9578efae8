package activity

import (
	"obras-backend/internal/auth"
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ActivityResponse struct {
	ID          uint                `json:"id"`
	UserName    string              `json:"user_name"`
	Type        models.ActivityType `json:"type"`
	Description string              `json:"description"`
	Date        string              `json:"date"`
}

// GET /api/projects/:id/activities?type=financial
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.ProjectActivity{}).
			Where("project_id = ?", proj.ID)

		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}

		var rows []models.ProjectActivity
		if err := dbq.Order("date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as atividades")
		}

		resp := make([]ActivityResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, ActivityResponse{
				ID:          r.ID,
				UserName:    r.UserName,
				Type:        r.Type,
				Description: r.Description,
				Date:        r.Date.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		return c.JSON(resp)
	}
}
