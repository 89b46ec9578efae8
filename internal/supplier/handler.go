package supplier

import (
	"strings"

	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Document string `json:"document"` // CNPJ
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
}

type SupplierResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Document  string `json:"document"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
}

func toResponse(s models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Document:  s.Document,
		Email:     s.Email,
		Phone:     s.Phone,
		City:      s.City,
		State:     s.State,
		CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/suppliers
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome do fornecedor é obrigatório")
		}
		if !models.ValidCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria inválida")
		}

		s := models.Supplier{
			Name:     body.Name,
			Category: body.Category,
			Document: strings.TrimSpace(body.Document),
			Email:    strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:    strings.TrimSpace(body.Phone),
			City:     body.City,
			State:    body.State,
		}

		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar o fornecedor")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(s))
	}
}

// GET /api/suppliers?category=...
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Supplier{})
		if cat := c.Query("category"); cat != "" {
			dbq = dbq.Where("category = ?", cat)
		}

		var suppliers []models.Supplier
		if err := dbq.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os fornecedores")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			resp = append(resp, toResponse(s))
		}
		return c.JSON(resp)
	}
}

// PUT /api/suppliers/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fornecedor não encontrado")
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome do fornecedor é obrigatório")
		}
		if !models.ValidCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria inválida")
		}

		s.Name = body.Name
		s.Category = body.Category
		s.Document = strings.TrimSpace(body.Document)
		s.Email = strings.TrimSpace(strings.ToLower(body.Email))
		s.Phone = strings.TrimSpace(body.Phone)
		s.City = body.City
		s.State = body.State

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar o fornecedor")
		}

		return c.JSON(toResponse(s))
	}
}

// DELETE /api/suppliers/:id
// Despesas referenciam fornecedor por nome livre, então não há FK a checar.
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fornecedor não encontrado")
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o fornecedor")
		}

		return c.JSON(fiber.Map{"deleted": s.ID})
	}
}
