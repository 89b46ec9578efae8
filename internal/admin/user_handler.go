package admin

import (
	"strings"

	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
	City     string          `json:"city"`
	State    string          `json:"state"`
	Document string          `json:"document"`
}

type UpdateUserRequest struct {
	Name     *string          `json:"name"`
	Password *string          `json:"password"`
	Role     *models.UserRole `json:"role"`
	Phone    *string          `json:"phone"`
	City     *string          `json:"city"`
	State    *string          `json:"state"`
	Document *string          `json:"document"`
}

type UserResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	IsMaster  bool            `json:"is_master"`
	Phone     string          `json:"phone"`
	City      string          `json:"city"`
	State     string          `json:"state"`
	Document  string          `json:"document"`
	CreatedAt string          `json:"created_at"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsMaster:  u.IsMaster,
		Phone:     u.Phone,
		City:      u.City,
		State:     u.State,
		Document:  u.Document,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// CRUD de usuários (admins e clientes do portal)
// ----------------------------------------

// POST /api/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome, email e senha são obrigatórios")
		}
		if body.Role != models.RoleAdmin && body.Role != models.RoleCliente {
			return fiber.NewError(fiber.StatusBadRequest, "Papel inválido")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			Phone:        body.Phone,
			City:         body.City,
			State:        body.State,
			Document:     body.Document,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário (email já em uso?)")
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// GET /api/users?role=CLIENTE
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})
		if role := c.Query("role"); role != "" {
			dbq = dbq.Where("role = ?", role)
		}

		var users []models.User
		if err := dbq.Order("name asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os usuários")
		}

		resp := make([]UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, toUserResponse(u))
		}
		return c.JSON(resp)
	}
}

// PUT /api/users/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			user.Name = name
		}
		if body.Password != nil && *body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
			}
			user.PasswordHash = string(hash)
		}
		if body.Role != nil {
			if user.IsMaster {
				return fiber.NewError(fiber.StatusBadRequest, "O papel do administrador master não pode ser alterado")
			}
			if *body.Role != models.RoleAdmin && *body.Role != models.RoleCliente {
				return fiber.NewError(fiber.StatusBadRequest, "Papel inválido")
			}
			user.Role = *body.Role
		}
		if body.Phone != nil {
			user.Phone = *body.Phone
		}
		if body.City != nil {
			user.City = *body.City
		}
		if body.State != nil {
			user.State = *body.State
		}
		if body.Document != nil {
			user.Document = *body.Document
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar o usuário")
		}

		return c.JSON(toUserResponse(user))
	}
}

// DELETE /api/users/:id
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		if user.IsMaster {
			return fiber.NewError(fiber.StatusBadRequest, "O administrador master não pode ser excluído")
		}

		// Remove também os vínculos de cliente com projetos
		if err := database.DB.Where("user_id = ?", user.ID).Delete(&models.ProjectClient{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível remover os vínculos do usuário")
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o usuário")
		}

		return c.JSON(fiber.Map{"deleted": user.ID})
	}
}
