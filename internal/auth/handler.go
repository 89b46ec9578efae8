package auth

import (
	"strings"

	"obras-backend/internal/config"
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterMasterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register-master
// Cria o administrador master. Só é permitido um.
func RegisterMasterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterMasterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome, email e senha são obrigatórios")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("is_master = ?", true).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Já existe um administrador master")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			IsMaster:     true,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email ou senha incorretos")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email ou senha incorretos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":        user.ID,
				"name":      user.Name,
				"email":     user.Email,
				"role":      user.Role,
				"is_master": user.IsMaster,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromContext(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, actor.UserID).Error; err != nil {
			// Fallback: token válido mas usuário sumiu do banco
			return c.JSON(fiber.Map{
				"user_id":   actor.UserID,
				"role":      actor.Role,
				"is_master": actor.IsMaster,
			})
		}

		return c.JSON(fiber.Map{
			"user_id":   user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"is_master": user.IsMaster,
			"phone":     user.Phone,
			"city":      user.City,
			"state":     user.State,
		})
	}
}
