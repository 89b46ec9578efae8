package auth

import (
	"fmt"
	"strings"

	"obras-backend/internal/config"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxIsMasterKey = "is_master"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Cabeçalho Authorization ausente")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Formato do Authorization deve ser 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de assinatura inválido")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido ou expirado")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token não pôde ser decodificado")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxIsMasterKey, claims.IsMaster)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Não foi possível obter o papel do usuário")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Você não tem permissão para esta operação")
	}
}

// RequireMaster - apenas o super-admin distinto passa.
func RequireMaster() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isMaster, ok := c.Locals(CtxIsMasterKey).(bool)
		if !ok || !isMaster {
			return fiber.NewError(fiber.StatusForbidden, "Operação restrita ao administrador master")
		}
		return c.Next()
	}
}

// Actor - identidade do usuário autenticado extraída dos locals.
type Actor struct {
	UserID   uint
	Role     models.UserRole
	IsMaster bool
}

func ActorFromContext(c *fiber.Ctx) (Actor, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, "Não foi possível obter o usuário autenticado")
	}
	role, _ := c.Locals(CtxUserRoleKey).(models.UserRole)
	isMaster, _ := c.Locals(CtxIsMasterKey).(bool)
	return Actor{UserID: userID, Role: role, IsMaster: isMaster}, nil
}
