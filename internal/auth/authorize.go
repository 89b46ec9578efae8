package auth

import (
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CanDeleteRecord - regra de exclusão de lançamentos (despesas e medições):
// só o criador do registro ou o administrador master podem excluir.
// É um guard booleano; quem chama devolve 403, sem exceção.
func (a Actor) CanDeleteRecord(createdBy uint) bool {
	return a.IsMaster || a.UserID == createdBy
}

// CanViewProject - visibilidade por papel: admin vê qualquer projeto,
// cliente só os que tem vínculo (linkCount > 0 em project_clients).
func (a Actor) CanViewProject(linkCount int64) bool {
	if a.Role == models.RoleCliente {
		return linkCount > 0
	}
	return true
}

// LoadProject - carrega o projeto da rota (:id) e aplica a visibilidade
// por papel. Todos os handlers aninhados em /projects/:id passam por aqui.
func LoadProject(c *fiber.Ctx) (*models.Project, error) {
	id := c.Params("id")

	var proj models.Project
	if err := database.DB.First(&proj, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Projeto não encontrado")
	}

	actor, err := ActorFromContext(c)
	if err != nil {
		return nil, err
	}

	var linkCount int64
	if actor.Role == models.RoleCliente {
		database.DB.Model(&models.ProjectClient{}).
			Where("project_id = ? AND user_id = ?", proj.ID, actor.UserID).
			Count(&linkCount)
	}
	if !actor.CanViewProject(linkCount) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Você não tem acesso a este projeto")
	}

	return &proj, nil
}
