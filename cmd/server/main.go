package main

import (
	"log"
	"strings"

	"obras-backend/internal/activity"
	"obras-backend/internal/admin"
	"obras-backend/internal/attachment"
	"obras-backend/internal/auth"
	"obras-backend/internal/config"
	"obras-backend/internal/dashboard"
	"obras-backend/internal/database"
	"obras-backend/internal/expense"
	"obras-backend/internal/financial"
	"obras-backend/internal/measurement"
	"obras-backend/internal/models"
	"obras-backend/internal/project"
	"obras-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Anexos gravados em disco são servidos estaticamente
	app.Static("/files", cfg.AttachmentPath)

	api := app.Group("/api")

	// Auth público
	api.Post("/auth/register-master", auth.RegisterMasterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protegido
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Rotas de administrador
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Usuários (admins e clientes do portal)
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Put("/users/:id", admin.UpdateUserHandler())
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler())

	// Fornecedores
	protected.Get("/suppliers", supplier.ListHandler())
	adminRoutes.Post("/suppliers", supplier.CreateHandler())
	adminRoutes.Put("/suppliers/:id", supplier.UpdateHandler())
	adminRoutes.Delete("/suppliers/:id", supplier.DeleteHandler())

	// Projetos (cliente vê só os vinculados; escrita é de admin)
	protected.Get("/projects", project.ListHandler())
	protected.Get("/projects/:id", project.GetHandler())
	adminRoutes.Post("/projects", project.CreateHandler())
	adminRoutes.Put("/projects/:id", project.UpdateHandler())
	adminRoutes.Delete("/projects/:id", auth.RequireMaster(), project.DeleteHandler())

	// Etapas ponderadas
	protected.Get("/projects/:id/stages", project.ListStagesHandler())
	adminRoutes.Put("/projects/:id/stages", project.SaveStagesHandler())
	adminRoutes.Patch("/projects/:id/stages/:stageId", project.PatchStageHandler())

	// Despesas do projeto
	protected.Get("/projects/:id/expenses", expense.ListHandler())
	adminRoutes.Post("/projects/:id/expenses", expense.CreateHandler())
	adminRoutes.Put("/projects/:id/expenses/:expenseId", expense.UpdateHandler())
	adminRoutes.Delete("/projects/:id/expenses/:expenseId", expense.DeleteHandler())

	// Medições (faturamento)
	protected.Get("/projects/:id/measurements", measurement.ListHandler())
	adminRoutes.Post("/projects/:id/measurements", measurement.CreateHandler())
	adminRoutes.Put("/projects/:id/measurements/:measurementId", measurement.UpdateHandler())
	adminRoutes.Delete("/projects/:id/measurements/:measurementId", measurement.DeleteHandler())

	// Resumo financeiro do projeto
	protected.Get("/projects/:id/financial-summary", financial.ProjectSummaryHandler())

	// Despesas administrativas (sem projeto)
	adminRoutes.Post("/admin-expenses", expense.CreateAdminHandler())
	adminRoutes.Get("/admin-expenses", expense.ListAdminHandler())
	adminRoutes.Put("/admin-expenses/:expenseId", expense.UpdateAdminHandler())
	adminRoutes.Delete("/admin-expenses/:expenseId", expense.DeleteAdminHandler())
	adminRoutes.Get("/admin-expenses/summary/monthly", expense.MonthlyAdminSummaryHandler())

	// Catálogo fixo de categorias
	protected.Get("/expense-categories", expense.ListCategoriesHandler())

	// Dashboard da carteira
	adminRoutes.Get("/dashboard/summary", dashboard.SummaryHandler())
	adminRoutes.Get("/dashboard/expenses-by-category", dashboard.ExpensesByCategoryHandler())
	adminRoutes.Get("/dashboard/expenses-by-supplier", dashboard.ExpensesBySupplierHandler())

	// Documentação técnica e fotos
	protected.Get("/projects/:id/documents", attachment.ListDocumentsHandler())
	adminRoutes.Post("/projects/:id/documents", attachment.CreateDocumentHandler())
	adminRoutes.Delete("/projects/:id/documents/:documentId", attachment.DeleteDocumentHandler())
	protected.Get("/projects/:id/photo-topics", attachment.ListPhotoTopicsHandler())
	adminRoutes.Post("/projects/:id/photo-topics", attachment.CreatePhotoTopicHandler())
	adminRoutes.Post("/projects/:id/photo-topics/:topicId/photos", attachment.AddPhotoHandler())
	adminRoutes.Delete("/projects/:id/photo-topics/:topicId", attachment.DeletePhotoTopicHandler())

	// Upload de anexos
	adminRoutes.Post("/attachments", attachment.UploadHandler(cfg))

	// Feed de atividades do projeto
	protected.Get("/projects/:id/activities", activity.ListHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
