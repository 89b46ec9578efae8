package attachment

import (
	"fmt"
	"log"
	"strings"
	"time"

	"obras-backend/internal/activity"
	"obras-backend/internal/auth"
	"obras-backend/internal/database"
	"obras-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDocumentRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	URL         string                `json:"url"`
	Type        models.AttachmentType `json:"type"`
	Date        string                `json:"date"`
}

type DocumentResponse struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	URL         string                `json:"url"`
	Type        models.AttachmentType `json:"type"`
	Date        string                `json:"date"`
}

type CreatePhotoTopicRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type AddPhotoRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Date string `json:"date"`
}

type PhotoTopicResponse struct {
	ID     uint               `json:"id"`
	Title  string             `json:"title"`
	Date   string             `json:"date"`
	Photos []DocumentResponse `json:"photos"`
}

func toDocumentResponse(a models.Attachment) DocumentResponse {
	return DocumentResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		URL:         a.URL,
		Type:        a.Type,
		Date:        a.Date.Format("2006-01-02"),
	}
}

// ----------------------------------------
// Documentação técnica do projeto
// ----------------------------------------

// POST /api/projects/:id/documents
func CreateDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var body CreateDocumentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.URL == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome e URL são obrigatórios")
		}
		if body.Type != models.AttachmentImage && body.Type != models.AttachmentDocument {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de anexo inválido")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			d = time.Now()
		}

		doc := models.Attachment{
			ProjectID:   &proj.ID,
			Name:        body.Name,
			Description: body.Description,
			URL:         body.URL,
			Type:        body.Type,
			Date:        d,
		}

		if err := database.DB.Create(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar o documento")
		}

		writeAttachmentActivity(c, proj.ID, fmt.Sprintf("Documento anexado: %s", doc.Name))

		return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(doc))
	}
}

// GET /api/projects/:id/documents
func ListDocumentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var docs []models.Attachment
		if err := database.DB.
			Where("project_id = ? AND photo_topic_id IS NULL", proj.ID).
			Order("date desc, id desc").
			Find(&docs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os documentos")
		}

		resp := make([]DocumentResponse, 0, len(docs))
		for _, d := range docs {
			resp = append(resp, toDocumentResponse(d))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/projects/:id/documents/:documentId
// Remove só a referência; o arquivo em disco não é apagado.
func DeleteDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var doc models.Attachment
		if err := database.DB.First(&doc, "id = ? AND project_id = ?", c.Params("documentId"), proj.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Documento não encontrado")
		}

		if err := database.DB.Delete(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o documento")
		}

		return c.JSON(fiber.Map{"deleted": doc.ID})
	}
}

// ----------------------------------------
// Tópicos de fotos (acompanhamento da obra)
// ----------------------------------------

// POST /api/projects/:id/photo-topics
func CreatePhotoTopicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var body CreatePhotoTopicRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Título é obrigatório")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			d = time.Now()
		}

		topic := models.PhotoTopic{
			ProjectID: proj.ID,
			Title:     body.Title,
			Date:      d,
		}

		if err := database.DB.Create(&topic).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o tópico de fotos")
		}

		return c.Status(fiber.StatusCreated).JSON(PhotoTopicResponse{
			ID:     topic.ID,
			Title:  topic.Title,
			Date:   topic.Date.Format("2006-01-02"),
			Photos: []DocumentResponse{},
		})
	}
}

// GET /api/projects/:id/photo-topics
func ListPhotoTopicsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var topics []models.PhotoTopic
		if err := database.DB.
			Preload("Photos").
			Where("project_id = ?", proj.ID).
			Order("date desc, id desc").
			Find(&topics).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os tópicos de fotos")
		}

		resp := make([]PhotoTopicResponse, 0, len(topics))
		for _, t := range topics {
			photos := make([]DocumentResponse, 0, len(t.Photos))
			for _, p := range t.Photos {
				photos = append(photos, toDocumentResponse(p))
			}
			resp = append(resp, PhotoTopicResponse{
				ID:     t.ID,
				Title:  t.Title,
				Date:   t.Date.Format("2006-01-02"),
				Photos: photos,
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/projects/:id/photo-topics/:topicId/photos
func AddPhotoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var topic models.PhotoTopic
		if err := database.DB.First(&topic, "id = ? AND project_id = ?", c.Params("topicId"), proj.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tópico de fotos não encontrado")
		}

		var body AddPhotoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.URL == "" {
			return fiber.NewError(fiber.StatusBadRequest, "URL da foto é obrigatória")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			d = time.Now()
		}

		photo := models.Attachment{
			ProjectID:    &proj.ID,
			PhotoTopicID: &topic.ID,
			Name:         strings.TrimSpace(body.Name),
			URL:          body.URL,
			Type:         models.AttachmentImage,
			Date:         d,
		}

		if err := database.DB.Create(&photo).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a foto")
		}

		writeAttachmentActivity(c, proj.ID, fmt.Sprintf("Foto adicionada ao tópico: %s", topic.Title))

		return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(photo))
	}
}

// DELETE /api/projects/:id/photo-topics/:topicId
func DeletePhotoTopicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		proj, err := auth.LoadProject(c)
		if err != nil {
			return err
		}

		var topic models.PhotoTopic
		if err := database.DB.First(&topic, "id = ? AND project_id = ?", c.Params("topicId"), proj.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tópico de fotos não encontrado")
		}

		if err := database.DB.Where("photo_topic_id = ?", topic.ID).Delete(&models.Attachment{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir as fotos do tópico")
		}
		if err := database.DB.Delete(&topic).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o tópico de fotos")
		}

		return c.JSON(fiber.Map{"deleted": topic.ID})
	}
}

func writeAttachmentActivity(c *fiber.Ctx, projectID uint, description string) {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return
	}
	var user models.User
	if err := database.DB.First(&user, actor.UserID).Error; err != nil {
		return
	}
	if logErr := activity.Write(activity.LogOptions{
		ProjectID:   projectID,
		UserID:      user.ID,
		UserName:    user.Name,
		Type:        models.ActivityAttachment,
		Description: description,
	}); logErr != nil {
		log.Println("Atividade não registrada:", logErr)
	}
}
