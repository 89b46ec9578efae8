package attachment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"obras-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Upload de anexos (notas fiscais, recibos, fotos, documentos). O arquivo
// é gravado antes de qualquer registro referenciá-lo; o serviço devolve só
// a URL e não gerencia o ciclo de vida do arquivo depois disso.

const maxUploadSize = 15 * 1024 * 1024 // 15 MB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

type UploadResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// POST /api/attachments (multipart, campo "file")
func UploadHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Arquivo não enviado (campo 'file')")
		}

		if fileHeader.Size > maxUploadSize {
			return fiber.NewError(fiber.StatusBadRequest, "Arquivo excede o limite de 15 MB")
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedExtensions[ext] {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de arquivo não suportado (PDF ou imagem)")
		}

		if err := os.MkdirAll(cfg.AttachmentPath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível preparar a pasta de anexos")
		}

		name := uuid.NewString() + ext
		dest := filepath.Join(cfg.AttachmentPath, name)

		if err := c.SaveFile(fileHeader, dest); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gravar o arquivo")
		}

		return c.Status(fiber.StatusCreated).JSON(UploadResponse{
			URL:  fmt.Sprintf("/files/%s", name),
			Name: fileHeader.Filename,
		})
	}
}
