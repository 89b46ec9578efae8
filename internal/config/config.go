package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	JWTSecret      string
	CORSOrigins    string
	AttachmentPath string // pasta onde os anexos (notas, fotos, documentos) são gravados
}

func Load() *Config {
	// .env local é opcional; em produção tudo vem do ambiente
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=obras port=5432 sslmode=disable"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AttachmentPath: getEnv("ATTACHMENT_PATH", "./attachments"),
	}

	// Checagens de segurança para produção
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET não definido! Obrigatório para subir o servidor.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET precisa ter no mínimo 32 caracteres! Risco de segurança.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=obras port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN usando valor padrão; em produção defina a conexão do seu Postgres.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS usando valor padrão; em produção defina o domínio do app.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
