package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every configurable parameter of the backend, sourced from
// environment variables (loaded from .env for local runs).
type Config struct {
	Port           string   `envconfig:"PORT" default:"8000"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	// Provider credentials
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY" required:"true"`
	DeepgramAPIKey   string `envconfig:"DEEPGRAM_API_KEY" required:"true"`
	GroqAPIKey       string `envconfig:"GROQ_API_KEY" required:"true"`
	ElevenLabsAPIKey string `envconfig:"ELEVEN_LABS_API_KEY" required:"true"`

	// Artifact locations
	PersonaPath     string `envconfig:"PERSONA_PATH" default:"userpersona.json"`
	ExcelPath       string `envconfig:"EXCEL_PATH" default:"User_Data.xlsx"`
	AudioDir        string `envconfig:"AUDIO_DIR" default:"audios"`
	RhubarbBin      string `envconfig:"RHUBARB_BIN" default:"rhubarb/rhubarb"`
	FormPDFTemplate string `envconfig:"FORM_PDF_TEMPLATE" default:"editable5.pdf"`
	FilledPDFPath   string `envconfig:"FILLED_PDF_PATH" default:"filled.pdf"`

	SMTP SMTPConfig
}

// SMTPConfig carries the credentials for the PDF email sender. Empty values
// disable sending; the endpoint then reports a structured error instead.
type SMTPConfig struct {
	Host      string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port      int    `envconfig:"SMTP_PORT" default:"587"`
	Username  string `envconfig:"SMTP_USERNAME"`
	Password  string `envconfig:"SMTP_PASSWORD"`
	Recipient string `envconfig:"PDF_RECIPIENT"`
}

// Load reads .env (when present) and populates Config from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GetEnv returns the value of an environment variable or an empty string.
func GetEnv(key string) string {
	return os.Getenv(key)
}
