package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"maya-backend/internal/infra/logger"
)

// PDFRenderer fills the asylum application template with the collected form
// fields. The output path is fixed; every render overwrites the previous
// document.
type PDFRenderer struct {
	Logger       *logger.Logger
	TemplatePath string
	OutputPath   string
}

func NewPDFRenderer(log *logger.Logger, templatePath, outputPath string) *PDFRenderer {
	return &PDFRenderer{Logger: log, TemplatePath: templatePath, OutputPath: outputPath}
}

type pdfFormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type pdfForm struct {
	TextField []pdfFormField `json:"textfield"`
}

type pdfFormDocument struct {
	Forms []pdfForm `json:"forms"`
}

// Render writes the filled PDF and returns its path.
func (pr *PDFRenderer) Render(form map[string]string) (string, error) {
	fields := make([]pdfFormField, 0, len(form))
	for name, value := range form {
		fields = append(fields, pdfFormField{Name: name, Value: value})
	}

	doc := pdfFormDocument{Forms: []pdfForm{{TextField: fields}}}
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode form data: %w", err)
	}

	tmp, err := os.CreateTemp("", "formdata-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create form data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write form data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if dir := filepath.Dir(pr.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	if err := api.FillFormFile(pr.TemplatePath, tmp.Name(), pr.OutputPath, nil); err != nil {
		return "", fmt.Errorf("failed to fill pdf form: %w", err)
	}

	pr.Logger.Info("PDF rendered", logrus.Fields{"path": pr.OutputPath, "fields": len(form)})
	return pr.OutputPath, nil
}

// Exists reports whether a rendered document is available for sending.
func (pr *PDFRenderer) Exists() bool {
	info, err := os.Stat(pr.OutputPath)
	return err == nil && !info.IsDir()
}
