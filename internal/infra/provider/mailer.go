package provider

import (
	"fmt"
	"os"
	"path/filepath"

	"maya-backend/internal/config"
	"maya-backend/internal/infra/logger"

	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer emails the filled form PDF to the configured case-worker
// address.
type SMTPMailer struct {
	Logger *logger.Logger
	Config config.SMTPConfig
}

func NewSMTPMailer(logger *logger.Logger, cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{Logger: logger, Config: cfg}
}

// SendPDF attaches the PDF at pdfPath and sends it. The file must exist and
// the SMTP credentials must be configured.
func (sm *SMTPMailer) SendPDF(pdfPath string) error {
	if sm.Config.Username == "" || sm.Config.Password == "" || sm.Config.Recipient == "" {
		return fmt.Errorf("smtp credentials are not configured")
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("pdf not found at %s: %w", pdfPath, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", sm.Config.Username)
	m.SetHeader("To", sm.Config.Recipient)
	m.SetHeader("Subject", "PDF Document from MayaCode")
	m.SetBody("text/plain", "Please find the attached PDF document.\n\nBest regards,\nMayaCode")
	m.Attach(pdfPath, gomail.Rename(filepath.Base(pdfPath)))

	d := gomail.NewDialer(sm.Config.Host, sm.Config.Port, sm.Config.Username, sm.Config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	sm.Logger.Info(fmt.Sprintf("Email with %s sent to %s", filepath.Base(pdfPath), sm.Config.Recipient))
	return nil
}
